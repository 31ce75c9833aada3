package tmpl

import (
	"maps"
	"slices"
	"strings"
)

// Context is the root value bag supplied to a render.
//
// A Context is persistent: [Context.Bind] and [Context.Without] return a new
// Context layered over the receiver in constant time, and the receiver is
// never modified. The zero Context is empty and ready to use.
type Context struct {
	root  map[string]Value
	scope *scope
}

// scope is one top-level binding layered over a parent chain.
// A scope with absent set hides the name instead of binding it.
type scope struct {
	next   *scope
	name   string
	value  Value
	absent bool
}

// NewContext returns a Context holding a copy of the given top-level members.
func NewContext(members map[string]Value) Context {
	root := make(map[string]Value, len(members))
	maps.Copy(root, members)

	return Context{root: root}
}

// lookup returns the top-level member name.
func (c Context) lookup(name string) (Value, bool) {
	for s := c.scope; s != nil; s = s.next {
		if s.name == name {
			return s.value, !s.absent
		}
	}

	v, ok := c.root[name]

	return v, ok
}

// Resolve walks the dotted path from the top level of c.
//
// Each segment is looked up in the current Object. If a segment is missing,
// or the current value is not an Object while segments remain, the result is
// Absent. Resolve never fails.
func (c Context) Resolve(path string) Value {
	head, rest, nested := strings.Cut(path, ".")

	v, ok := c.lookup(head)
	if !ok {
		return Absent()
	}

	for nested {
		head, rest, nested = strings.Cut(rest, ".")

		if v, ok = v.Lookup(head); !ok {
			return Absent()
		}
	}

	return v
}

// Bool resolves path and returns its boolean, or false if the path is missing
// or does not hold a Boolean.
func (c Context) Bool(path string) bool { return c.Resolve(path).AsBoolean() }

// String resolves path and returns its text, or false if the path is missing
// or does not hold a String.
func (c Context) String(path string) (string, bool) {
	return c.Resolve(path).AsString()
}

// List resolves path and returns its elements, or false if the path is
// missing or does not hold a List.
func (c Context) List(path string) ([]Value, bool) {
	return c.Resolve(path).AsList()
}

// Object resolves path and returns its members, or false if the path is
// missing or does not hold an Object.
func (c Context) Object(path string) (map[string]Value, bool) {
	return c.Resolve(path).AsObject()
}

// Bind returns a Context equal to c with name set to v at the top level.
// Dotted names are not interpreted; name is bound verbatim.
func (c Context) Bind(name string, v Value) Context {
	return Context{
		root:  c.root,
		scope: &scope{next: c.scope, name: name, value: v},
	}
}

// Without returns a Context equal to c with the top-level member name
// removed.
func (c Context) Without(name string) Context {
	return Context{
		root:  c.root,
		scope: &scope{next: c.scope, name: name, absent: true},
	}
}

// members flattens the binding chain over the root.
func (c Context) members() map[string]Value {
	out := make(map[string]Value, len(c.root))
	maps.Copy(out, c.root)

	// Apply the oldest binding first so the newest wins.
	var chain []*scope
	for s := c.scope; s != nil; s = s.next {
		chain = append(chain, s)
	}

	for _, s := range slices.Backward(chain) {
		if s.absent {
			delete(out, s.name)
		} else {
			out[s.name] = s.value
		}
	}

	return out
}

// Len returns the number of top-level members.
func (c Context) Len() int { return len(c.members()) }

// Keys returns the sorted top-level member names.
func (c Context) Keys() []string {
	return slices.Sorted(maps.Keys(c.members()))
}

// Value returns the context as an Object.
func (c Context) Value() Value {
	return Value{kind: KindObject, obj: c.members()}
}

// Clone returns a deep, independent copy of c with its bindings flattened.
func (c Context) Clone() Context {
	m := c.members()
	for k, v := range m {
		m[k] = v.Clone()
	}

	return Context{root: m}
}

// Equal reports whether c and d hold structurally equal members.
func (c Context) Equal(d Context) bool {
	return maps.EqualFunc(c.members(), d.members(), Value.Equal)
}

// Paths returns every dotted path that reaches a non-Object value, sorted.
// Empty Objects contribute their own path.
func (c Context) Paths() []string {
	var paths []string

	var walk func(prefix string, v Value)

	walk = func(prefix string, v Value) {
		if v.kind != KindObject || len(v.obj) == 0 {
			paths = append(paths, prefix)

			return
		}

		for k, m := range v.obj {
			walk(prefix+"."+k, m)
		}
	}

	for k, v := range c.members() {
		walk(k, v)
	}

	slices.Sort(paths)

	return paths
}
