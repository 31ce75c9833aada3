package tmpl

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

//go:generate go tool stringer -type=Kind -trimprefix=Kind

// Value kinds. The zero Kind is KindAbsent.
const (
	KindAbsent Kind = iota
	KindBoolean
	KindString
	KindList
	KindObject
)

// Value is an immutable tagged tree node.
//
// Exactly one payload field is meaningful, selected by kind:
//   - KindBoolean: b
//   - KindString: s
//   - KindList: list
//   - KindObject: obj
//
// The zero Value is Absent. Constructors copy their inputs and accessors
// return copies, so a Value never shares mutable state with its caller.
type Value struct {
	obj  map[string]Value
	s    string
	list []Value
	kind Kind
	b    bool
}

// Absent returns the explicit "no value" marker.
func Absent() Value { return Value{} }

// Bool returns a Boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// String returns a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Strings returns a List of String values.
func Strings(s ...string) Value {
	list := make([]Value, len(s))
	for i := range s {
		list[i] = String(s[i])
	}

	return Value{kind: KindList, list: list}
}

// List returns a List holding a copy of the given elements in order.
func List(elems ...Value) Value {
	return Value{kind: KindList, list: slices.Clone(elems)}
}

// Object returns an Object holding a copy of the given members.
func Object(members map[string]Value) Value {
	obj := make(map[string]Value, len(members))
	maps.Copy(obj, members)

	return Value{kind: KindObject, obj: obj}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the Absent marker.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// AsBoolean returns the boolean held by v.
// Absent and every non-Boolean variant yield false; a type mismatch is
// indistinguishable from a missing value.
func (v Value) AsBoolean() bool {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindAbsent, KindString, KindList, KindObject:
		return false
	default:
		return false
	}
}

// AsString returns the text held by v, or false if v is not a String.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindAbsent, KindBoolean, KindList, KindObject:
		return "", false
	default:
		return "", false
	}
}

// AsList returns a copy of the elements held by v, or false if v is not a
// List. An empty List returns a non-nil empty slice and true.
func (v Value) AsList() ([]Value, bool) {
	switch v.kind {
	case KindList:
		if v.list == nil {
			return []Value{}, true
		}

		return slices.Clone(v.list), true
	case KindAbsent, KindBoolean, KindString, KindObject:
		return nil, false
	default:
		return nil, false
	}
}

// AsObject returns a copy of the members held by v, or false if v is not an
// Object.
func (v Value) AsObject() (map[string]Value, bool) {
	switch v.kind {
	case KindObject:
		obj := make(map[string]Value, len(v.obj))
		maps.Copy(obj, v.obj)

		return obj, true
	case KindAbsent, KindBoolean, KindString, KindList:
		return nil, false
	default:
		return nil, false
	}
}

// Len returns the number of elements of a List or members of an Object, and
// 0 for every other variant.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindObject:
		return len(v.obj)
	case KindAbsent, KindBoolean, KindString:
		return 0
	default:
		return 0
	}
}

// Index returns the i'th element of a List, or Absent if v is not a List or
// i is out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Absent()
	}

	return v.list[i]
}

// Lookup returns the member named key of an Object.
// It returns Absent and false if v is not an Object or has no such member.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindObject {
		return Absent(), false
	}

	m, ok := v.obj[key]

	return m, ok
}

// Keys returns the sorted member names of an Object, or nil.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}

	return slices.Sorted(maps.Keys(v.obj))
}

// Equal reports whether v and w are structurally equal.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindAbsent:
		return true
	case KindBoolean:
		return v.b == w.b
	case KindString:
		return v.s == w.s
	case KindList:
		return slices.EqualFunc(v.list, w.list, Value.Equal)
	case KindObject:
		return maps.EqualFunc(v.obj, w.obj, Value.Equal)
	default:
		return false
	}
}

// Clone returns a deep, independent copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		list := make([]Value, len(v.list))
		for i, e := range v.list {
			list[i] = e.Clone()
		}

		return Value{kind: KindList, list: list}
	case KindObject:
		obj := make(map[string]Value, len(v.obj))
		for k, m := range v.obj {
			obj[k] = m.Clone()
		}

		return Value{kind: KindObject, obj: obj}
	case KindAbsent, KindBoolean, KindString:
		return v
	default:
		return v
	}
}

// String returns a compact, deterministic representation of v for debugging.
// Strings are quoted and Object members are sorted by name.
func (v Value) String() string {
	var buf strings.Builder

	v.format(&buf)

	return buf.String()
}

func (v Value) format(buf *strings.Builder) {
	switch v.kind {
	case KindAbsent:
		buf.WriteString("<absent>")
	case KindBoolean:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindString:
		buf.WriteString(strconv.Quote(v.s))
	case KindList:
		buf.WriteByte('[')

		for i, e := range v.list {
			if i > 0 {
				buf.WriteString(", ")
			}

			e.format(buf)
		}

		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')

		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteString(", ")
			}

			buf.WriteString(k)
			buf.WriteString(": ")
			v.obj[k].format(buf)
		}

		buf.WriteByte('}')
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	switch v.kind {
	case KindBoolean:
		return slog.BoolValue(v.b)
	case KindString:
		return slog.StringValue(v.s)
	case KindAbsent, KindList, KindObject:
		return slog.StringValue(v.String())
	default:
		return slog.StringValue(v.String())
	}
}
