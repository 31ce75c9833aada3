package tmpl

// Builder accumulates named members for a [Context] or an Object [Value].
//
//	c := tmpl.NewBuilder().
//		String("item", "Stuff").
//		Strings("items", "A", "B", "C").
//		Object("object", tmpl.NewBuilder().String("value", "string")).
//		Build()
//
// Setting a name that is already present replaces it.
type Builder struct {
	members map[string]Value
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{members: make(map[string]Value)}
}

// Value sets name to v.
func (b *Builder) Value(name string, v Value) *Builder {
	b.members[name] = v

	return b
}

// Bool sets name to a Boolean.
func (b *Builder) Bool(name string, v bool) *Builder {
	return b.Value(name, Bool(v))
}

// String sets name to a String.
func (b *Builder) String(name, v string) *Builder {
	return b.Value(name, String(v))
}

// Strings sets name to a List of Strings.
func (b *Builder) Strings(name string, v ...string) *Builder {
	return b.Value(name, Strings(v...))
}

// List sets name to a List.
func (b *Builder) List(name string, v ...Value) *Builder {
	return b.Value(name, List(v...))
}

// Object sets name to the Object built by o.
func (b *Builder) Object(name string, o *Builder) *Builder {
	return b.Value(name, o.BuildValue())
}

// Remove deletes name.
func (b *Builder) Remove(name string) *Builder {
	delete(b.members, name)

	return b
}

// Build returns a Context holding the accumulated members. The Builder may
// be reused; later changes do not affect the returned Context.
func (b *Builder) Build() Context { return NewContext(b.members) }

// BuildValue returns an Object holding the accumulated members.
func (b *Builder) BuildValue() Value { return Object(b.members) }
