package tmpl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContext_Resolve(t *testing.T) {
	c := sample()

	tests := []struct {
		path string
		want Value
	}{
		{"item", String("Stuff")},
		{"object.value", String("string")},
		{"object.items", Strings("A", "B")},
		{"a.b", Bool(true)},
		{"missing", Absent()},
		{"object.missing", Absent()},
		{"item.length", Absent()},
		{"items.0", Absent()},
		{"object.value.x.y", Absent()},
		{"", Absent()},
		{"object.", Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, c.Resolve(tt.path)); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestContext_ResolveDeterministic(t *testing.T) {
	c := sample()

	for range 3 {
		if !c.Resolve("no.such.path").IsAbsent() {
			t.Fatal("absent path resolved to a value")
		}
	}
}

func TestContext_ZeroValue(t *testing.T) {
	var c Context

	if !c.Resolve("x").IsAbsent() || c.Len() != 0 || len(c.Keys()) != 0 {
		t.Errorf("zero Context not empty: %v", c.Value())
	}

	c2 := c.Bind("x", String("y"))
	if s, ok := c2.String("x"); !ok || s != "y" {
		t.Errorf("Bind on zero Context: %q, %v", s, ok)
	}
}

func TestContext_Projections(t *testing.T) {
	c := sample()

	if !c.Bool("bool") || c.Bool("item") || c.Bool("missing") {
		t.Error("Bool projection wrong")
	}

	if _, ok := c.String("bool"); ok {
		t.Error("String(bool) succeeded")
	}

	if list, ok := c.List("empty"); !ok || len(list) != 0 {
		t.Errorf("List(empty) = %v, %v", list, ok)
	}

	if _, ok := c.List("item"); ok {
		t.Error("List(item) succeeded")
	}

	if obj, ok := c.Object("object"); !ok || len(obj) != 3 {
		t.Errorf("Object(object) = %v, %v", obj, ok)
	}
}

func TestContext_BindIsPersistent(t *testing.T) {
	base := NewBuilder().String("x", "base").Build()

	a := base.Bind("x", String("a"))
	b := base.Bind("x", String("b"))
	ab := a.Bind("y", String("y"))

	for _, tt := range []struct {
		c    Context
		path string
		want Value
	}{
		{base, "x", String("base")},
		{base, "y", Absent()},
		{a, "x", String("a")},
		{b, "x", String("b")},
		{ab, "x", String("a")},
		{ab, "y", String("y")},
	} {
		if got := tt.c.Resolve(tt.path); !got.Equal(tt.want) {
			t.Errorf("Resolve(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if ab.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ab.Len())
	}
}

func TestContext_BindDottedNameIsVerbatim(t *testing.T) {
	c := Context{}.Bind("a.b", String("v"))

	if !c.Resolve("a.b").IsAbsent() {
		t.Error("dotted bind created nested path")
	}

	if diff := cmp.Diff([]string{"a.b"}, c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestContext_Without(t *testing.T) {
	c := sample()
	w := c.Without("item")

	if !w.Resolve("item").IsAbsent() {
		t.Error("Without did not remove member")
	}

	if c.Resolve("item").IsAbsent() {
		t.Error("Without modified receiver")
	}

	if r := w.Bind("item", String("back")); !r.Resolve("item").Equal(String("back")) {
		t.Error("Bind after Without did not restore member")
	}

	if w.Len() != c.Len()-1 {
		t.Errorf("Len() = %d, want %d", w.Len(), c.Len()-1)
	}
}

func TestContext_NewContextCopies(t *testing.T) {
	members := map[string]Value{"k": String("v")}
	c := NewContext(members)
	members["k"] = String("changed")

	if !c.Resolve("k").Equal(String("v")) {
		t.Error("NewContext shares input map")
	}
}

func TestContext_CloneAndEqual(t *testing.T) {
	c := sample().Bind("extra", Bool(true)).Without("flag")
	clone := c.Clone()

	if !c.Equal(clone) {
		t.Fatalf("clone differs:\n%v\n%v", c.Value(), clone.Value())
	}

	if diff := cmp.Diff(c, clone); diff != "" {
		t.Errorf("cmp.Diff via Equal (-orig +clone):\n%s", diff)
	}

	if c.Equal(sample()) {
		t.Error("contexts with different bindings compare equal")
	}
}

func TestContext_Paths(t *testing.T) {
	c := NewBuilder().
		String("s", "x").
		Object("o", NewBuilder().
			Bool("b", true).
			Object("empty", NewBuilder())).
		Strings("l", "a").
		Build()

	want := []string{"l", "o.b", "o.empty", "s"}
	if diff := cmp.Diff(want, c.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}
}
