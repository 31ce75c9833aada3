package tmpl

import (
	"log/slog"
	"testing"
)

func TestValue_Accessors(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		kind    Kind
		boolean bool
		str     string
		isStr   bool
		isList  bool
		isObj   bool
		length  int
	}{
		{"absent", Absent(), KindAbsent, false, "", false, false, false, 0},
		{"zero", Value{}, KindAbsent, false, "", false, false, false, 0},
		{"true", Bool(true), KindBoolean, true, "", false, false, false, 0},
		{"false", Bool(false), KindBoolean, false, "", false, false, false, 0},
		{"string", String("x"), KindString, false, "x", true, false, false, 0},
		{"empty string", String(""), KindString, false, "", true, false, false, 0},
		{"list", Strings("a", "b"), KindList, false, "", false, true, false, 2},
		{"empty list", List(), KindList, false, "", false, true, false, 0},
		{"object", Object(map[string]Value{"k": Bool(true)}), KindObject, false, "", false, false, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.value

			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.kind)
			}

			if v.IsAbsent() != (tt.kind == KindAbsent) {
				t.Errorf("IsAbsent() = %v", v.IsAbsent())
			}

			if v.AsBoolean() != tt.boolean {
				t.Errorf("AsBoolean() = %v, want %v", v.AsBoolean(), tt.boolean)
			}

			if s, ok := v.AsString(); s != tt.str || ok != tt.isStr {
				t.Errorf("AsString() = %q, %v; want %q, %v", s, ok, tt.str, tt.isStr)
			}

			if list, ok := v.AsList(); ok != tt.isList || (ok && list == nil) {
				t.Errorf("AsList() = %v, %v; want ok=%v and non-nil", list, ok, tt.isList)
			}

			if _, ok := v.AsObject(); ok != tt.isObj {
				t.Errorf("AsObject() ok = %v, want %v", ok, tt.isObj)
			}

			if v.Len() != tt.length {
				t.Errorf("Len() = %d, want %d", v.Len(), tt.length)
			}
		})
	}
}

func TestValue_ConstructorsCopy(t *testing.T) {
	elems := []Value{String("a")}
	list := List(elems...)
	elems[0] = String("changed")

	if s, _ := list.Index(0).AsString(); s != "a" {
		t.Errorf("List shares input slice: %v", list)
	}

	members := map[string]Value{"k": String("v")}
	obj := Object(members)
	members["k"] = String("changed")

	if m, _ := obj.Lookup("k"); !m.Equal(String("v")) {
		t.Errorf("Object shares input map: %v", obj)
	}

	got, _ := obj.AsObject()
	got["k"] = String("mutated")

	if m, _ := obj.Lookup("k"); !m.Equal(String("v")) {
		t.Errorf("AsObject exposes internal map: %v", obj)
	}
}

func TestValue_IndexAndLookup(t *testing.T) {
	list := Strings("a", "b")

	if !list.Index(1).Equal(String("b")) {
		t.Errorf("Index(1) = %v", list.Index(1))
	}

	for _, i := range []int{-1, 2} {
		if !list.Index(i).IsAbsent() {
			t.Errorf("Index(%d) = %v, want absent", i, list.Index(i))
		}
	}

	if !String("s").Index(0).IsAbsent() {
		t.Error("Index on String not absent")
	}

	if _, ok := String("s").Lookup("k"); ok {
		t.Error("Lookup on String succeeded")
	}
}

func TestValue_Equal(t *testing.T) {
	a := Object(map[string]Value{
		"list": Strings("x", "y"),
		"obj":  Object(map[string]Value{"b": Bool(true)}),
	})
	b := Object(map[string]Value{
		"list": List(String("x"), String("y")),
		"obj":  Object(map[string]Value{"b": Bool(true)}),
	})

	if !a.Equal(b) {
		t.Errorf("%v != %v", a, b)
	}

	for _, other := range []Value{
		Absent(),
		Bool(true),
		String("{}"),
		Object(map[string]Value{"list": Strings("x")}),
	} {
		if a.Equal(other) {
			t.Errorf("%v == %v", a, other)
		}
	}

	if !Absent().Equal(Value{}) {
		t.Error("Absent() != zero Value")
	}

	if Bool(false).Equal(Absent()) {
		t.Error("false == absent")
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	inner := Object(map[string]Value{"k": String("v")})
	orig := List(inner)
	clone := orig.Clone()

	if !clone.Equal(orig) {
		t.Fatalf("clone %v != original %v", clone, orig)
	}

	// Mutate the clone's storage directly; the original must not change.
	clone.list[0].obj["k"] = String("changed")

	if got, _ := orig.Index(0).Lookup("k"); !got.Equal(String("v")) {
		t.Errorf("original changed through clone: %v", orig)
	}
}

func TestValue_String(t *testing.T) {
	v := Object(map[string]Value{
		"b":    Bool(true),
		"a":    String("x\n"),
		"list": List(Absent(), Strings("y")),
	})

	want := `{a: "x\n", b: true, list: [<absent>, ["y"]]}`
	if got := v.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestValue_Keys(t *testing.T) {
	v := Object(map[string]Value{"z": Absent(), "a": Absent(), "m": Absent()})

	if got := v.Keys(); len(got) != 3 || got[0] != "a" || got[2] != "z" {
		t.Errorf("Keys() = %v, want sorted", got)
	}

	if String("x").Keys() != nil {
		t.Error("Keys() on String not nil")
	}
}

func TestValue_LogValue(t *testing.T) {
	tests := []struct {
		value Value
		kind  slog.Kind
	}{
		{Bool(true), slog.KindBool},
		{String("s"), slog.KindString},
		{Strings("a"), slog.KindString},
		{Absent(), slog.KindString},
	}

	for _, tt := range tests {
		if got := tt.value.LogValue().Kind(); got != tt.kind {
			t.Errorf("%v.LogValue().Kind() = %v, want %v", tt.value, got, tt.kind)
		}
	}
}
