package tmpl

import (
	"encoding"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
)

// FromNative converts an external object graph into a [Value].
//
// Conversion rules:
//   - nil → Absent
//   - bool → Boolean
//   - string, and every integer and floating-point kind → String, numbers in
//     their shortest decimal form
//   - []any, []string → List
//   - map[string]any, map[string]string → Object
//   - Value, Context → themselves (a Context becomes an Object)
//   - encoding.TextMarshaler and fmt.Stringer → String
//   - other structs, maps and slices → decoded by mapstructure into generic
//     maps and slices, then converted by the rules above
//
// Maps must have string keys.
func FromNative(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Absent(), nil
	case Value:
		return x, nil
	case Context:
		return x.Value(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return String(strconv.Itoa(x)), nil
	case int8:
		return String(strconv.FormatInt(int64(x), 10)), nil
	case int16:
		return String(strconv.FormatInt(int64(x), 10)), nil
	case int32:
		return String(strconv.FormatInt(int64(x), 10)), nil
	case int64:
		return String(strconv.FormatInt(x, 10)), nil
	case uint:
		return String(strconv.FormatUint(uint64(x), 10)), nil
	case uint8:
		return String(strconv.FormatUint(uint64(x), 10)), nil
	case uint16:
		return String(strconv.FormatUint(uint64(x), 10)), nil
	case uint32:
		return String(strconv.FormatUint(uint64(x), 10)), nil
	case uint64:
		return String(strconv.FormatUint(x, 10)), nil
	case float32:
		return String(strconv.FormatFloat(float64(x), 'f', -1, 32)), nil
	case float64:
		return String(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case json.Number:
		return String(x.String()), nil
	case []string:
		return Strings(x...), nil
	case []any:
		list := make([]Value, len(x))

		for i, e := range x {
			ev, err := FromNative(e)
			if err != nil {
				return Absent(), err
			}

			list[i] = ev
		}

		return Value{kind: KindList, list: list}, nil
	case map[string]string:
		obj := make(map[string]Value, len(x))
		for k, e := range x {
			obj[k] = String(e)
		}

		return Value{kind: KindObject, obj: obj}, nil
	case map[string]any:
		obj := make(map[string]Value, len(x))

		for k, e := range x {
			ev, err := FromNative(e)
			if err != nil {
				return Absent(), err
			}

			obj[k] = ev
		}

		return Value{kind: KindObject, obj: obj}, nil
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return Absent(), ErrUnsupported.Wrap(err)
		}

		return String(string(text)), nil
	case fmt.Stringer:
		return String(x.String()), nil
	}

	return fromReflect(v)
}

// fromReflect decodes structs, typed maps and typed slices into generic
// containers with mapstructure.
func fromReflect(v any) (Value, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Absent(), nil
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		var m map[string]any
		if err := mapstructure.Decode(rv.Interface(), &m); err != nil {
			return Absent(), ErrUnsupported.Wrap(err).
				With(slog.String("type", rv.Type().String()))
		}

		return FromNative(m)

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Absent(), ErrUnsupported.
				With(slog.String("type", rv.Type().String()),
					slog.String("reason", "map key is not a string"))
		}

		var m map[string]any
		if err := mapstructure.Decode(rv.Interface(), &m); err != nil {
			return Absent(), ErrUnsupported.Wrap(err).
				With(slog.String("type", rv.Type().String()))
		}

		return FromNative(m)

	case reflect.Slice, reflect.Array:
		var s []any
		if err := mapstructure.Decode(rv.Interface(), &s); err != nil {
			return Absent(), ErrUnsupported.Wrap(err).
				With(slog.String("type", rv.Type().String()))
		}

		return FromNative(s)

	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Float32, reflect.Float64:
		// Named scalar types, such as type Name string.
		switch rv.Kind() {
		case reflect.Bool:
			return Bool(rv.Bool()), nil
		case reflect.String:
			return String(rv.String()), nil
		case reflect.Float32, reflect.Float64:
			return String(strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits())), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return String(strconv.FormatInt(rv.Int(), 10)), nil
		default:
			return String(strconv.FormatUint(rv.Uint(), 10)), nil
		}

	default:
		return Absent(), ErrUnsupported.
			With(slog.String("type", rv.Type().String()))
	}
}

// ContextFromNative converts an external object graph into a [Context].
// The graph must convert to an Object; nil yields an empty Context.
func ContextFromNative(v any) (Context, error) {
	val, err := FromNative(v)
	if err != nil {
		return Context{}, err
	}

	switch val.kind {
	case KindAbsent:
		return Context{}, nil
	case KindObject:
		return Context{root: val.obj}, nil
	case KindBoolean, KindString, KindList:
		return Context{}, ErrNotObject.With(slog.String("kind", val.kind.String()))
	default:
		return Context{}, ErrNotObject
	}
}

// UnmarshalContext parses a YAML or JSON document into a [Context].
func UnmarshalContext(data []byte) (Context, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Context{}, ErrReadInput.Wrap(err)
	}

	return ContextFromNative(doc)
}

// ToNative converts v into generic Go values: nil, bool, string, []any and
// map[string]any.
func ToNative(v Value) any {
	switch v.kind {
	case KindAbsent:
		return nil
	case KindBoolean:
		return v.b
	case KindString:
		return v.s
	case KindList:
		list := make([]any, len(v.list))
		for i, e := range v.list {
			list[i] = ToNative(e)
		}

		return list
	case KindObject:
		obj := make(map[string]any, len(v.obj))
		for k, m := range v.obj {
			obj[k] = ToNative(m)
		}

		return obj
	default:
		return nil
	}
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) { return ToNative(v), nil }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(ToNative(v)) }
