package xtended

import (
	"fmt"
	"reflect"
	"sort"
)

// Tag records which decode path produced a Value, and therefore which encoder
// writes it back out.
type Tag string

const (
	TagNull           Tag = "null"
	TagString         Tag = "string"
	TagBool           Tag = "bool"
	TagInt            Tag = "int"
	TagDouble         Tag = "double"
	TagOptionalString Tag = "optional<string>"
	TagOptionalBool   Tag = "optional<bool>"
	TagOptionalInt    Tag = "optional<int>"
	TagOptionalDouble Tag = "optional<double>"
	TagArray          Tag = "array"
	TagObject         Tag = "object"
	// TagAny marks a Value built from an untyped Go value with From. Its
	// encoder is chosen structurally at encode time.
	TagAny Tag = "any"
)

// base maps optional tags to the tag of their non-null form.
func (t Tag) base() Tag {
	switch t {
	case TagOptionalString:
		return TagString
	case TagOptionalBool:
		return TagBool
	case TagOptionalInt:
		return TagInt
	case TagOptionalDouble:
		return TagDouble
	}
	return t
}

// Optional reports whether the tag is one of the optional scalar forms.
func (t Tag) Optional() bool { return t.base() != t }

// Kind is the JSON shape of a Value's payload.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindArray
	KindObject
	// KindCustom is a payload of a registered (non-JSON-native) Go type.
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "custom"
	}
}

// Value is a JSON value whose shape is discovered at decode time. Decoded
// values hold nil, bool, int64, float64, string, []Value or map[string]Value;
// values built with From hold whatever Go value they were given.
//
// A Value owns its payload: constructors copy collections and accessors hand
// out copies, so a Value never changes after construction. The zero Value is
// null.
type Value struct {
	payload any
	tag     Tag
}

// Null returns the null Value.
func Null() Value { return Value{tag: TagNull} }

// Bool returns a bool Value.
func Bool(b bool) Value { return Value{payload: b, tag: TagBool} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{payload: i, tag: TagInt} }

// Double returns a floating-point Value.
func Double(f float64) Value { return Value{payload: f, tag: TagDouble} }

// String returns a string Value.
func String(s string) Value { return Value{payload: s, tag: TagString} }

// Array returns an array Value holding a copy of elems.
func Array(elems ...Value) Value {
	out := make([]Value, len(elems))
	copy(out, elems)
	return Value{payload: out, tag: TagArray}
}

// Object returns an object Value holding a copy of fields.
func Object(fields map[string]Value) Value {
	out := make(map[string]Value, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return Value{payload: out, tag: TagObject}
}

// From wraps an arbitrary Go value. The result is tagged TagAny and encodes
// through the first registered encoder that accepts its payload. Wrapping a
// Value returns it unchanged.
func From(x any) Value {
	if v, ok := x.(Value); ok {
		return v
	}
	if isNilPayload(x) {
		return Value{tag: TagAny}
	}
	return Value{payload: x, tag: TagAny}
}

// Typed wraps payload under an explicit tag, typically the name of a type
// registered with Register.
func Typed(tag Tag, payload any) Value { return Value{payload: payload, tag: tag} }

func isNilPayload(x any) bool {
	if x == nil {
		return true
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Tag returns the decode path that produced v.
func (v Value) Tag() Tag {
	if v.tag == "" {
		return TagNull
	}
	return v.tag
}

// Kind classifies the payload.
func (v Value) Kind() Kind {
	switch p := v.payload.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case int64, int, int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float64, float32:
		return KindDouble
	case []Value, []any:
		return KindArray
	case map[string]Value, map[string]any:
		return KindObject
	default:
		rv := reflect.ValueOf(p)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if v.tag == TagAny && !isByteSlice(rv) {
				return KindArray
			}
		case reflect.Map:
			if v.tag == TagAny && rv.Type().Key().Kind() == reflect.String {
				return KindObject
			}
		}
		return KindCustom
	}
}

// Interface returns the payload. Collections are returned as copies.
func (v Value) Interface() any {
	switch p := v.payload.(type) {
	case []Value:
		return append([]Value(nil), p...)
	case map[string]Value:
		out := make(map[string]Value, len(p))
		for k, e := range p {
			out[k] = e
		}
		return out
	}
	return v.payload
}

// Elements returns the elements of an array Value. Elements of generic
// payloads are wrapped with From.
func (v Value) Elements() ([]Value, bool) {
	switch p := v.payload.(type) {
	case []Value:
		return append([]Value(nil), p...), true
	case []any:
		out := make([]Value, len(p))
		for i, e := range p {
			out[i] = From(e)
		}
		return out, true
	}
	if v.tag != TagAny || v.payload == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v.payload)
	if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || isByteSlice(rv) {
		return nil, false
	}
	out := make([]Value, rv.Len())
	for i := range out {
		out[i] = From(rv.Index(i).Interface())
	}
	return out, true
}

// Fields returns the members of an object Value. Members of generic payloads
// are wrapped with From.
func (v Value) Fields() (map[string]Value, bool) {
	switch p := v.payload.(type) {
	case map[string]Value:
		out := make(map[string]Value, len(p))
		for k, e := range p {
			out[k] = e
		}
		return out, true
	case map[string]any:
		out := make(map[string]Value, len(p))
		for k, e := range p {
			out[k] = From(e)
		}
		return out, true
	}
	if v.tag != TagAny || v.payload == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v.payload)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = From(iter.Value().Interface())
	}
	return out, true
}

// Equal reports whether v and o hold the same JSON content. Tags are ignored,
// so a decoded Value equals the programmatic Value it was encoded from. Int
// and Double never compare equal to each other.
func (v Value) Equal(o Value) bool {
	vk, ok := v.Kind(), o.Kind()
	if vk != ok {
		return false
	}
	switch vk {
	case KindNull:
		return true
	case KindInt:
		a, aok := asInt64(v.payload)
		b, bok := asInt64(o.payload)
		if aok && bok {
			return a == b
		}
		c, cok := asUint64(v.payload)
		d, dok := asUint64(o.payload)
		return cok && dok && c == d
	case KindDouble:
		a, _ := asFloat64(v.payload)
		b, _ := asFloat64(o.payload)
		return a == b
	case KindArray:
		a, _ := v.Elements()
		b, _ := o.Elements()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case KindObject:
		a, _ := v.Fields()
		b, _ := o.Fields()
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(v.payload, o.payload)
	}
}

// GoString renders v for debugging.
func (v Value) GoString() string {
	switch v.Kind() {
	case KindArray:
		elems, _ := v.Elements()
		return fmt.Sprintf("%s%#v", v.Tag(), elems)
	case KindObject:
		fields, _ := v.Fields()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s := string(v.Tag()) + "{"
		for i, k := range keys {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%q: %#v", k, fields[k])
		}
		return s + "}"
	}
	return fmt.Sprintf("%s(%v)", v.Tag(), v.payload)
}

func isByteSlice(rv reflect.Value) bool {
	return rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8
}

func asInt64(x any) (int64, bool) {
	switch n := x.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint:
		if uint64(n) <= 1<<63-1 {
			return int64(n), true
		}
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n <= 1<<63-1 {
			return int64(n), true
		}
	}
	return 0, false
}

func asUint64(x any) (uint64, bool) {
	switch n := x.(type) {
	case uint:
		return uint64(n), true
	case uint64:
		return n, true
	}
	return 0, false
}

func asFloat64(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
