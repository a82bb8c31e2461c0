package xtended

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/xtended/internal/engine"
)

// builtinDecoders returns the fixed candidate order. Bool precedes the number
// candidates and Int precedes Double, so integral literals are never widened.
// The optional forms only add acceptance of null.
func builtinDecoders() []decoderEntry {
	return []decoderEntry{
		{TagString, decodeString},
		{TagBool, decodeBool},
		{TagInt, decodeInt},
		{TagDouble, decodeDouble},
		{TagOptionalString, optional(TagOptionalString, decodeString)},
		{TagOptionalBool, optional(TagOptionalBool, decodeBool)},
		{TagOptionalInt, optional(TagOptionalInt, decodeInt)},
		{TagOptionalDouble, optional(TagOptionalDouble, decodeDouble)},
		{TagArray, decodeArray},
		{TagObject, decodeObject},
	}
}

// builtinEncoders returns the named encoders in the order TagAny values try
// them.
func builtinEncoders() []encoderEntry {
	return []encoderEntry{
		{TagString, encodeString},
		{TagInt, encodeInt},
		{TagBool, encodeBool},
		{TagDouble, encodeDouble},
		{TagArray, encodeArray},
		{TagObject, encodeObject},
	}
}

func decodeString(s *snapshot, p Position) (Value, error) {
	if p.lead() != '"' {
		return Value{}, errNotAccepted
	}
	var str string
	if err := p.Decode(s.drv, &str); err != nil {
		return Value{}, err
	}
	return Value{payload: str, tag: TagString}, nil
}

func decodeBool(_ *snapshot, p Position) (Value, error) {
	switch string(p.raw) {
	case "true":
		return Value{payload: true, tag: TagBool}, nil
	case "false":
		return Value{payload: false, tag: TagBool}, nil
	}
	return Value{}, errNotAccepted
}

func isNumberLead(c byte) bool { return c == '-' || (c >= '0' && c <= '9') }

func decodeInt(_ *snapshot, p Position) (Value, error) {
	if !isNumberLead(p.lead()) {
		return Value{}, errNotAccepted
	}
	i, err := j.Number(p.raw).Int64()
	if err != nil {
		return Value{}, err
	}
	return Value{payload: i, tag: TagInt}, nil
}

func decodeDouble(_ *snapshot, p Position) (Value, error) {
	if !isNumberLead(p.lead()) {
		return Value{}, errNotAccepted
	}
	f, err := j.Number(p.raw).Float64()
	if err != nil {
		return Value{}, err
	}
	return Value{payload: f, tag: TagDouble}, nil
}

func optional(tag Tag, inner decodeFunc) decodeFunc {
	return func(s *snapshot, p Position) (Value, error) {
		if p.IsNull() {
			return Value{tag: tag}, nil
		}
		v, err := inner(s, p)
		if err != nil {
			return Value{}, err
		}
		v.tag = tag
		return v, nil
	}
}

func decodeArray(s *snapshot, p Position) (Value, error) {
	if !p.IsArray() {
		return Value{}, errNotAccepted
	}
	elems, err := p.Elements(s.drv)
	if err != nil {
		return Value{}, err
	}
	out := make([]Value, len(elems))
	for i, e := range elems {
		v, err := s.decode(e)
		if err != nil {
			return Value{}, err
		}
		out[i] = v
	}
	return Value{payload: out, tag: TagArray}, nil
}

func decodeObject(s *snapshot, p Position) (Value, error) {
	if !p.IsObject() {
		return Value{}, errNotAccepted
	}
	fields, err := p.Fields(s.drv)
	if err != nil {
		return Value{}, err
	}
	out := make(map[string]Value, len(fields))
	for k, f := range fields {
		v, err := s.decode(f)
		if err != nil {
			return Value{}, err
		}
		out[string(k)] = v
	}
	return Value{payload: out, tag: TagObject}, nil
}

// decode tries every candidate in order against p and keeps the first
// success. A nested failure is kept as the cause of the final issue.
func (s *snapshot) decode(p Position) (Value, error) {
	var cause error
	for _, d := range s.decoders {
		v, err := d.decode(s, p)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, errNotAccepted) {
			if _, nested := AsIssues(err); nested || cause == nil {
				cause = err
			}
		}
	}
	if iss, ok := AsIssues(cause); ok {
		return Value{}, iss
	}
	return Value{}, singleIssue(p.path, CodeUnrecognizedShape, cause)
}

// encode writes v using the encoder named by its tag; TagAny values use the
// first encoder that accepts the payload.
func (s *snapshot) encode(v Value, path string) ([]byte, error) {
	if isNilPayload(v.payload) {
		return []byte("null"), nil
	}
	prev := s.path
	s.path = path
	defer func() { s.path = prev }()
	if v.Tag() == TagAny {
		for _, e := range s.encoders {
			b, err := e.encode(s, v.payload)
			if errors.Is(err, errNotAccepted) {
				continue
			}
			return b, encodeIssue(err, path)
		}
		return nil, singleIssue(path, CodeUnsupportedValue, nil)
	}
	idx, ok := s.byTag[v.Tag().base()]
	if !ok {
		return nil, singleIssue(path, CodeUnsupportedValue, errors.New("unknown tag "+strconv.Quote(string(v.tag))))
	}
	b, err := s.encoders[idx].encode(s, v.payload)
	if errors.Is(err, errNotAccepted) {
		return nil, singleIssue(path, CodeUnsupportedValue, errors.New("payload does not match tag "+strconv.Quote(string(v.tag))))
	}
	return b, encodeIssue(err, path)
}

func encodeIssue(err error, path string) error {
	if err == nil {
		return nil
	}
	return toIssues(err, path, CodeUnsupportedValue)
}

func encodeString(s *snapshot, payload any) ([]byte, error) {
	str, ok := payload.(string)
	if !ok {
		return nil, errNotAccepted
	}
	return s.drv.Marshal(str)
}

func encodeInt(_ *snapshot, payload any) ([]byte, error) {
	if i, ok := asInt64(payload); ok {
		return strconv.AppendInt(nil, i, 10), nil
	}
	if u, ok := asUint64(payload); ok {
		return strconv.AppendUint(nil, u, 10), nil
	}
	return nil, errNotAccepted
}

func encodeBool(_ *snapshot, payload any) ([]byte, error) {
	b, ok := payload.(bool)
	if !ok {
		return nil, errNotAccepted
	}
	return strconv.AppendBool(nil, b), nil
}

func encodeDouble(_ *snapshot, payload any) ([]byte, error) {
	f, ok := asFloat64(payload)
	if !ok {
		return nil, errNotAccepted
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New("non-finite number " + strconv.FormatFloat(f, 'g', -1, 64))
	}
	return appendDouble(nil, f), nil
}

// appendDouble formats f like a JSON encoder does, except that whole values
// keep a fraction so they decode back as Double rather than Int.
func appendDouble(b []byte, f float64) []byte {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	start := len(b)
	b = strconv.AppendFloat(b, f, format, -1, 64)
	if bytes.IndexAny(b[start:], ".eE") < 0 {
		b = append(b, ".0"...)
	}
	return b
}

func encodeArray(s *snapshot, payload any) ([]byte, error) {
	v := Value{payload: payload, tag: TagAny}
	if _, ok := payload.([]Value); ok {
		v.tag = TagArray
	}
	if v.Kind() != KindArray {
		return nil, errNotAccepted
	}
	elems, _ := v.Elements()
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := s.encode(e, eng.IndexPointer(s.path, i))
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func encodeObject(s *snapshot, payload any) ([]byte, error) {
	v := Value{payload: payload, tag: TagAny}
	if _, ok := payload.(map[string]Value); ok {
		v.tag = TagObject
	}
	if v.Kind() != KindObject {
		return nil, errNotAccepted
	}
	fields, _ := v.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := s.drv.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		b, err := s.encode(fields[k], eng.JoinPointer(s.path, k))
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeValue decodes the value at p.
func DecodeValue(p Position, opts ...Opt) (Value, error) {
	opt := resolveOpt(opts)
	return opt.Registry.snapshot(opt.Driver).decode(p)
}

// ParseValue decodes a standalone JSON document into a Value.
func ParseValue(data []byte, opts ...Opt) (Value, error) {
	opt := resolveOpt(opts)
	if !opt.Driver.Valid(data) {
		return Value{}, singleIssue("/", CodeParseError, errors.New("invalid JSON"))
	}
	return DecodeValue(NewPosition(data), opt)
}

// EncodeValue encodes v.
func EncodeValue(v Value, opts ...Opt) ([]byte, error) {
	opt := resolveOpt(opts)
	return opt.Registry.snapshot(opt.Driver).encode(v, "")
}

// UnmarshalJSON decodes data with the default registry and driver.
func (v *Value) UnmarshalJSON(data []byte) error {
	dv, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = dv
	return nil
}

// MarshalJSON encodes v with the default registry and driver.
func (v Value) MarshalJSON() ([]byte, error) { return EncodeValue(v) }

// Into decodes the JSON form of v into dst, which must be a non-nil pointer.
func (v Value) Into(dst any, opts ...Opt) error {
	if rv := reflect.ValueOf(dst); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return singleIssue("/", CodeUnsupportedValue, errors.New("Into requires a non-nil pointer"))
	}
	opt := resolveOpt(opts)
	b, err := EncodeValue(v, opt)
	if err != nil {
		return err
	}
	if err := opt.Driver.Unmarshal(b, dst); err != nil {
		return singleIssue("/", CodeMalformedDocument, err)
	}
	return nil
}
