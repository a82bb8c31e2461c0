package xtended

import (
	"bytes"

	j "github.com/goccy/go-json"
)

// ExtendablePtr constrains the pointer type of a record: *T must carry the
// extension slot.
type ExtendablePtr[T any] interface {
	*T
	Extendable
}

// Unmarshal decodes one record from data, splitting its extension fields into
// the record's Extensions.
//
// The declared fields are decoded through the record's Declarer view when it
// has one. A record that implements json.Unmarshaler without Declarer is
// trusted to split itself and is decoded as is. Any other record is used as
// its own declared view.
func Unmarshal[T any, PT ExtendablePtr[T]](data []byte, opts ...Opt) (T, error) {
	var out T
	if err := decodeRecord(NewPosition(data), PT(&out), resolveOpt(opts)); err != nil {
		return out, err
	}
	return out, nil
}

// UnmarshalSlice decodes a JSON array of records, splitting every element.
// A null document yields a nil slice.
func UnmarshalSlice[T any, PT ExtendablePtr[T]](data []byte, opts ...Opt) ([]T, error) {
	opt := resolveOpt(opts)
	p := NewPosition(data)
	if p.IsNull() {
		return nil, nil
	}
	elems, err := p.Elements(opt.Driver)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(elems))
	for i, e := range elems {
		if err := decodeRecord(e, PT(&out[i]), opt); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Marshal encodes v as one flat object holding its declared fields followed by
// its extensions. v is encoded from a copy; its Extensions are not touched.
func Marshal[T any, PT ExtendablePtr[T]](v T, opts ...Opt) ([]byte, error) {
	return encodeRecord(PT(&v), resolveOpt(opts))
}

// MarshalSlice encodes vs as a JSON array of flat objects. A nil slice encodes
// as null.
func MarshalSlice[T any, PT ExtendablePtr[T]](vs []T, opts ...Opt) ([]byte, error) {
	if vs == nil {
		return []byte("null"), nil
	}
	opt := resolveOpt(opts)
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		e := vs[i]
		b, err := encodeRecord(PT(&e), opt)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func decodeRecord(p Position, rec Extendable, opt Opt) error {
	if d, ok := rec.(Declarer); ok {
		return inject(p, d.Declared(), rec, opt)
	}
	if _, ok := rec.(j.Unmarshaler); ok {
		if err := opt.within(false, func() error { return p.Decode(opt.Driver, rec) }); err != nil {
			return toIssues(err, p.path, CodeMalformedDocument)
		}
		return nil
	}
	return inject(p, rec, rec, opt)
}

// encodeRecord clears the extension slot of rec, which must be a private copy,
// before the declared view is encoded.
func encodeRecord(rec Extendable, opt Opt) ([]byte, error) {
	var schema any = rec
	if d, ok := rec.(Declarer); ok {
		schema = d.Declared()
	} else if _, ok := rec.(j.Marshaler); ok {
		var b []byte
		err := opt.within(false, func() (err error) {
			b, err = opt.Driver.Marshal(rec)
			return err
		})
		if err != nil {
			return nil, toIssues(err, "/", CodeUnsupportedValue)
		}
		return b, nil
	}
	ext := rec.Extensions().Filter(opt.filterFor(rec))
	rec.SetExtensions(nil)
	return extract(schema, ext, opt)
}
