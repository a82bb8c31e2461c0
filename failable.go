package xtended

import (
	"bytes"
	"log/slog"
)

// Failable decodes a T, turning any decode failure into an absent value
// instead of an error. A JSON null is absent too.
type Failable[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Failable.
func Some[T any](v T) Failable[T] { return Failable[T]{Value: v, Valid: true} }

// Get returns the value and whether it is present.
func (f Failable[T]) Get() (T, bool) { return f.Value, f.Valid }

// UnmarshalJSON never fails.
func (f *Failable[T]) UnmarshalJSON(data []byte) error {
	*f = decodeFailable[T](NewPosition(data), resolveOpt(nil))
	return nil
}

// MarshalJSON writes null for an absent value, and also when T fails to
// encode.
func (f Failable[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	b, err := getJSONDriver().Marshal(f.Value)
	if err != nil {
		return []byte("null"), nil
	}
	return b, nil
}

func decodeFailable[T any](p Position, opt Opt) Failable[T] {
	if p.IsNull() || len(p.raw) == 0 {
		return Failable[T]{}
	}
	var v T
	if err := p.Decode(opt.Driver, &v); err != nil {
		opt.Logger.Debug("xtended: failable value dropped", slog.String("path", p.Path()), slog.Any("error", err))
		return Failable[T]{}
	}
	return Failable[T]{Value: v, Valid: true}
}

// FailableSlice decodes a JSON array, keeping only the elements that decode as
// T. Its length may be shorter than the array it was decoded from.
type FailableSlice[T any] []T

// UnmarshalJSON fails only when data is not an array; element failures are
// dropped.
func (s *FailableSlice[T]) UnmarshalJSON(data []byte) error {
	out, err := DecodeFailableSlice[T](data)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON writes only the elements that encode successfully.
func (s FailableSlice[T]) MarshalJSON() ([]byte, error) {
	drv := getJSONDriver()
	var buf bytes.Buffer
	buf.WriteByte('[')
	n := 0
	for _, e := range s {
		b, err := drv.Marshal(e)
		if err != nil {
			continue
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(b)
		n++
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// DecodeFailable decodes data as T, reporting absence instead of an error.
func DecodeFailable[T any](data []byte, opts ...Opt) (T, bool) {
	return decodeFailable[T](NewPosition(data), resolveOpt(opts)).Get()
}

// DecodeFailableSlice decodes the array in data positionally and keeps the
// elements that decode as T. A null document yields a nil slice.
func DecodeFailableSlice[T any](data []byte, opts ...Opt) (FailableSlice[T], error) {
	opt := resolveOpt(opts)
	p := NewPosition(data)
	if p.IsNull() {
		return nil, nil
	}
	elems, err := p.Elements(opt.Driver)
	if err != nil {
		return nil, err
	}
	out := make(FailableSlice[T], 0, len(elems))
	for _, e := range elems {
		if v, ok := decodeFailable[T](e, opt).Get(); ok {
			out = append(out, v)
		}
	}
	return out, nil
}
