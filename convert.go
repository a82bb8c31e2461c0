package xtended

import "math"

// To converts v's payload to T. The conversion is a direct cast, with two
// allowances for Go's sized numbers: integer payloads convert to any integer
// type they fit in, and float payloads convert to float32. Integers never
// convert to floats or the other way round. A null Value converts to nothing
// for every T.
func To[T any](v Value) (T, bool) {
	var zero T
	if isNilPayload(v.payload) {
		return zero, false
	}
	if t, ok := v.payload.(T); ok {
		return t, true
	}
	if t, ok := any(v).(T); ok {
		return t, true
	}
	out := zero
	if convertNumber(v.payload, &out) {
		return out, true
	}
	return zero, false
}

// convertNumber stores payload into *dst when dst is a sized integer or
// float32 and the payload fits without changing its value.
func convertNumber(payload any, dst any) bool {
	if f, ok := asFloat64(payload); ok {
		if p, ok := dst.(*float32); ok {
			if math.Abs(f) > math.MaxFloat32 {
				return false
			}
			*p = float32(f)
			return true
		}
		return false
	}
	i, iok := asInt64(payload)
	u, uok := asUint64(payload)
	if !iok && !uok {
		return false
	}
	inRange := func(lo, hi int64) bool { return iok && i >= lo && i <= hi }
	switch p := dst.(type) {
	case *int:
		if inRange(math.MinInt, math.MaxInt) {
			*p = int(i)
			return true
		}
	case *int8:
		if inRange(math.MinInt8, math.MaxInt8) {
			*p = int8(i)
			return true
		}
	case *int16:
		if inRange(math.MinInt16, math.MaxInt16) {
			*p = int16(i)
			return true
		}
	case *int32:
		if inRange(math.MinInt32, math.MaxInt32) {
			*p = int32(i)
			return true
		}
	case *int64:
		if iok {
			*p = i
			return true
		}
	case *uint:
		if uok {
			*p = uint(u)
			return true
		}
		if inRange(0, math.MaxInt64) {
			*p = uint(i)
			return true
		}
	case *uint8:
		if inRange(0, math.MaxUint8) {
			*p = uint8(i)
			return true
		}
	case *uint16:
		if inRange(0, math.MaxUint16) {
			*p = uint16(i)
			return true
		}
	case *uint32:
		if inRange(0, math.MaxUint32) {
			*p = uint32(i)
			return true
		}
	case *uint64:
		if uok {
			*p = u
			return true
		}
		if inRange(0, math.MaxInt64) {
			*p = uint64(i)
			return true
		}
	}
	return false
}

// ToSlice converts an array Value element by element, dropping elements that
// do not convert to E (nulls included).
func ToSlice[E any](v Value) ([]E, bool) {
	elems, ok := v.Elements()
	if !ok {
		return nil, false
	}
	out := make([]E, 0, len(elems))
	for _, e := range elems {
		if c, ok := To[E](e); ok {
			out = append(out, c)
		}
	}
	return out, true
}

// ToOptionalSlice converts an array Value element by element, keeping a nil
// for every element that is null or does not convert to E. The result has the
// same length as the array.
func ToOptionalSlice[E any](v Value) ([]*E, bool) {
	elems, ok := v.Elements()
	if !ok {
		return nil, false
	}
	out := make([]*E, len(elems))
	for i, e := range elems {
		if c, ok := To[E](e); ok {
			out[i] = &c
		}
	}
	return out, true
}

// ToMap converts an object Value member by member, dropping members that do
// not convert to E. Keys are unchanged.
func ToMap[E any](v Value) (map[string]E, bool) {
	fields, ok := v.Fields()
	if !ok {
		return nil, false
	}
	out := make(map[string]E, len(fields))
	for k, f := range fields {
		if c, ok := To[E](f); ok {
			out[k] = c
		}
	}
	return out, true
}

// ToOptionalMap converts an object Value member by member, keeping a nil for
// members that are null or do not convert to E.
func ToOptionalMap[E any](v Value) (map[string]*E, bool) {
	fields, ok := v.Fields()
	if !ok {
		return nil, false
	}
	out := make(map[string]*E, len(fields))
	for k, f := range fields {
		if c, ok := To[E](f); ok {
			out[k] = &c
		} else {
			out[k] = nil
		}
	}
	return out, true
}
