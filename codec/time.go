// Package codec holds ready-made registrations for Go types that have no
// native JSON shape.
package codec

import (
	"strconv"
	"time"

	xt "github.com/reoring/xtended"
)

// TagTime names time.Time values in a registry.
const TagTime xt.Tag = "time"

// RegisterTime adds time.Time to r (nil means the default registry). Values
// are read from RFC3339 strings and written as canonical UTC RFC3339Nano.
//
// Decoding probes the built-in candidates first, so a timestamp inside an
// extension still decodes as a string; use Time to read it back.
func RegisterTime(r *xt.Registry) error {
	return xt.RegisterCodec(r, TagTime, xt.Codec[time.Time]{
		Decode: func(raw []byte) (time.Time, error) {
			s, err := strconv.Unquote(string(raw))
			if err != nil {
				return time.Time{}, err
			}
			return parseRFC3339(s)
		},
		Encode: func(t time.Time) ([]byte, error) {
			return strconv.AppendQuote(nil, formatRFC3339Canonical(t)), nil
		},
	})
}

// Time converts v to a time.Time. It accepts time payloads and RFC3339
// strings.
func Time(v xt.Value) (time.Time, bool) {
	if t, ok := xt.To[time.Time](v); ok {
		return t, true
	}
	if t, ok := xt.To[*time.Time](v); ok && t != nil {
		return *t, true
	}
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, false
	}
	t, err := parseRFC3339(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
