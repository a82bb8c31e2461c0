// Package openapi bridges xtended extensions and the Extensions maps carried
// by github.com/getkin/kin-openapi documents.
//
// kin-openapi decodes extension values into plain Go values, which loses the
// difference between integral and fractional numbers. Both directions go
// through JSON so Values keep their decoded shape.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	xt "github.com/reoring/xtended"
)

// FromMap converts a kin-openapi extension map. Keys the filter rejects are
// dropped; a nil filter means xtended.DefaultFilter.
func FromMap(m map[string]any, filter xt.KeyFilter, opts ...xt.Opt) (xt.Extensions, error) {
	if len(m) == 0 {
		return nil, nil
	}
	if filter == nil {
		filter = xt.DefaultFilter
	}
	drv := driverOf(opts)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	var out xt.Extensions
	for _, k := range filter(keys) {
		raw, err := drv.Marshal(m[k])
		if err != nil {
			return nil, xt.Issues{{Path: "/" + k, Code: xt.CodeUnsupportedValue, Cause: err, Offset: -1}}
		}
		v, err := xt.ParseValue(raw, opts...)
		if err != nil {
			return nil, err
		}
		out.Set(k, v)
	}
	return out, nil
}

// ToMap converts extensions into the map shape kin-openapi expects.
func ToMap(e xt.Extensions, opts ...xt.Opt) (map[string]any, error) {
	if len(e) == 0 {
		return nil, nil
	}
	drv := driverOf(opts)
	out := make(map[string]any, len(e))
	for _, k := range e.Keys() {
		raw, err := xt.EncodeValue(e[k], opts...)
		if err != nil {
			return nil, err
		}
		var v any
		if err := drv.Unmarshal(raw, &v); err != nil {
			return nil, xt.Issues{{Path: "/" + k, Code: xt.CodeUnsupportedValue, Cause: err, Offset: -1}}
		}
		out[k] = v
	}
	return out, nil
}

// Operation copies the extensions of op into rec.
func Operation(op *openapi3.Operation, rec xt.Extendable, opts ...xt.Opt) error {
	ext, err := FromMap(op.Extensions, filterOf(rec), opts...)
	if err != nil {
		return err
	}
	rec.SetExtensions(ext)
	return nil
}

// ApplyOperation replaces the extensions of op with those of rec.
func ApplyOperation(rec xt.Extendable, op *openapi3.Operation, opts ...xt.Opt) error {
	m, err := ToMap(rec.Extensions().Filter(filterOf(rec)), opts...)
	if err != nil {
		return err
	}
	op.Extensions = m
	return nil
}

func filterOf(rec any) xt.KeyFilter {
	if kf, ok := rec.(xt.KeyFilterer); ok {
		return kf.FilterExtensionKeys
	}
	return xt.DefaultFilter
}

func driverOf(opts []xt.Opt) xt.JSONDriver {
	if len(opts) > 0 && opts[len(opts)-1].Driver != nil {
		return opts[len(opts)-1].Driver
	}
	return xt.CurrentJSONDriver()
}
