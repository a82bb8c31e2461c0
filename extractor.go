package xtended

import (
	"bytes"
	"errors"
	"log/slog"

	j "github.com/goccy/go-json"
	"github.com/iancoleman/orderedmap"

	eng "github.com/reoring/xtended/internal/engine"
)

// Extract encodes a record as one flat JSON object: the declared fields of
// schema in their encoded order, followed by rec's extensions (re-filtered,
// sorted by key) at the same level. A declared key wins over an extension with
// the same name.
//
// schema must encode to an object and must not itself include the extensions;
// the Extension slot is excluded from JSON, so rec itself or a Declarer view
// both qualify. Called without options from a record's own MarshalJSON,
// Extract uses the options of the enclosing Marshal or Extract call, if any.
func Extract(schema any, rec Extendable, opts ...Opt) ([]byte, error) {
	opt := resolveOpt(opts)
	return extract(schema, rec.Extensions().Filter(opt.filterFor(rec)), opt)
}

func extract(schema any, ext Extensions, opt Opt) ([]byte, error) {
	var base []byte
	err := opt.within(false, func() error {
		b, err := opt.Driver.Marshal(schema)
		if err != nil {
			return nestedFailure(schema, opt, err)
		}
		base = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(ext) == 0 {
		return base, nil
	}
	bp := NewPosition(base)
	if !bp.IsObject() {
		return nil, singleIssue("/", CodeUnsupportedValue, errors.New("declared fields did not encode to an object"))
	}
	keys, err := bp.Keys(Opt{Driver: opt.Driver, Registry: opt.Registry, Logger: opt.Logger})
	if err != nil {
		return nil, err
	}
	fields, err := bp.Fields(opt.Driver)
	if err != nil {
		return nil, err
	}

	om := orderedmap.New()
	om.SetEscapeHTML(false)
	for _, k := range keys {
		om.Set(string(k), j.RawMessage(fields[k].raw))
	}
	snap := opt.Registry.snapshot(opt.Driver)
	for _, k := range ext.Keys() {
		if _, taken := om.Get(k); taken {
			opt.Logger.Debug("xtended: extension shadowed by declared field", slog.String("key", k))
			continue
		}
		b, err := snap.encode(ext[k], eng.JoinPointer("", k))
		if err != nil {
			return nil, err
		}
		om.Set(k, j.RawMessage(b))
	}
	out, err := om.MarshalJSON()
	if err != nil {
		return nil, toIssues(err, "/", CodeUnsupportedValue)
	}
	var buf bytes.Buffer
	if err := j.Compact(&buf, out); err != nil {
		return nil, toIssues(err, "/", CodeUnsupportedValue)
	}
	return buf.Bytes(), nil
}

// nestedFailure reports a failed encode of the declared fields. When a nested
// record's extension is the cause it is reported at its full path.
func nestedFailure(schema any, opt Opt, err error) error {
	if located := locateNested(schema, opt); located != nil {
		return located
	}
	return toIssues(err, "/", CodeUnsupportedValue)
}
