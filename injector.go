package xtended

import (
	"log/slog"
)

// Inject decodes one JSON object into a record in two passes over the same
// bytes. The declared fields are decoded into schema as usual, ignoring
// unknown keys; then every key of the object is enumerated, the record's key
// filter picks the extension keys, and each of those is decoded as a Value
// into a fresh Extensions assigned to rec.
//
// schema is usually rec itself, or a method-free view of it (see Declarer).
// A failure in the declared pass is fatal and reported as malformed_document;
// an extension value that cannot be decoded is left out and logged at debug
// level.
//
// Called without options from a record's own UnmarshalJSON, Inject uses the
// options of the enclosing Unmarshal or Inject call, if any.
//
// Note that the filter sees all keys, declared ones included: a declared field
// whose name also passes the filter is stored in both places.
func Inject(data []byte, schema any, rec Extendable, opts ...Opt) error {
	return inject(NewPosition(data), schema, rec, resolveOpt(opts))
}

func inject(p Position, schema any, rec Extendable, opt Opt) error {
	if err := opt.within(true, func() error { return p.Decode(opt.Driver, schema) }); err != nil {
		return toIssues(err, p.path, CodeMalformedDocument)
	}
	if p.IsNull() {
		return nil
	}
	keys, err := p.Keys(opt)
	if err != nil {
		return err
	}
	filter := opt.filterFor(rec)
	selected := filter(keyStrings(keys))
	if len(selected) == 0 {
		rec.SetExtensions(nil)
		return nil
	}
	fields, err := p.Fields(opt.Driver)
	if err != nil {
		return err
	}
	snap := opt.Registry.snapshot(opt.Driver)
	store := make(Extensions, len(selected))
	for _, k := range selected {
		child, ok := fields[Key(k)]
		if !ok {
			continue
		}
		v, err := snap.decode(child)
		if err != nil {
			opt.Logger.Debug("xtended: extension omitted", slog.String("path", child.Path()), slog.Any("error", err))
			continue
		}
		store[k] = v
	}
	rec.SetExtensions(store.Filter(filter))
	return nil
}
