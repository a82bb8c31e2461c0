package xtended

import "log/slog"

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement applied while scanning keyed views.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// Opt bundles decode/encode options. Entry points accept a variadic list and
// use the last one. Records nested in the one being decoded or encoded inherit
// the options when their own JSON methods call Inject or Extract without any.
type Opt struct {
	// Registry supplies the Value decoders and encoders. Nil means Default().
	Registry *Registry
	// Filter overrides the extension key predicate for this call. When nil the
	// record's FilterExtensionKeys is used if it implements KeyFilterer, and
	// DefaultFilter otherwise.
	Filter KeyFilter
	// Driver overrides the process-wide JSON driver for this call.
	Driver JSONDriver
	// Strictness, MaxDepth and MaxBytes are enforced while the keyed view of a
	// record is scanned.
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	// Logger receives debug records for extension keys and failable elements
	// that were dropped. Nil discards them.
	Logger *slog.Logger

	explicit bool
}

var discardLogger = slog.New(slog.DiscardHandler)

func resolveOpt(opts []Opt) Opt {
	var opt Opt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
		opt.explicit = true
	} else if scoped, ok := scopedOpt(); ok {
		return scoped
	}
	if opt.Registry == nil {
		opt.Registry = Default()
	}
	if opt.Driver == nil {
		opt.Driver = getJSONDriver()
	}
	if opt.Logger == nil {
		opt.Logger = discardLogger
	}
	return opt
}

// filterFor picks the key predicate for rec: explicit option first, then the
// record's own override, then DefaultFilter.
func (o Opt) filterFor(rec any) KeyFilter {
	if o.Filter != nil {
		return o.Filter
	}
	if kf, ok := rec.(KeyFilterer); ok {
		return kf.FilterExtensionKeys
	}
	return DefaultFilter
}
