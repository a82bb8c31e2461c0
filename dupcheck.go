package xtended

import (
	"errors"
	"io"

	eng "github.com/reoring/xtended/internal/engine"
	"github.com/reoring/xtended/source/gojson"
)

// CheckDuplicateKeys scans a whole document for object keys that occur more
// than once at the same level, at any depth. Decoding keeps only the last
// occurrence of such a key, extension fields included, so callers that care
// run this first.
//
// With Opt.Strictness.OnDuplicateKey set to Error the first duplicate is
// returned as the error; otherwise every duplicate is collected and returned
// as issues. MaxDepth and MaxBytes from opts apply to the scan.
func CheckDuplicateKeys(data []byte, opts ...Opt) (Issues, error) {
	return checkDuplicates(gojson.NewBytes(data), resolveOpt(opts))
}

// CheckDuplicateKeysReader is CheckDuplicateKeys over an io.Reader. It reads
// exactly one JSON value from r.
func CheckDuplicateKeysReader(r io.Reader, opts ...Opt) (Issues, error) {
	return checkDuplicates(gojson.NewReader(r), resolveOpt(opts))
}

func checkDuplicates(src eng.TokenSource, opt Opt) (Issues, error) {
	mode := toEngineDup(opt.Strictness.OnDuplicateKey)
	if mode == eng.DupIgnore {
		mode = eng.DupWarn
	}
	var iss Issues
	wrapped := eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: mode,
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink: func(si eng.SimpleIssue) {
			iss = AppendIssues(iss, fromEngineIssue(si))
		},
	})
	if err := eng.SkipValue(wrapped); err != nil {
		var ie eng.IssueError
		if errors.As(err, &ie) {
			return nil, iss
		}
		return nil, NewPosition(nil).scanIssues(err)
	}
	return iss, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssue(si eng.SimpleIssue) Issue {
	it := issueAt(si.Path, si.Code, nil)
	if si.Offset >= 0 {
		it.Offset = si.Offset
	}
	return it
}
