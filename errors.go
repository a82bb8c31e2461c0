package xtended

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/xtended/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnrecognizedShape = "unrecognized_shape"
	CodeUnsupportedValue  = "unsupported_value"
	CodeMalformedDocument = "malformed_document"
	CodeDuplicateKey      = "duplicate_key"
	CodeParseError        = "parse_error"
	CodeTruncated         = "truncated"
	CodeRegistryFrozen    = "registry_frozen"
)

// Sentinel errors matched by Issues.Is, so callers can use errors.Is without
// inspecting codes.
var (
	ErrUnrecognizedShape = errors.New("xtended: unrecognized shape")
	ErrUnsupportedValue  = errors.New("xtended: unsupported value")
	ErrMalformedDocument = errors.New("xtended: malformed document")
	ErrRegistryFrozen    = errors.New("xtended: registry frozen")
)

var codeSentinels = map[string]error{
	CodeUnrecognizedShape: ErrUnrecognizedShape,
	CodeUnsupportedValue:  ErrUnsupportedValue,
	CodeMalformedDocument: ErrMalformedDocument,
	CodeRegistryFrozen:    ErrRegistryFrozen,
}

// Issue represents a single decode or encode failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/x-meta).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying driver error.
	Offset  int64 // Byte offset in the input (-1 when unknown).
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unrecognized_shape at /x-meta
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Cause != nil {
			fmt.Fprintf(b, " (%v)", it.Cause)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue maps to target, either through its code
// sentinel or through its Cause chain.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if s, ok := codeSentinels[it.Code]; ok && s == target {
			return true
		}
		if it.Cause != nil && errors.Is(it.Cause, target) {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func issueAt(path, code string, cause error) Issue {
	return Issue{Path: normalizePath(path), Code: code, Message: i18n.T(code, nil), Cause: cause, Offset: -1}
}

func singleIssue(path, code string, cause error) Issues {
	return AppendIssues(nil, issueAt(path, code, cause))
}

// toIssues folds arbitrary errors into Issues so entry points only ever return
// one error type.
func toIssues(err error, path, code string) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	return singleIssue(path, code, err)
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
