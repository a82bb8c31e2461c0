package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls how a repeated object key is treated.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a problem found while scanning tokens. Offset is the input
// offset reached after the offending token.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError carries the SimpleIssue that stopped a scan.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions configures WrapWithEnforcement.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives every issue, fatal or not. Under DupWarn it is the
	// only place duplicates are reported.
	IssueSink func(SimpleIssue)
	// BasePath prefixes every reported path so issues raised while scanning a
	// nested position point into the enclosing document.
	BasePath string
}

// WrapWithEnforcement returns a TokenSource that tracks the JSON Pointer of
// every token and applies the duplicate, depth and size limits of opt.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcer{inner: inner, opt: opt}
}

// frame is one open container.
type frame struct {
	array bool
	path  string
	keys  map[string]struct{}
	key   string // member being read
	index int    // next element
}

type enforcer struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcer) Location() int64 { return e.inner.Location() }

func (e *enforcer) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	off := e.inner.Location()
	path := e.pathOf(tok)

	switch tok.Kind {
	case KindBeginObject:
		e.stack = append(e.stack, frame{path: path, keys: map[string]struct{}{}})
	case KindBeginArray:
		e.stack = append(e.stack, frame{array: true, path: path})
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := e.report("duplicate_key", path, "key '"+tok.String+"' duplicated", off)
				if e.opt.OnDuplicate == DupError {
					return Token{}, IssueError{si}
				}
			}
			top.keys[tok.String] = struct{}{}
			top.key = tok.String
		}
	}

	if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
		return Token{}, IssueError{e.report("parse_error", path, "max depth exceeded", off)}
	}
	if e.opt.MaxBytes > 0 && off > e.opt.MaxBytes {
		return Token{}, IssueError{e.report("truncated", path, "max bytes exceeded", off)}
	}
	return tok, nil
}

// pathOf returns the pointer of tok, advancing the array index of the
// enclosing container when tok starts an element.
func (e *enforcer) pathOf(tok Token) string {
	n := len(e.stack)
	if n == 0 {
		return e.opt.BasePath
	}
	top := &e.stack[n-1]
	switch {
	case tok.Kind == KindEndObject || tok.Kind == KindEndArray:
		return top.path
	case tok.Kind == KindKey:
		return joinJSONPointer(top.path, tok.String)
	case top.array:
		top.index++
		return joinJSONPointer(top.path, strconv.Itoa(top.index-1))
	default:
		return joinJSONPointer(top.path, top.key)
	}
}

func (e *enforcer) report(code, path, msg string, off int64) SimpleIssue {
	if path == "" {
		path = "/"
	}
	si := SimpleIssue{Code: code, Path: path, Message: msg, Offset: off}
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	return si
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinJSONPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}

// JoinPointer appends one escaped reference token to a JSON Pointer.
func JoinPointer(base, token string) string { return joinJSONPointer(base, token) }

// IndexPointer appends an array index to a JSON Pointer.
func IndexPointer(base string, i int) string { return joinJSONPointer(base, strconv.Itoa(i)) }
