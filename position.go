package xtended

import (
	"bytes"
	"errors"
	"io"
	"log/slog"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/xtended/internal/engine"
	"github.com/reoring/xtended/source/gojson"
)

// Position is one JSON value inside a buffered document, together with its
// JSON Pointer. It is immutable, so any number of decoders can probe the same
// position independently: a failed attempt leaves nothing to roll back.
type Position struct {
	raw  []byte
	path string
}

// NewPosition returns the root position of a buffered document.
func NewPosition(raw []byte) Position { return Position{raw: bytes.TrimSpace(raw)} }

// Raw returns the encoded value at this position.
func (p Position) Raw() []byte { return p.raw }

// Path returns the JSON Pointer of this position ("/" for the root).
func (p Position) Path() string { return normalizePath(p.path) }

// IsNull reports whether the value is the JSON null literal.
func (p Position) IsNull() bool { return bytes.Equal(p.raw, []byte("null")) }

// lead returns the first byte of the value, or 0 for an empty position.
func (p Position) lead() byte {
	if len(p.raw) == 0 {
		return 0
	}
	return p.raw[0]
}

// IsObject reports whether the value is a JSON object.
func (p Position) IsObject() bool { return p.lead() == '{' }

// IsArray reports whether the value is a JSON array.
func (p Position) IsArray() bool { return p.lead() == '[' }

// Decode decodes the value into dst with the given driver.
func (p Position) Decode(drv JSONDriver, dst any) error {
	if drv == nil {
		drv = getJSONDriver()
	}
	return drv.Unmarshal(p.raw, dst)
}

// Keys enumerates the keys of the object at this position in document order.
// It is the exploratory counterpart of Decode: it reads the same bytes without
// materializing any value, applying the duplicate-key, depth and size limits
// from opt.
func (p Position) Keys(opts ...Opt) ([]Key, error) {
	opt := resolveOpt(opts)
	var sink func(eng.SimpleIssue)
	if opt.Strictness.OnDuplicateKey == Warn {
		sink = func(si eng.SimpleIssue) {
			opt.Logger.Warn("xtended: keyed view issue", slog.String("code", si.Code), slog.String("path", si.Path), slog.String("message", si.Message))
		}
	}
	src := eng.WrapWithEnforcement(gojson.NewBytes(p.raw), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
		BasePath:    p.path,
	})
	raw, err := eng.ObjectKeys(src)
	if err != nil {
		return nil, p.scanIssues(err)
	}
	keys := make([]Key, len(raw))
	for i, k := range raw {
		keys[i] = Key(k)
	}
	return keys, nil
}

// Fields splits the object at this position into child positions.
func (p Position) Fields(drv JSONDriver) (map[Key]Position, error) {
	if !p.IsObject() {
		return nil, singleIssue(p.path, CodeUnrecognizedShape, eng.ErrNotObject)
	}
	var m map[string]j.RawMessage
	if err := p.Decode(drv, &m); err != nil {
		return nil, singleIssue(p.path, CodeParseError, err)
	}
	out := make(map[Key]Position, len(m))
	for k, raw := range m {
		out[Key(k)] = p.Child(Key(k), raw)
	}
	return out, nil
}

// Elements splits the array at this position into child positions.
func (p Position) Elements(drv JSONDriver) ([]Position, error) {
	if !p.IsArray() {
		return nil, singleIssue(p.path, CodeUnrecognizedShape, eng.ErrNotArray)
	}
	var arr []j.RawMessage
	if err := p.Decode(drv, &arr); err != nil {
		return nil, singleIssue(p.path, CodeParseError, err)
	}
	out := make([]Position, len(arr))
	for i, raw := range arr {
		out[i] = Position{raw: bytes.TrimSpace(raw), path: eng.IndexPointer(p.path, i)}
	}
	return out, nil
}

// Child returns the position of a keyed member with the given raw bytes.
func (p Position) Child(k Key, raw []byte) Position {
	return Position{raw: bytes.TrimSpace(raw), path: eng.JoinPointer(p.path, string(k))}
}

func (p Position) scanIssues(err error) Issues {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, fromEngineIssue(ie.SimpleIssue))
	}
	if errors.Is(err, eng.ErrNotObject) {
		return singleIssue(p.path, CodeUnrecognizedShape, err)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return singleIssue(p.path, CodeTruncated, err)
	}
	return singleIssue(p.path, CodeParseError, err)
}
