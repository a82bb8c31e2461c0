package engine

import (
	"errors"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrNotObject is returned by ObjectKeys when the source does not start with
// an object.
var ErrNotObject = errors.New("engine: value is not an object")

// ErrNotArray reports a value that was expected to be an array.
var ErrNotArray = errors.New("engine: value is not an array")

// ObjectKeys consumes one object from src and returns its top-level keys in
// document order. Nested values are skipped without being materialized.
func ObjectKeys(src TokenSource) ([]string, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, eofAsUnexpected(err)
	}
	if tok.Kind != KindBeginObject {
		return nil, ErrNotObject
	}
	var keys []string
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		if tok.Kind == KindEndObject {
			return keys, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		keys = append(keys, tok.String)
		if err := SkipValue(src); err != nil {
			return nil, err
		}
	}
}

// SkipValue consumes exactly one value (scalar or container) from src.
func SkipValue(src TokenSource) error {
	tok, err := src.NextToken()
	if err != nil {
		return eofAsUnexpected(err)
	}
	return skipFrom(src, tok)
}

func skipFrom(src TokenSource, first Token) error {
	switch first.Kind {
	case KindString, KindNumber, KindBool, KindNull:
		return nil
	case KindBeginObject, KindBeginArray:
	default:
		return io.ErrUnexpectedEOF
	}
	depth := 1
	for depth > 0 {
		tok, err := src.NextToken()
		if err != nil {
			return eofAsUnexpected(err)
		}
		switch tok.Kind {
		case KindBeginObject, KindBeginArray:
			depth++
		case KindEndObject, KindEndArray:
			depth--
		}
	}
	return nil
}

func eofAsUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
