package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/xtended/internal/engine"
)

// ---- engine.TokenSource implementation using go-json Decoder ----

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	dec        *j.Decoder
	stack      []frame
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return s.token(eng.Token{Kind: eng.KindBeginObject}), nil
		case '}':
			s.pop()
			return s.token(eng.Token{Kind: eng.KindEndObject}), nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return s.token(eng.Token{Kind: eng.KindBeginArray}), nil
		case ']':
			s.pop()
			return s.token(eng.Token{Kind: eng.KindEndArray}), nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return s.token(eng.Token{Kind: eng.KindKey, String: v}), nil
			}
		}
		s.valueDone()
		return s.token(eng.Token{Kind: eng.KindString, String: v}), nil
	case bool:
		s.valueDone()
		return s.token(eng.Token{Kind: eng.KindBool, Bool: v}), nil
	case j.Number:
		s.valueDone()
		return s.token(eng.Token{Kind: eng.KindNumber, Number: string(v)}), nil
	case float64:
		s.valueDone()
		return s.token(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}), nil
	}
	s.valueDone()
	return s.token(eng.Token{Kind: eng.KindNull}), nil
}

func (s *source) Location() int64 { return s.lastOffset }

func (s *source) token(t eng.Token) eng.Token {
	t.Offset = s.lastOffset
	return t
}

// pop closes the current container; the enclosing object then expects a key.
func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *source) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
