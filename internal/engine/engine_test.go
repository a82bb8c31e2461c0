package engine

import (
	"errors"
	"io"
	"testing"
)

// sliceSource replays a fixed token list.
type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) }

func key(k string) Token { return Token{Kind: KindKey, String: k} }

var (
	bo  = Token{Kind: KindBeginObject}
	eo  = Token{Kind: KindEndObject}
	ba  = Token{Kind: KindBeginArray}
	ea  = Token{Kind: KindEndArray}
	num = Token{Kind: KindNumber, Number: "1"}
)

func TestObjectKeys(t *testing.T) {
	src := &sliceSource{toks: []Token{bo, key("b"), ba, num, bo, key("x"), num, eo, ea, key("a"), num, eo}}
	keys, err := ObjectKeys(src)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("keys: %v", keys)
	}
}

func TestObjectKeys_NotObject(t *testing.T) {
	if _, err := ObjectKeys(&sliceSource{toks: []Token{ba, ea}}); !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

func TestObjectKeys_Truncated(t *testing.T) {
	_, err := ObjectKeys(&sliceSource{toks: []Token{bo, key("a"), ba, num}})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestEnforcement_DuplicateModes(t *testing.T) {
	toks := []Token{bo, key("a"), num, key("a"), num, eo}

	var got []SimpleIssue
	sink := func(si SimpleIssue) { got = append(got, si) }
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupWarn, IssueSink: sink})
	if _, err := ObjectKeys(src); err != nil {
		t.Fatalf("warn: %v", err)
	}
	if len(got) != 1 || got[0].Code != "duplicate_key" || got[0].Path != "/a" {
		t.Fatalf("warn issues: %+v", got)
	}

	src = WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupError, BasePath: "/items/3"})
	_, err := ObjectKeys(src)
	var ie IssueError
	if !errors.As(err, &ie) || ie.Path != "/items/3/a" {
		t.Fatalf("error mode: %v", err)
	}

	src = WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{})
	if keys, err := ObjectKeys(src); err != nil || len(keys) != 2 {
		t.Fatalf("ignore mode: %v %v", keys, err)
	}
}

func TestEnforcement_MaxDepth(t *testing.T) {
	src := WrapWithEnforcement(&sliceSource{toks: []Token{bo, key("a"), ba, ba, ea, ea, eo}}, EnforceOptions{MaxDepth: 2})
	var ie IssueError
	if _, err := ObjectKeys(src); !errors.As(err, &ie) || ie.Message != "max depth exceeded" {
		t.Fatalf("expected depth error, got %v", err)
	}
}

func TestEnforcement_MaxBytes(t *testing.T) {
	src := WrapWithEnforcement(&sliceSource{toks: []Token{bo, key("a"), num, key("b"), num, eo}}, EnforceOptions{MaxBytes: 3})
	var ie IssueError
	if _, err := ObjectKeys(src); !errors.As(err, &ie) || ie.Code != "truncated" {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestPointers(t *testing.T) {
	if got := JoinPointer("", "a/b~c"); got != "/a~1b~0c" {
		t.Fatalf("JoinPointer: %q", got)
	}
	if got := IndexPointer("/list", 2); got != "/list/2" {
		t.Fatalf("IndexPointer: %q", got)
	}
}

func TestEnforcement_PathsThroughArrays(t *testing.T) {
	// {"l":[1,{"k":1,"k":1}],"m":{"k":1}}
	toks := []Token{bo, key("l"), ba, num, bo, key("k"), num, key("k"), num, eo, ea, key("m"), bo, key("k"), num, eo, eo}
	var got []string
	sink := func(si SimpleIssue) { got = append(got, si.Path) }
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupWarn, IssueSink: sink, BasePath: "/doc"})
	if _, err := ObjectKeys(src); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 1 || got[0] != "/doc/l/1/k" {
		t.Fatalf("paths: %v", got)
	}
}
