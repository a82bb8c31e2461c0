package xtended_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	xt "github.com/reoring/xtended"
	"github.com/reoring/xtended/i18n"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := xt.Issues{
		{Path: "/a", Code: xt.CodeUnrecognizedShape},
		{Path: "/b", Code: xt.CodeUnsupportedValue, Cause: errors.New("boom")},
		{Path: "/c", Code: xt.CodeParseError},
		{Path: "/d", Code: xt.CodeTruncated},
	}
	s := iss.Error()
	if !strings.HasPrefix(s, "unrecognized_shape at /a") {
		t.Fatalf("unexpected summary %q", s)
	}
	if !strings.Contains(s, "(boom)") || !strings.Contains(s, "total 4") {
		t.Fatalf("unexpected summary %q", s)
	}
	if strings.Contains(s, "/d") {
		t.Fatalf("summary must stop after three issues: %q", s)
	}
	if (xt.Issues{}).Error() != "" {
		t.Fatalf("empty issues must render empty")
	}
}

func TestIssues_IsAndAs(t *testing.T) {
	cause := errors.New("driver failure")
	var err error = xt.Issues{{Path: "/", Code: xt.CodeMalformedDocument, Cause: cause}}
	wrapped := fmt.Errorf("loading: %w", err)

	if !errors.Is(wrapped, xt.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument")
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected cause to match")
	}
	if errors.Is(wrapped, xt.ErrUnsupportedValue) {
		t.Fatalf("unexpected match")
	}
	iss, ok := xt.AsIssues(wrapped)
	if !ok || len(iss) != 1 {
		t.Fatalf("AsIssues: %v %v", iss, ok)
	}
	if _, ok := xt.AsIssues(nil); ok {
		t.Fatalf("nil is not issues")
	}
	if _, ok := xt.AsIssues(cause); ok {
		t.Fatalf("plain error is not issues")
	}
}

func TestIssues_LocalizedMessage(t *testing.T) {
	_, err := xt.Unmarshal[testRecord]([]byte(`[1]`))
	iss, _ := xt.AsIssues(err)
	if iss[0].Message != "declared fields failed to decode" {
		t.Fatalf("message: %q", iss[0].Message)
	}
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	_, err = xt.Unmarshal[testRecord]([]byte(`[1]`))
	iss, _ = xt.AsIssues(err)
	if iss[0].Message == "declared fields failed to decode" {
		t.Fatalf("expected japanese message")
	}
}

func TestAppendIssues(t *testing.T) {
	var iss xt.Issues
	iss = xt.AppendIssues(iss, xt.Issue{Code: xt.CodeTruncated})
	if len(iss) != 1 {
		t.Fatalf("len: %d", len(iss))
	}
	if got := xt.AppendIssues(nil); got == nil {
		t.Fatalf("expected initialized slice")
	}
}
