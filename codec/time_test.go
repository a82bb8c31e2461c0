package codec

import (
	"testing"
	"time"

	xt "github.com/reoring/xtended"
)

func TestRegisterTime_EncodeCanonicalUTC(t *testing.T) {
	r := xt.NewRegistry()
	if err := RegisterTime(r); err != nil {
		t.Fatalf("register: %v", err)
	}
	jst := time.FixedZone("JST", 9*3600)
	v := xt.From(time.Date(2025, 1, 1, 9, 0, 0, 500, jst))
	out, err := xt.EncodeValue(v, xt.Opt{Registry: r})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(out) != `"2025-01-01T00:00:00.0000005Z"` {
		t.Fatalf("unexpected encoding %s", out)
	}
	if err := RegisterTime(r); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRegisterTime_Extension(t *testing.T) {
	type event struct {
		xt.Extension
		Name string `json:"name"`
	}
	r := xt.NewRegistry()
	if err := RegisterTime(r); err != nil {
		t.Fatalf("register: %v", err)
	}
	opt := xt.Opt{Registry: r}
	in := event{Name: "deploy"}
	in.X = xt.Extensions{"x-at": xt.Typed(TagTime, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))}
	out, err := xt.Marshal(in, opt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"name":"deploy","x-at":"2025-03-01T12:00:00Z"}` {
		t.Fatalf("unexpected output %s", out)
	}

	back, err := xt.Unmarshal[event](out, opt)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	at := back.X["x-at"]
	if at.Tag() != xt.TagString {
		t.Fatalf("strings are claimed by the built-in decoder, got tag %s", at.Tag())
	}
	got, ok := Time(at)
	if !ok || !got.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("Time: %v %v", got, ok)
	}
}

func TestTime_Conversions(t *testing.T) {
	ref := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	if got, ok := Time(xt.From(ref)); !ok || !got.Equal(ref) {
		t.Fatalf("time payload: %v %v", got, ok)
	}
	if got, ok := Time(xt.From(&ref)); !ok || !got.Equal(ref) {
		t.Fatalf("pointer payload: %v %v", got, ok)
	}
	if got, ok := Time(xt.String("2024-02-29T23:59:59Z")); !ok || !got.Equal(ref) {
		t.Fatalf("string payload: %v %v", got, ok)
	}
	if _, ok := Time(xt.String("yesterday")); ok {
		t.Fatalf("expected failure for non-RFC3339 string")
	}
	if _, ok := Time(xt.Int(1)); ok {
		t.Fatalf("expected failure for int")
	}
	if _, ok := Time(xt.Null()); ok {
		t.Fatalf("expected failure for null")
	}
}

func TestRegisterTime_TriedLast(t *testing.T) {
	r := xt.NewRegistry()
	if err := RegisterTime(r); err != nil {
		t.Fatalf("register: %v", err)
	}
	tags := r.Tags()
	if tags[len(tags)-1] != TagTime {
		t.Fatalf("time must be tried last: %v", tags)
	}
}
