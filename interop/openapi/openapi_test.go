package openapi_test

import (
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	xt "github.com/reoring/xtended"
	"github.com/reoring/xtended/interop/openapi"
)

type opMeta struct {
	xt.Extension
	OperationID string `json:"operationId"`
}

func TestFromMap_RestoresIntegers(t *testing.T) {
	var op openapi3.Operation
	if err := op.UnmarshalJSON([]byte(`{"operationId":"list","x-limit":100,"x-ratio":0.5,"x-tags":["a",1],"x-none":null}`)); err != nil {
		t.Fatalf("kin unmarshal: %v", err)
	}
	var rec opMeta
	if err := openapi.Operation(&op, &rec); err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := xt.Extensions{
		"x-limit": xt.Int(100),
		"x-ratio": xt.Double(0.5),
		"x-tags":  xt.Array(xt.String("a"), xt.Int(1)),
		"x-none":  xt.Null(),
	}
	if diff := cmp.Diff(want, rec.X); diff != "" {
		t.Fatalf("extensions (-want +got):\n%s", diff)
	}
}

func TestApplyOperation(t *testing.T) {
	rec, err := xt.Unmarshal[opMeta]([]byte(`{"operationId":"get","x-owner":{"team":"pets"},"x-retries":3}`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	op := openapi3.NewOperation()
	op.OperationID = rec.OperationID
	op.Responses = openapi3.NewResponses()
	if err := openapi.ApplyOperation(&rec, op); err != nil {
		t.Fatalf("apply: %v", err)
	}
	out, err := op.MarshalJSON()
	if err != nil {
		t.Fatalf("kin marshal: %v", err)
	}
	s := string(out)
	for _, frag := range []string{`"x-owner":{"team":"pets"}`, `"x-retries":3`, `"operationId":"get"`} {
		if !strings.Contains(s, frag) {
			t.Fatalf("missing %s in %s", frag, s)
		}
	}
}

func TestToMap_Empty(t *testing.T) {
	m, err := openapi.ToMap(nil)
	if err != nil || m != nil {
		t.Fatalf("got %v %v", m, err)
	}
	ext, err := openapi.FromMap(map[string]any{"description": "not an extension"}, nil)
	if err != nil || ext != nil {
		t.Fatalf("got %v %v", ext, err)
	}
}
