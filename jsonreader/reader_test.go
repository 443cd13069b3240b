package jsonreader

import (
	"testing"

	"github.com/ebscore/ebs/value"
)

func TestParseObjectPreservesKeyOrder(t *testing.T) {
	node, err := Parse(`{"b": 1, "a": 2}`, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Kind != value.JsonObject || node.Keys[0] != "b" || node.Keys[1] != "a" {
		t.Fatalf("unexpected node: %+v", node)
	}
}

func TestParseLowercaseKeysMode(t *testing.T) {
	node, err := Parse(`{"Title": "x"}`, Options{LowercaseKeys: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := node.Object["title"]; !ok {
		t.Fatalf("expected lowercased key, got %+v", node.Keys)
	}
}

func TestParseArrayAndNestedObject(t *testing.T) {
	node, err := Parse(`[1, {"x": true}, null]`, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(node.Array) != 3 || node.Array[1].Get("x").Bool != true || node.Array[2].Kind != value.JsonNull {
		t.Fatalf("unexpected node: %s", node.String())
	}
}

func TestParseStringEscapes(t *testing.T) {
	node, err := Parse(`"a\nb\"c"`, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Str != "a\nb\"c" {
		t.Fatalf("unexpected escaped string: %q", node.Str)
	}
}

func TestParseReportsByteOffsetOnError(t *testing.T) {
	_, err := Parse(`{"a": }`, Options{})
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	jerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if jerr.Offset == 0 {
		t.Errorf("expected a non-zero byte offset")
	}
}

func TestPreEvaluateSplicesBuiltinResult(t *testing.T) {
	eval := func(call string) (*value.JsonNode, error) {
		if call != `sum.total(1,2)` {
			t.Fatalf("unexpected call text: %q", call)
		}
		return value.NewJsonNumber(3), nil
	}
	node, err := Parse(`{"total": #sum.total(1,2)}`, Options{Eval: eval})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Get("total").Number != 3 {
		t.Fatalf("unexpected total: %+v", node.Get("total"))
	}
}

func TestPreEvaluateIgnoresHashInsideStrings(t *testing.T) {
	node, err := Parse(`{"tag": "#notacall"}`, Options{Eval: func(string) (*value.JsonNode, error) {
		t.Fatalf("eval should not be called for a '#' inside a string")
		return nil, nil
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Get("tag").Str != "#notacall" {
		t.Fatalf("unexpected tag value: %+v", node.Get("tag"))
	}
}
