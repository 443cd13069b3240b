package value

import "testing"

func TestJsonObjectPreservesInsertionOrder(t *testing.T) {
	obj := NewJsonObject()
	obj.Set("b", NewJsonNumber(2))
	obj.Set("a", NewJsonNumber(1))
	if obj.Keys[0] != "b" || obj.Keys[1] != "a" {
		t.Fatalf("expected insertion order preserved, got %v", obj.Keys)
	}
	if obj.String() != `{"b":2,"a":1}` {
		t.Errorf("unexpected serialization: %s", obj.String())
	}
}

func TestJsonGetMissingFieldReturnsNull(t *testing.T) {
	obj := NewJsonObject()
	got := obj.Get("missing")
	if got.Kind != JsonNull {
		t.Errorf("expected JsonNull for a missing field, got %+v", got)
	}
}

func TestJsonArraySerialization(t *testing.T) {
	arr := NewJsonArray([]*JsonNode{NewJsonNumber(1), NewJsonString("x"), NewJsonBool(true)})
	if arr.String() != `[1,"x",true]` {
		t.Errorf("unexpected array serialization: %s", arr.String())
	}
}
