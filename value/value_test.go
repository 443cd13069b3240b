package value

import "testing"

func TestTruthyMatchesSpecRules(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Null, false},
		{NewBoolean(false), false},
		{NewBoolean(true), true},
		{NewInteger(0), false},
		{NewInteger(1), true},
		{NewDouble(0), false},
		{NewDouble(-0), false},
		{NewString(""), false},
		{NewString("x"), true},
		{NewRecord(0), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("Truthy(%+v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestAsFloat64WidensEveryNumericKind(t *testing.T) {
	if NewByte(5).AsFloat64() != 5 {
		t.Errorf("byte widen failed")
	}
	if NewLong(9).AsFloat64() != 9 {
		t.Errorf("long widen failed")
	}
	if NewDouble(1.5).AsFloat64() != 1.5 {
		t.Errorf("double widen failed")
	}
}

func TestDisplayFormatsScalars(t *testing.T) {
	if NewInteger(42).Display() != "42" {
		t.Errorf("unexpected integer display")
	}
	if NewBoolean(true).Display() != "true" {
		t.Errorf("unexpected boolean display")
	}
	if NewString("hi").Display() != "hi" {
		t.Errorf("unexpected string display")
	}
}

func TestIsReferenceKindDistinguishesContainersFromScalars(t *testing.T) {
	if !NewArray(0).IsReferenceKind() {
		t.Errorf("expected array to be a reference kind")
	}
	if NewInteger(1).IsReferenceKind() {
		t.Errorf("expected integer to not be a reference kind")
	}
}
