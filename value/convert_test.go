package value

import "testing"

func TestCoerceOnStoreWidensNumerics(t *testing.T) {
	got, err := CoerceOnStore(NewByte(5), KindLong)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindLong || got.Long() != 5 {
		t.Errorf("unexpected widened value: %+v", got)
	}
}

func TestCoerceOnStoreRejectsNarrowing(t *testing.T) {
	_, err := CoerceOnStore(NewDouble(1.5), KindInteger)
	if err == nil {
		t.Fatalf("expected an error narrowing double to integer")
	}
}

func TestCoerceOnStoreRejectsBooleanFromNumeric(t *testing.T) {
	_, err := CoerceOnStore(NewInteger(1), KindBoolean)
	if err == nil {
		t.Fatalf("expected boolean to reject implicit numeric coercion")
	}
}

func TestCoerceOnStoreStringToDate(t *testing.T) {
	got, err := CoerceOnStore(NewString("2024-01-02"), KindDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindDate {
		t.Errorf("expected a Date value, got %+v", got)
	}
}

func TestCastBooleanRequiresExplicitCall(t *testing.T) {
	got, err := Cast(NewInteger(1), KindBoolean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Bool() {
		t.Errorf("expected explicit cast to truthy boolean")
	}
}

func TestCastStringifiesAnyScalar(t *testing.T) {
	got, err := Cast(NewInteger(42), KindString)
	if err != nil || got.Str() != "42" {
		t.Fatalf("unexpected cast result: %+v err=%v", got, err)
	}
}

func TestIsIntegralKindDistinguishesFromFloating(t *testing.T) {
	for _, k := range []Kind{KindByte, KindInteger, KindLong} {
		if !IsIntegralKind(k) {
			t.Errorf("expected %s to be integral", k)
		}
	}
	for _, k := range []Kind{KindFloat, KindDouble, KindString, KindBoolean} {
		if IsIntegralKind(k) {
			t.Errorf("expected %s not to be integral", k)
		}
	}
}

func TestIntegralRangeBoundsMatchKindWidth(t *testing.T) {
	lo, hi, ok := IntegralRange(KindByte)
	if !ok || lo != 0 || hi != 255 {
		t.Fatalf("unexpected byte range: %v %v %v", lo, hi, ok)
	}
	if _, _, ok := IntegralRange(KindDouble); ok {
		t.Fatalf("expected double to have no integral range")
	}
}
