package value

import (
	"testing"

	"github.com/ebscore/ebs/ast"
)

func flagsType() *ast.TypeSpec {
	return &ast.TypeSpec{
		Name:     "Flags",
		IsBitmap: true,
		BitFields: []ast.BitFieldSpec{
			{Name: "active", StartBit: 0, EndBit: 0},
			{Name: "priority", StartBit: 1, EndBit: 3},
		},
	}
}

func TestBitmapFieldRoundTrip(t *testing.T) {
	a := NewArena()
	h := a.NewBitmap("Flags", 1)
	c := a.Get(h)
	ft := flagsType()

	if err := SetBitmapField(c, ft, "active", NewBoolean(true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := SetBitmapField(c, ft, "priority", NewInteger(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, err := GetBitmapField(c, ft, "active")
	if err != nil || !active.Bool() {
		t.Fatalf("expected active=true, got %+v err=%v", active, err)
	}
	priority, err := GetBitmapField(c, ft, "priority")
	if err != nil || priority.Integer() != 5 {
		t.Fatalf("expected priority=5, got %+v err=%v", priority, err)
	}
}

func TestBitmapFieldUnknownName(t *testing.T) {
	a := NewArena()
	h := a.NewBitmap("Flags", 1)
	_, err := GetBitmapField(a.Get(h), flagsType(), "nope")
	if err == nil {
		t.Fatalf("expected an error for an unknown bit field")
	}
}

func TestIntmapFieldRoundTrip(t *testing.T) {
	a := NewArena()
	h := a.NewIntmap("Flags")
	c := a.Get(h)
	ft := flagsType()

	if err := SetIntmapField(c, ft, "priority", NewInteger(6)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := GetIntmapField(c, ft, "priority")
	if err != nil || got.Integer() != 6 {
		t.Fatalf("expected priority=6, got %+v err=%v", got, err)
	}
}
