package value

import (
	"testing"

	"github.com/ebscore/ebs/ast"
)

func pointType() *ast.TypeSpec {
	return &ast.TypeSpec{
		Name:     "Point",
		IsRecord: true,
		Fields: []ast.FieldSpec{
			{Name: "x", Type: &ast.TypeSpec{Name: "integer"}},
			{Name: "y", Type: &ast.TypeSpec{Name: "integer"}},
		},
	}
}

func TestZeroOfRecordPopulatesEveryFieldWithTypeZero(t *testing.T) {
	a := NewArena()
	v := ZeroOf(a, pointType())
	if v.Kind != KindRecord {
		t.Fatalf("expected a Record value, got %+v", v)
	}
	rec := a.Get(v.Handle())
	if rec.Fields["x"].Integer() != 0 || rec.Fields["y"].Integer() != 0 {
		t.Errorf("expected zeroed fields, got %+v", rec.Fields)
	}
}

func TestZeroOfScalarsMatchSpec(t *testing.T) {
	if ZeroOf(nil, &ast.TypeSpec{Name: "string"}).Str() != "" {
		t.Errorf("expected empty string zero value")
	}
	if ZeroOf(nil, &ast.TypeSpec{Name: "boolean"}).Bool() != false {
		t.Errorf("expected false zero value")
	}
}

func TestValidateRecordAssignmentDetectsFieldMismatch(t *testing.T) {
	a := NewArena()
	h := a.NewRecord("Point", []string{"x"})
	if err := ValidateRecordAssignment(a.Get(h), pointType()); err == nil {
		t.Fatalf("expected a field-count mismatch error")
	}
}

func TestValidateRecordAssignmentAcceptsMatchingFields(t *testing.T) {
	a := NewArena()
	h := a.NewRecord("Point", []string{"x", "y"})
	if err := ValidateRecordAssignment(a.Get(h), pointType()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
