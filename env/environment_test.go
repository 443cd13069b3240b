package env

import (
	"testing"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/value"
)

func intType() *ast.TypeSpec { return &ast.TypeSpec{Name: "integer"} }

func TestDefineAndGet(t *testing.T) {
	e := New()
	if err := e.Define("x", intType(), value.NewInteger(5), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := e.Get("x")
	if err != nil || got.Integer() != 5 {
		t.Fatalf("unexpected get: %+v err=%v", got, err)
	}
}

func TestDefineRejectsRedeclarationInSameFrame(t *testing.T) {
	e := New()
	e.Define("x", intType(), value.NewInteger(1), false)
	if err := e.Define("x", intType(), value.NewInteger(2), false); err == nil {
		t.Fatalf("expected an error redeclaring x in the same frame")
	}
}

func TestAssignWalksParentChain(t *testing.T) {
	parent := New()
	parent.Define("x", intType(), value.NewInteger(1), false)
	child := parent.Push()
	if err := child.Assign("x", value.NewInteger(9)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := parent.Get("x")
	if got.Integer() != 9 {
		t.Errorf("expected parent's x to be updated via child.Assign, got %+v", got)
	}
}

func TestAssignRejectsConst(t *testing.T) {
	e := New()
	e.Define("x", intType(), value.NewInteger(1), true)
	if err := e.Assign("x", value.NewInteger(2)); err == nil {
		t.Fatalf("expected an error assigning to a const binding")
	}
}

func TestAssignRejectsUndefined(t *testing.T) {
	e := New()
	if err := e.Assign("missing", value.NewInteger(1)); err == nil {
		t.Fatalf("expected an error assigning to an undefined variable")
	}
}

func TestChildScopeShadowsParent(t *testing.T) {
	parent := New()
	parent.Define("x", intType(), value.NewInteger(1), false)
	child := parent.Push()
	child.Define("x", intType(), value.NewInteger(2), false)

	got, _ := child.Get("x")
	if got.Integer() != 2 {
		t.Errorf("expected child's shadowed x, got %+v", got)
	}
	parentGot, _ := parent.Get("x")
	if parentGot.Integer() != 1 {
		t.Errorf("expected parent's x to be untouched by shadowing, got %+v", parentGot)
	}
}

func TestClearWipesFrame(t *testing.T) {
	e := New()
	e.Define("x", intType(), value.NewInteger(1), false)
	e.Clear()
	if _, err := e.Get("x"); err == nil {
		t.Fatalf("expected x to be gone after Clear")
	}
}

func TestScreenVarsGetSet(t *testing.T) {
	sv := NewScreenVars()
	sv.Set("home", "count", value.NewInteger(3))
	got, err := sv.Get("home", "count")
	if err != nil || got.Integer() != 3 {
		t.Fatalf("unexpected screen var: %+v err=%v", got, err)
	}
}

func TestScreenVarsMissingScreen(t *testing.T) {
	sv := NewScreenVars()
	if _, err := sv.Get("nope", "x"); err == nil {
		t.Fatalf("expected an error for an undeclared screen")
	}
}
