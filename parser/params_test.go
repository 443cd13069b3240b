package parser

import (
	"testing"

	"github.com/ebscore/ebs/ast"
)

func intLit(v int64) ast.Expression { return &ast.Literal{Kind: "int", IntVal: v} }

func TestMatchParametersPositional(t *testing.T) {
	formals := []ast.Parameter{
		{Name: "a", Mandatory: true},
		{Name: "b", Default: intLit(1)},
	}
	bound, err := MatchParameters(formals, []ast.Argument{{Value: intLit(5)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bound[0].Default.(*ast.Literal).IntVal != 5 {
		t.Errorf("expected a bound to 5, got %+v", bound[0].Default)
	}
	if bound[1].Default.(*ast.Literal).IntVal != 1 {
		t.Errorf("expected b to keep its default of 1, got %+v", bound[1].Default)
	}
}

func TestMatchParametersNamed(t *testing.T) {
	formals := []ast.Parameter{
		{Name: "a", Mandatory: true},
		{Name: "b", Default: intLit(1)},
	}
	bound, err := MatchParameters(formals, []ast.Argument{{Name: "a", Value: intLit(9)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bound[0].Default.(*ast.Literal).IntVal != 9 {
		t.Errorf("expected a bound to 9, got %+v", bound[0].Default)
	}
}

func TestMatchParametersRejectsMixedStyle(t *testing.T) {
	formals := []ast.Parameter{{Name: "a", Mandatory: true}, {Name: "b", Mandatory: true}}
	_, err := MatchParameters(formals, []ast.Argument{
		{Value: intLit(1)},
		{Name: "b", Value: intLit(2)},
	})
	if err == nil {
		t.Fatalf("expected an error for mixed positional/named arguments")
	}
}

func TestMatchParametersRejectsUnknownName(t *testing.T) {
	formals := []ast.Parameter{{Name: "a", Mandatory: true}}
	_, err := MatchParameters(formals, []ast.Argument{{Name: "z", Value: intLit(1)}})
	if err == nil {
		t.Fatalf("expected an error for an unknown named parameter")
	}
}

func TestMatchParametersRejectsMissingMandatory(t *testing.T) {
	formals := []ast.Parameter{{Name: "a", Mandatory: true}, {Name: "b", Mandatory: true}}
	_, err := MatchParameters(formals, []ast.Argument{{Value: intLit(1)}})
	if err == nil {
		t.Fatalf("expected an error for a missing mandatory parameter")
	}
}

func TestMatchParametersRejectsTooManyPositionals(t *testing.T) {
	formals := []ast.Parameter{{Name: "a", Mandatory: true}}
	_, err := MatchParameters(formals, []ast.Argument{{Value: intLit(1)}, {Value: intLit(2)}})
	if err == nil {
		t.Fatalf("expected an error for too many positional parameters")
	}
}
