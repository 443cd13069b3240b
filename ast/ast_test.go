package ast

import (
	"testing"

	"github.com/ebscore/ebs/token"
)

func TestProgramMethods(t *testing.T) {
	prog := &Program{}
	if prog.TokenLiteral() != "" {
		t.Errorf("empty program should return empty TokenLiteral")
	}
	if prog.String() != "" {
		t.Errorf("empty program should return empty String")
	}

	prog = &Program{
		Statements: []Statement{
			&VarDecl{Tok: token.Token{Literal: "var"}, Name: "x"},
		},
	}
	if prog.TokenLiteral() != "var" {
		t.Errorf("expected var, got %s", prog.TokenLiteral())
	}
}

func TestVarDeclMethods(t *testing.T) {
	n := &VarDecl{
		Tok:  token.Token{Literal: "var", Line: 3},
		Name: "count",
		Type: &TypeSpec{Name: "integer"},
	}
	n.statementNode()

	if n.TokenLiteral() != "var" {
		t.Errorf("expected var, got %s", n.TokenLiteral())
	}
	if n.Line() != 3 {
		t.Errorf("expected line 3, got %d", n.Line())
	}
	if n.String() != "var count" {
		t.Errorf("expected %q, got %q", "var count", n.String())
	}
}

func TestAssignPreservesIndexTarget(t *testing.T) {
	target := &Index{
		Target:  &Variable{Name: "rows"},
		Indices: []Expression{&Literal{Kind: "int", IntVal: 0}},
	}
	a := &Assign{
		Tok:    token.Token{Literal: "="},
		Target: target,
		Value:  &Literal{Tok: token.Token{Literal: "5"}, Kind: "int", IntVal: 5},
	}
	a.statementNode()
	if a.Target != Expression(target) {
		t.Fatalf("assign target not preserved")
	}
	if a.String() != target.String()+" = 5" {
		t.Errorf("unexpected String(): %q", a.String())
	}
}

func TestTypeSpecStringVariants(t *testing.T) {
	tests := []struct {
		spec *TypeSpec
		want string
	}{
		{&TypeSpec{Name: "integer"}, "integer"},
		{&TypeSpec{IsArray: true, ElemType: &TypeSpec{Name: "string"}}, "array.string[*]"},
		{&TypeSpec{IsQueue: true, ElemType: &TypeSpec{Name: "byte"}}, "queue.byte"},
		{&TypeSpec{IsMap: true, Sorted: true}, "sorted map"},
		{&TypeSpec{IsMap: true}, "map"},
		{&TypeSpec{IsRecord: true}, "record{...}"},
		{&TypeSpec{IsBitmap: true}, "bitmap{...}"},
	}
	for _, tt := range tests {
		if got := tt.spec.String(); got != tt.want {
			t.Errorf("TypeSpec.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestArrayAllocWithFixedDims(t *testing.T) {
	n := &ArrayAlloc{
		Tok:      token.Token{Literal: "array"},
		ElemType: &TypeSpec{Name: "integer"},
		Dims:     []Expression{&Literal{Kind: "int", IntVal: 10}},
	}
	n.expressionNode()
	if n.String() != "array.integer[...]" {
		t.Errorf("unexpected String(): %q", n.String())
	}
}

func TestJsonLiteralCarriesRawTextAndOptionalTypeName(t *testing.T) {
	plain := &JsonLiteral{Tok: token.Token{Literal: "{"}, Raw: `{"a":1}`}
	plain.expressionNode()
	if plain.TypeName != "" {
		t.Errorf("plain JSON literal should have empty TypeName")
	}

	rec := &JsonLiteral{Tok: token.Token{Literal: "{"}, Raw: `{a:1}`, TypeName: "Point"}
	if rec.TypeName != "Point" {
		t.Errorf("record literal should carry its alias as TypeName")
	}
	if rec.String() != `{a:1}` {
		t.Errorf("String() should return the raw slice verbatim")
	}
}

func TestChainedComparisonOperandCount(t *testing.T) {
	n := &ChainedComparison{
		Tok: token.Token{Literal: "<"},
		Operands: []Expression{
			&Variable{Name: "a"},
			&Variable{Name: "b"},
			&Variable{Name: "c"},
		},
		Ops: []string{"<", "<="},
	}
	n.expressionNode()
	if len(n.Ops) != len(n.Operands)-1 {
		t.Fatalf("expected %d ops for %d operands, got %d", len(n.Operands)-1, len(n.Operands), len(n.Ops))
	}
}

func TestBlockStatementIsBothStatementAndExpression(t *testing.T) {
	b := &BlockStatement{Tok: token.Token{Literal: "block"}, Name: "add"}
	b.statementNode()
	b.expressionNode()
	if b.String() != "add(...) {...}" {
		t.Errorf("unexpected String(): %q", b.String())
	}

	anon := &BlockStatement{Tok: token.Token{Literal: "block"}}
	if anon.String() != "block(...) {...}" {
		t.Errorf("unexpected String() for anonymous block: %q", anon.String())
	}
}

func TestTryCarriesHandlersInSourceOrder(t *testing.T) {
	tr := &Try{
		Tok: token.Token{Literal: "try"},
		Handlers: []ExceptionHandler{
			{Kind: "divide_by_zero", Var: "e"},
			{Kind: "generic", Var: "e"},
		},
	}
	tr.statementNode()
	if tr.Handlers[0].Kind != "divide_by_zero" || tr.Handlers[1].Kind != "generic" {
		t.Fatalf("handler order not preserved: %+v", tr.Handlers)
	}
}

func TestRaiseDistinguishesStandardAndCustom(t *testing.T) {
	std := &Raise{Tok: token.Token{Literal: "raise"}, Kind: "generic", Args: []Expression{
		&Literal{Kind: "string", StringVal: "boom"},
	}}
	std.statementNode()
	if len(std.Args) != 1 {
		t.Fatalf("expected exactly one message arg for a standard exception")
	}

	custom := &Raise{Tok: token.Token{Literal: "raise"}, Kind: "OutOfStock", Args: []Expression{
		&Literal{Kind: "string", StringVal: "sku"},
		&Literal{Kind: "int", IntVal: 42},
	}}
	if len(custom.Args) != 2 {
		t.Fatalf("expected custom exception to carry multiple positional args")
	}
}
