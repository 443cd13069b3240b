package parser

import (
	"testing"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/lexer"
	"github.com/ebscore/ebs/source"
)

func TestBindResolvesCallToDeclaredBlock(t *testing.T) {
	input := `
add(a: integer, b: integer): integer {
	return a + b;
}
var r: integer = add(1, 2);
`
	src := source.New("test.ebs", input)
	p := New(lexer.New(input), src)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	errs := Bind(program, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected bind errors: %v", errs)
	}
}

func TestBindResolvesBuiltinCall(t *testing.T) {
	input := `var r: string = upper("x");`
	src := source.New("test.ebs", input)
	p := New(lexer.New(input), src)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	builtins := map[string]BuiltinSignature{
		"upper": {Name: "upper", Params: []ast.Parameter{{Name: "s", Mandatory: true}}, Dynamic: false},
	}
	errs := Bind(program, builtins)
	if len(errs) != 0 {
		t.Fatalf("unexpected bind errors: %v", errs)
	}
}

func TestBindLeavesUnknownCallUnresolved(t *testing.T) {
	input := `call futureBlock(1);`
	src := source.New("test.ebs", input)
	p := New(lexer.New(input), src)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	errs := Bind(program, nil)
	if len(errs) != 0 {
		t.Fatalf("expected no bind errors for an unresolved forward reference, got %v", errs)
	}
}
