package parser

import (
	"testing"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/lexer"
	"github.com/ebscore/ebs/source"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	src := source.New("test.ebs", input)
	p := New(lexer.New(input), src)
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func checkParserErrors(t *testing.T, p *Parser) {
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}
	t.Errorf("parser has %d errors", len(errors))
	for _, msg := range errors {
		t.Errorf("parser error: %s", msg)
	}
	t.FailNow()
}

func TestVarDeclWithTypeAndInitializer(t *testing.T) {
	program := parseProgram(t, `var count: integer = 5;`)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	decl, ok := program.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", program.Statements[0])
	}
	if decl.Name != "count" || decl.Type.Name != "integer" {
		t.Errorf("unexpected decl: name=%q type=%q", decl.Name, decl.Type.Name)
	}
	lit, ok := decl.Initializer.(*ast.Literal)
	if !ok || lit.IntVal != 5 {
		t.Errorf("unexpected initializer: %+v", decl.Initializer)
	}
}

func TestTypedefRegistersAliasDuringParse(t *testing.T) {
	src := source.New("test.ebs", `typedef Point typeof record { x: integer, y: integer };`)
	p := New(lexer.New(`typedef Point typeof record { x: integer, y: integer };`), src)
	p.ParseProgram()
	checkParserErrors(t, p)

	spec, ok := p.Types.Lookup("Point")
	if !ok {
		t.Fatalf("expected Point to be registered in the type registry")
	}
	if !spec.IsRecord || len(spec.Fields) != 2 {
		t.Fatalf("unexpected type spec: %+v", spec)
	}
}

func TestBitmapTypeRejectsOverlap(t *testing.T) {
	input := `typedef Flags typeof bitmap { a: 0-1, b: 1-2 };`
	src := source.New("test.ebs", input)
	p := New(lexer.New(input), src)
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected an overlap error for overlapping bit fields")
	}
}

func TestIfThenElse(t *testing.T) {
	program := parseProgram(t, `if (x > 0) then print x; else print 0;`)
	stmt, ok := program.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected If, got %T", program.Statements[0])
	}
	if stmt.Alternative == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestChainedComparisonDesugars(t *testing.T) {
	program := parseProgram(t, `var ok: boolean = a < b <= c;`)
	decl := program.Statements[0].(*ast.VarDecl)
	chain, ok := decl.Initializer.(*ast.ChainedComparison)
	if !ok {
		t.Fatalf("expected ChainedComparison, got %T", decl.Initializer)
	}
	if len(chain.Operands) != 3 || len(chain.Ops) != 2 {
		t.Fatalf("unexpected chain shape: %+v", chain)
	}
}

func TestSimpleBinaryStaysBinary(t *testing.T) {
	program := parseProgram(t, `var ok: boolean = a < b;`)
	decl := program.Statements[0].(*ast.VarDecl)
	if _, ok := decl.Initializer.(*ast.Binary); !ok {
		t.Fatalf("expected a plain Binary for a single comparison, got %T", decl.Initializer)
	}
}

func TestExponentiationIsRightAssociative(t *testing.T) {
	program := parseProgram(t, `var v: double = 2 ^ 3 ^ 2;`)
	decl := program.Statements[0].(*ast.VarDecl)
	top, ok := decl.Initializer.(*ast.Binary)
	if !ok || top.Op != "^" {
		t.Fatalf("expected top-level ^, got %+v", decl.Initializer)
	}
	if _, ok := top.Right.(*ast.Binary); !ok {
		t.Fatalf("expected right-associative nesting on the right side, got %T", top.Right)
	}
	if _, ok := top.Left.(*ast.Literal); !ok {
		t.Fatalf("expected a bare literal on the left side, got %T", top.Left)
	}
}

func TestBlockDeclarationWithParamsAndReturnType(t *testing.T) {
	program := parseProgram(t, `
add(a: integer, b: integer = 1): integer {
	return a + b;
}`)
	block, ok := program.Statements[0].(*ast.BlockStatement)
	if !ok {
		t.Fatalf("expected BlockStatement, got %T", program.Statements[0])
	}
	if block.Name != "add" || len(block.Params) != 2 {
		t.Fatalf("unexpected block: %+v", block)
	}
	if block.Params[1].Default == nil || block.Params[1].Mandatory {
		t.Errorf("expected second param to carry a default and not be mandatory")
	}
	if block.ReturnType == nil || block.ReturnType.Name != "integer" {
		t.Errorf("unexpected return type: %+v", block.ReturnType)
	}
	if program.Blocks["add"] != block {
		t.Errorf("expected ParseProgram to register the block by name")
	}
}

func TestCallStatementVsBlockDeclDisambiguation(t *testing.T) {
	program := parseProgram(t, `call doThing(1, 2);`)
	stmt, ok := program.Statements[0].(*ast.CallStatement)
	if !ok {
		t.Fatalf("expected CallStatement, got %T", program.Statements[0])
	}
	if stmt.Name != "doThing" || len(stmt.Args) != 2 {
		t.Fatalf("unexpected call: %+v", stmt)
	}
}

func TestBareCallStatementWithoutCallKeyword(t *testing.T) {
	program := parseProgram(t, `doThing(1, 2);`)
	stmt, ok := program.Statements[0].(*ast.CallStatement)
	if !ok {
		t.Fatalf("expected CallStatement, got %T", program.Statements[0])
	}
	if stmt.Name != "doThing" || len(stmt.Args) != 2 {
		t.Fatalf("unexpected call: %+v", stmt)
	}
}

func TestTryExceptionsWithHandlers(t *testing.T) {
	program := parseProgram(t, `
try {
	call risky();
} exceptions {
	when divide_by_zero(e) {
		print "caught";
	}
}`)
	tr, ok := program.Statements[0].(*ast.Try)
	if !ok {
		t.Fatalf("expected Try, got %T", program.Statements[0])
	}
	if len(tr.Handlers) != 1 || tr.Handlers[0].Kind != "divide_by_zero" || tr.Handlers[0].Var != "e" {
		t.Fatalf("unexpected handlers: %+v", tr.Handlers)
	}
}

func TestRaiseCustomException(t *testing.T) {
	program := parseProgram(t, `raise exception OutOfStock("sku123", 42);`)
	r, ok := program.Statements[0].(*ast.Raise)
	if !ok {
		t.Fatalf("expected Raise, got %T", program.Statements[0])
	}
	if r.Kind != "OutOfStock" || len(r.Args) != 2 {
		t.Fatalf("unexpected raise: %+v", r)
	}
}

func TestCursorDeclAndOpenAndHasNext(t *testing.T) {
	program := parseProgram(t, `
cursor orders = SELECT id, total FROM orders WHERE id = :id;
open orders(id = 5);
var more: boolean = orders.hasNext();
`)
	if _, ok := program.Statements[0].(*ast.CursorDecl); !ok {
		t.Fatalf("expected CursorDecl, got %T", program.Statements[0])
	}
	open, ok := program.Statements[1].(*ast.OpenCursor)
	if !ok || open.Name != "orders" || len(open.Args) != 1 {
		t.Fatalf("unexpected open cursor statement: %+v", program.Statements[1])
	}
	decl := program.Statements[2].(*ast.VarDecl)
	if _, ok := decl.Initializer.(*ast.CursorHasNext); !ok {
		t.Fatalf("expected CursorHasNext, got %T", decl.Initializer)
	}
}

func TestJsonLiteralCapturesRawSlice(t *testing.T) {
	program := parseProgram(t, `var r: json = {"a": 1, "b": [1,2,3]};`)
	decl := program.Statements[0].(*ast.VarDecl)
	lit, ok := decl.Initializer.(*ast.JsonLiteral)
	if !ok {
		t.Fatalf("expected JsonLiteral, got %T", decl.Initializer)
	}
	if lit.Raw != `{"a": 1, "b": [1,2,3]}` {
		t.Errorf("unexpected raw slice: %q", lit.Raw)
	}
}

func TestRecordLiteralCarriesTypeName(t *testing.T) {
	program := parseProgram(t, `var p: Point = Point { x: 1, y: 2 };`)
	decl := program.Statements[0].(*ast.VarDecl)
	lit, ok := decl.Initializer.(*ast.JsonLiteral)
	if !ok {
		t.Fatalf("expected JsonLiteral, got %T", decl.Initializer)
	}
	if lit.TypeName != "Point" {
		t.Errorf("expected TypeName Point, got %q", lit.TypeName)
	}
}

func TestForEachOverCollection(t *testing.T) {
	program := parseProgram(t, `foreach item in items { print item; }`)
	fe, ok := program.Statements[0].(*ast.ForEach)
	if !ok {
		t.Fatalf("expected ForEach, got %T", program.Statements[0])
	}
	if fe.VarName != "item" || len(fe.Body.Body) != 1 {
		t.Fatalf("unexpected foreach: %+v", fe)
	}
}

func TestIndexedAssignment(t *testing.T) {
	program := parseProgram(t, `rows[0] = 5;`)
	a, ok := program.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected Assign, got %T", program.Statements[0])
	}
	idx, ok := a.Target.(*ast.Index)
	if !ok || len(idx.Indices) != 1 {
		t.Fatalf("unexpected assign target: %+v", a.Target)
	}
}

func TestCompoundAssignmentDesugarsToBinary(t *testing.T) {
	program := parseProgram(t, `x += 1;`)
	a, ok := program.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected Assign, got %T", program.Statements[0])
	}
	bin, ok := a.Value.(*ast.Binary)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected desugared + binary, got %+v", a.Value)
	}
}

func TestArrayAllocWithFixedDimension(t *testing.T) {
	program := parseProgram(t, `var rows: array.integer[10];`)
	decl := program.Statements[0].(*ast.VarDecl)
	if !decl.Type.IsArray || decl.Type.ArraySize == nil {
		t.Fatalf("unexpected array type: %+v", decl.Type)
	}
}

