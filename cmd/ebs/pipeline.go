package main

import (
	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/diagnostics"
	"github.com/ebscore/ebs/lexer"
	"github.com/ebscore/ebs/parser"
	"github.com/ebscore/ebs/source"
)

// parseProgram runs the lex-then-parse stage shared by `run` and
// `check`, reporting lex/parse failures before any binding or
// execution is attempted (spec §7: "Parse/lex errors are reported
// before any execution").
func parseProgram(path, src string) (*parser.Parser, *ast.Program, []diagnostics.Diagnostic) {
	l := lexer.New(src)
	buf := source.New(path, src)
	p := parser.New(l, buf)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, nil, diagnostics.FromParseErrors(path, errs)
	}
	return p, program, nil
}

func bindErrorsToLines(errs []error) []string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return lines
}
