package parser

import (
	"fmt"

	"github.com/ebscore/ebs/ast"
)

// BuiltinSignature describes one builtin's formal parameters and
// return type, as published by the Builtin Registry (spec §4.6). The
// parser only needs enough of the registry's shape to bind calls; it
// does not execute builtins.
type BuiltinSignature struct {
	Name       string
	Params     []ast.Parameter
	ReturnType *ast.TypeSpec
	Dynamic    bool // true for the custom.* family: positional-only, no formals to match
}

// Bind performs the two-phase post-parse binding pass (spec §4.2
// "Two-phase binding"): every Call node's callee is resolved against
// the block table first, then the supplied builtin table; unresolved
// calls are left for the interpreter to retry at run time (this is
// what makes runtime `import` work). The traversal mirrors
// ast.Inspector's walk but mutates Call nodes in place rather than
// collecting them.
func Bind(program *ast.Program, builtins map[string]BuiltinSignature) []error {
	b := &binder{blocks: program.Blocks, builtins: builtins}
	ast.Walk(b, program)
	return b.errors
}

type binder struct {
	blocks   map[string]*ast.BlockStatement
	builtins map[string]BuiltinSignature
	errors   []error
}

func (b *binder) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.CallExpr:
		b.bindCallExpr(n)
	case *ast.CallStatement:
		b.bindCallStatement(n)
	}
	return b
}

func (b *binder) bindCallExpr(n *ast.CallExpr) {
	if block, ok := b.blocks[n.Name]; ok {
		n.ResolvedBlock = block
		b.bindArgs(n.Name, block.Params, n.Args, n.Line())
		return
	}
	if sig, ok := b.builtins[n.Name]; ok {
		n.ResolvedBuiltin = true
		n.ResolvedBuiltinName = n.Name
		if !sig.Dynamic {
			b.bindArgs(n.Name, sig.Params, n.Args, n.Line())
		}
		return
	}
	// Left unresolved: the interpreter retries at call time to support
	// blocks introduced by a runtime `import`.
}

func (b *binder) bindCallStatement(n *ast.CallStatement) {
	if block, ok := b.blocks[n.Name]; ok {
		n.ResolvedBlock = block
		b.bindArgs(n.Name, block.Params, n.Args, n.Line())
		return
	}
	if sig, ok := b.builtins[n.Name]; ok {
		n.ResolvedBuiltin = true
		if !sig.Dynamic {
			b.bindArgs(n.Name, sig.Params, n.Args, n.Line())
		}
	}
}

func (b *binder) bindArgs(name string, formals []ast.Parameter, actuals []ast.Argument, line int) {
	if _, err := MatchParameters(formals, actuals); err != nil {
		b.errors = append(b.errors, fmt.Errorf("line %d: call to %q: %w", line, name, err))
	}
}
