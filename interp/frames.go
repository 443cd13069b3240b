// Package interp implements the tree-walking interpreter: statement
// execution, expression evaluation, the call stack, and the connection/
// cursor resource stacks (spec §4.5, §5).
package interp

import (
	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/env"
	"github.com/ebscore/ebs/host"
	"github.com/ebscore/ebs/value"
)

// breakSignal/continueSignal/returnSignal are control-flow carried as
// errors up the exec recursion, the same route CANCELLED and raised
// exceptions take as *Exception values; the interpreter does not use
// panic/recover.
type breakSignal struct{}

func (breakSignal) Error() string { return "break outside loop" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue outside loop" }

// returnSignal carries a block's return value back to callBlock.
type returnSignal struct {
	Value value.Value
}

func (returnSignal) Error() string { return "return outside block" }

// frame is one call-stack entry, pushed by callBlock for each block call
// and popped when the call returns. Nothing else reads the stack: Raise
// and Return do not consult it, and an unhandled exception is reported
// without a stack trace.
type frame struct {
	Name string
	Line int
	Env  *env.Environment
}

// cursorState is a declared cursor's runtime binding: its driver rows
// plus a one-row lookahead buffer so `hasNext()` can peek without
// consuming (spec §4.7: "hasNext() does not advance"; `host.Rows` only
// offers consume-then-read `Next`/`Scan`).
type cursorState struct {
	Decl  *ast.CursorDecl
	Rows  host.Rows
	Open  bool
	Conn  string // name of the connection this cursor was opened against
	ID    string // correlation id shared by this open/close log pair

	pendingHandle value.Handle
	pendingValid  bool
	pendingErr    error
	exhausted     bool
}

// fill advances the underlying Rows by one and caches the scanned
// record, if not already cached or exhausted.
func (c *cursorState) fill(arena *value.Arena) {
	if c.pendingValid || c.exhausted || c.pendingErr != nil {
		return
	}
	if !c.Rows.Next() {
		c.exhausted = true
		return
	}
	h, err := c.Rows.Scan(arena)
	if err != nil {
		c.pendingErr = err
		return
	}
	c.pendingHandle = h
	c.pendingValid = true
}

func (c *cursorState) hasNext(arena *value.Arena) (bool, error) {
	c.fill(arena)
	if c.pendingErr != nil {
		return false, c.pendingErr
	}
	return c.pendingValid, nil
}

func (c *cursorState) next(arena *value.Arena) (value.Handle, error) {
	c.fill(arena)
	if c.pendingErr != nil {
		return value.NoHandle, c.pendingErr
	}
	if !c.pendingValid {
		return value.NoHandle, errIndexf("cursor %q has no more rows", c.Decl.Name)
	}
	h := c.pendingHandle
	c.pendingValid = false
	return h, nil
}
