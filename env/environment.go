// Package env implements the lexically scoped variable store the
// interpreter pushes and pops a frame of for each block invocation (spec
// §3.5/§4.4), plus the dedicated screen-variable mapping the Host reads
// and writes through `screenName.varName`.
package env

import (
	"fmt"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/value"
)

// Slot is a single named binding: its declared type, current value, and
// whether it was declared `const`.
type Slot struct {
	Type  *ast.TypeSpec
	Value value.Value
	Const bool
}

// Environment is `{locals: map<string, Slot>, parent?: Environment}`
// (spec §3.5). The interpreter keeps a distinct Environment instance as
// globals and pushes a fresh child for every block call and every nested
// scope (if/while/for bodies).
type Environment struct {
	locals map[string]*Slot
	parent *Environment
}

func New() *Environment {
	return &Environment{locals: map[string]*Slot{}}
}

// Push returns a new child scope sharing this environment as parent.
func (e *Environment) Push() *Environment {
	return &Environment{locals: map[string]*Slot{}, parent: e}
}

// Define creates a new binding in this frame. It fails if the name
// already exists in THIS frame (spec §4.4); shadowing an outer frame's
// binding of the same name is allowed.
func (e *Environment) Define(name string, t *ast.TypeSpec, v value.Value, isConst bool) error {
	if _, exists := e.locals[name]; exists {
		return fmt.Errorf("NameError: %q is already defined in this scope", name)
	}
	e.locals[name] = &Slot{Type: t, Value: v, Const: isConst}
	return nil
}

// Assign walks up the parent chain to find name and updates its Value,
// applying the declared type's store-time coercion (spec §4.4). Fails if
// name is undeclared anywhere on the chain, or if it is const.
func (e *Environment) Assign(name string, v value.Value) error {
	slot, owner := e.lookupSlot(name)
	if owner == nil {
		return fmt.Errorf("NameError: undefined variable %q", name)
	}
	if slot.Const {
		return fmt.Errorf("TypeError: cannot assign to const %q", name)
	}
	if slot.Type != nil {
		coerced, err := value.CoerceOnStore(v, KindOf(slot.Type))
		if err != nil {
			return err
		}
		slot.Value = coerced
	} else {
		slot.Value = v
	}
	return nil
}

// Get resolves name by walking up the parent chain.
func (e *Environment) Get(name string) (value.Value, error) {
	slot, owner := e.lookupSlot(name)
	if owner == nil {
		return value.Null, fmt.Errorf("NameError: undefined variable %q", name)
	}
	return slot.Value, nil
}

// GetSlot exposes the full Slot (type + const-ness), used by the
// interpreter for Cast-via-alias and record/bitmap validation.
func (e *Environment) GetSlot(name string) (*Slot, bool) {
	slot, owner := e.lookupSlot(name)
	return slot, owner != nil
}

func (e *Environment) lookupSlot(name string) (*Slot, *Environment) {
	for frame := e; frame != nil; frame = frame.parent {
		if s, ok := frame.locals[name]; ok {
			return s, frame
		}
	}
	return nil, nil
}

// Clear wipes every binding in this frame only, used by the Host's
// "reset" operation on the globals environment (spec §4.4).
func (e *Environment) Clear() {
	e.locals = map[string]*Slot{}
}

// KindOf maps a resolved TypeSpec to the runtime Kind its slots hold,
// used both for store-time coercion here and by the interpreter for
// const-declaration coercion and cast-via-alias dispatch.
func KindOf(t *ast.TypeSpec) value.Kind {
	switch t.Name {
	case "byte":
		return value.KindByte
	case "integer":
		return value.KindInteger
	case "long":
		return value.KindLong
	case "float":
		return value.KindFloat
	case "double":
		return value.KindDouble
	case "string":
		return value.KindString
	case "boolean":
		return value.KindBoolean
	case "json":
		return value.KindJson
	case "date":
		return value.KindDate
	}
	switch {
	case t.IsArray:
		return value.KindArray
	case t.IsQueue:
		return value.KindQueue
	case t.IsMap:
		return value.KindMap
	case t.IsRecord:
		return value.KindRecord
	case t.IsBitmap:
		return value.KindBitmap
	case t.IsIntmap:
		return value.KindIntmap
	}
	return value.KindJson
}

// ScreenVars holds the Host's UI state for one screen, keyed by variable
// name, so `screenName.varName` reads/writes resolve through a dedicated
// mapping rather than the lexical Environment chain (spec §3.5).
type ScreenVars struct {
	screens map[string]map[string]value.Value
}

func NewScreenVars() *ScreenVars {
	return &ScreenVars{screens: map[string]map[string]value.Value{}}
}

func (s *ScreenVars) Get(screen, name string) (value.Value, error) {
	vars, ok := s.screens[screen]
	if !ok {
		return value.Null, fmt.Errorf("NameError: no such screen %q", screen)
	}
	v, ok := vars[name]
	if !ok {
		return value.Null, fmt.Errorf("NameError: screen %q has no variable %q", screen, name)
	}
	return v, nil
}

func (s *ScreenVars) Set(screen, name string, v value.Value) {
	vars, ok := s.screens[screen]
	if !ok {
		vars = map[string]value.Value{}
		s.screens[screen] = vars
	}
	vars[name] = v
}
