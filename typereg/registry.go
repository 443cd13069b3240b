// Package typereg implements the process-local type alias table (spec
// §4.3): a mapping from alias name to the TypeSpec it names, populated
// by typedef statements as the parser encounters them so that later
// declarations can resolve the name immediately.
package typereg

import (
	"fmt"

	"github.com/ebscore/ebs/ast"
)

// Registry owns the set of user-defined type aliases for one parse
// (and, by extension, one interpreter session: aliases never expire).
// It is deliberately mutable and owned by the caller rather than a
// package-level global, so multiple parsers/interpreters can run in
// the same process without sharing state.
type Registry struct {
	aliases map[string]*ast.TypeSpec
	order   []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{aliases: make(map[string]*ast.TypeSpec)}
}

// Define registers name as an alias for spec. Redefining an existing
// name overwrites it; EBS has no notion of sealed or frozen aliases.
func (r *Registry) Define(name string, spec *ast.TypeSpec) {
	if _, exists := r.aliases[name]; !exists {
		r.order = append(r.order, name)
	}
	r.aliases[name] = spec
}

// Lookup returns the TypeSpec registered for name, if any.
func (r *Registry) Lookup(name string) (*ast.TypeSpec, bool) {
	spec, ok := r.aliases[name]
	return spec, ok
}

// Resolve walks TypeSpec.Name through the alias table until it reaches
// a primitive or composite spec that is not itself an alias reference,
// returning an error on an undefined name or a self-referential cycle.
func (r *Registry) Resolve(spec *ast.TypeSpec) (*ast.TypeSpec, error) {
	seen := make(map[string]bool)
	cur := spec
	for cur != nil && cur.Alias {
		if seen[cur.Name] {
			return nil, fmt.Errorf("typereg: alias cycle detected at %q", cur.Name)
		}
		seen[cur.Name] = true
		next, ok := r.aliases[cur.Name]
		if !ok {
			return nil, fmt.Errorf("typereg: undefined type alias %q", cur.Name)
		}
		cur = next
	}
	return cur, nil
}

// Names returns every registered alias name in definition order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// IsBitPacked reports whether the alias resolves to a bitmap or intmap
// type, which the interpreter needs to know when projecting a Byte or
// Integer value through a cast-via-alias (spec §4.5.2 "Cast").
func (r *Registry) IsBitPacked(name string) bool {
	spec, ok := r.aliases[name]
	if !ok {
		return false
	}
	resolved, err := r.Resolve(spec)
	if err != nil {
		return false
	}
	return resolved.IsBitmap || resolved.IsIntmap
}
