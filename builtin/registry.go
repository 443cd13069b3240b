// Package builtin implements the Builtin Registry (spec §4.6): a
// process-local, read-only-after-init table of native functions a script
// can call by qualified name (`string.upper`, `array.sort`, `sys.copy`,
// ...).
package builtin

import (
	"fmt"
	"sort"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/value"
)

// Invoker is the function signature every registered builtin implements.
// It receives no environment: ctx carries the arena and type lookup, and
// args holds the already-evaluated argument values.
type Invoker func(ctx *Context, args []value.Value) (value.Value, error)

// Context bundles the state a builtin needs beyond its arguments: the
// arena backing reference containers and, for builtins that allocate new
// typed values (array.asBitmap, cast-like helpers), the type registry.
type Context struct {
	Arena *value.Arena
	Types TypeLookup
}

// TypeLookup is the subset of typereg.Registry a builtin needs, kept as
// an interface here so this package does not import typereg directly.
type TypeLookup interface {
	Lookup(name string) (*ast.TypeSpec, bool)
}

// Info describes one registered builtin (spec §4.6's `BuiltinInfo`).
type Info struct {
	Name       string
	Params     []ast.Parameter // nil for dynamic (`custom.`-prefixed) families
	ReturnType *ast.TypeSpec
	Dynamic    bool
	Invoke     Invoker
}

// Registry is the read-only-after-init builtin table (spec §5
// "Concurrency": "The Builtin Registry is read-only after initialization").
type Registry struct {
	byName map[string]Info
}

// New builds the registry once per process with every representative
// category spec §4.6 names: string, array, queue, map, json, date, math,
// and sys.
func New() *Registry {
	r := &Registry{byName: map[string]Info{}}
	registerStrings(r)
	registerArrays(r)
	registerQueues(r)
	registerMaps(r)
	registerJSON(r)
	registerDate(r)
	registerMath(r)
	registerSys(r)
	return r
}

func (r *Registry) add(info Info) {
	r.byName[info.Name] = info
}

// Lookup returns a builtin's Info by its qualified name.
func (r *Registry) Lookup(name string) (Info, bool) {
	info, ok := r.byName[name]
	return info, ok
}

// Names returns every registered builtin name, sorted, for diagnostics
// and REPL completion.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Call invokes a builtin by name and returns the underlying function's
// error unchanged; an unknown name yields a NameError. The interpreter's
// classifyError turns such an error into a script exception by its
// message prefix.
func (r *Registry) Call(ctx *Context, name string, args []value.Value) (value.Value, error) {
	info, ok := r.Lookup(name)
	if !ok {
		return value.Null, fmt.Errorf("NameError: no such builtin %q", name)
	}
	return info.Invoke(ctx, args)
}

// params builds a mandatory, no-default Parameter list from plain names,
// used by the family files to describe a builtin's fixed signature.
func params(names ...string) []ast.Parameter {
	ps := make([]ast.Parameter, len(names))
	for i, n := range names {
		ps[i] = ast.Parameter{Name: n, Mandatory: true}
	}
	return ps
}
