package parser

import (
	"fmt"

	"github.com/ebscore/ebs/ast"
)

// MatchParameters normalizes actuals against formals per spec §4.2.1:
// positional and named arguments cannot mix in one call, named actuals
// bind by exact (case-sensitive) name, missing formals adopt their
// default or fail if mandatory, and excess positionals fail. The
// result is a slice of ast.Parameter in formals order, each carrying
// the bound value as its Default expression — this becomes the
// synthetic paramInit the interpreter runs in the callee's new frame.
func MatchParameters(formals []ast.Parameter, actuals []ast.Argument) ([]ast.Parameter, error) {
	named, positional, err := splitActuals(actuals)
	if err != nil {
		return nil, err
	}

	if len(named) > 0 {
		return matchNamed(formals, named)
	}
	return matchPositional(formals, positional)
}

func splitActuals(actuals []ast.Argument) (named, positional []ast.Argument, err error) {
	for _, a := range actuals {
		if a.Name != "" {
			named = append(named, a)
		} else {
			positional = append(positional, a)
		}
	}
	if len(named) > 0 && len(positional) > 0 {
		return nil, nil, fmt.Errorf("ParseError: positional and named arguments cannot be mixed in one call")
	}
	return named, positional, nil
}

func matchNamed(formals []ast.Parameter, named []ast.Argument) ([]ast.Parameter, error) {
	byName := make(map[string]ast.Expression, len(named))
	for _, a := range named {
		byName[a.Name] = a.Value
	}
	for name := range byName {
		if !hasFormal(formals, name) {
			return nil, fmt.Errorf("ParseError: unknown named parameter %q", name)
		}
	}

	out := make([]ast.Parameter, len(formals))
	for i, f := range formals {
		bound := f
		if v, ok := byName[f.Name]; ok {
			bound.Default = v
		} else if f.Default != nil {
			// keep the formal's own default expression
		} else if f.Mandatory {
			return nil, fmt.Errorf("ParseError: Missing parameters: %q has no default and was not supplied", f.Name)
		}
		out[i] = bound
	}
	return out, nil
}

func matchPositional(formals []ast.Parameter, positional []ast.Argument) ([]ast.Parameter, error) {
	if len(positional) > len(formals) {
		return nil, fmt.Errorf("ParseError: Too many value parameters: expected at most %d, got %d", len(formals), len(positional))
	}

	out := make([]ast.Parameter, len(formals))
	for i, f := range formals {
		bound := f
		if i < len(positional) {
			bound.Default = positional[i].Value
		} else if f.Default != nil {
			// keep the formal's own default expression
		} else if f.Mandatory {
			return nil, fmt.Errorf("ParseError: Missing parameters: %q has no default and was not supplied", f.Name)
		}
		out[i] = bound
	}
	return out, nil
}

func hasFormal(formals []ast.Parameter, name string) bool {
	for _, f := range formals {
		if f.Name == name {
			return true
		}
	}
	return false
}
