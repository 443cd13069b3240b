// Package diagnostics holds the one structured error type the core
// returns across its API boundary (spec §6.5): everything internal to
// lexer/parser/interp stays a plain Go error or a *interp.Exception
// until cmd/ebs needs to report it to a human.
package diagnostics

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ebscore/ebs/interp"
)

// Diagnostic is spec §6.5's `{kind, line, message, path?}`.
type Diagnostic struct {
	Kind    string
	Line    int
	Message string
	Path    string
}

func New(kind string, line int, message, path string) Diagnostic {
	return Diagnostic{Kind: kind, Line: line, Message: message, Path: path}
}

func (d Diagnostic) Error() string {
	if d.Path != "" {
		return fmt.Sprintf("%s:%d: %s: %s", d.Path, d.Line, d.Kind, d.Message)
	}
	return fmt.Sprintf("%d: %s: %s", d.Line, d.Kind, d.Message)
}

var parseErrLine = regexp.MustCompile(`^line (\d+): (.*)$`)

// FromParseErrors converts parser.Errors()'s "line N: message" strings
// into diagnostics (spec §7: "Parse/lex errors are reported before any
// execution").
func FromParseErrors(path string, errs []string) []Diagnostic {
	out := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		line := 0
		msg := e
		if m := parseErrLine.FindStringSubmatch(e); m != nil {
			line, _ = strconv.Atoi(m[1])
			msg = m[2]
		}
		out = append(out, New(interp.KindParseError, line, msg, path))
	}
	return out
}

// FromException converts an unhandled exception that reached the root
// (spec §7: "Unhandled exceptions at the root produce one error-stream
// line with kind, line, and message") into a Diagnostic.
func FromException(exc *interp.Exception, path string) Diagnostic {
	msg := exc.Message
	if exc.Custom {
		msg = exc.Error()
	}
	return New(exc.Kind, exc.Line, msg, path)
}

// FromError wraps any other Go error with kind ANY_ERROR and no line
// information. Run returns runtime errors that no try block classified
// (a "TypeError: ..." or "NumError: ..." error from evaluation, say) as
// plain errors, so they take this path, with their kind named only in
// the message text; so do errors raised outside the interpreter (e.g. a
// config/IO failure in cmd/ebs itself).
func FromError(err error, path string) Diagnostic {
	return New(interp.KindAnyError, 0, err.Error(), path)
}
