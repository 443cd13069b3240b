package interp

import (
	"fmt"
	"strings"

	"github.com/ebscore/ebs/value"
)

// Standard exception kinds (spec §7): every raised or propagated
// failure classifies into one of these, or a script-defined custom
// name.
const (
	KindParseError = "PARSE_ERROR"
	KindNameError  = "NAME_ERROR"
	KindTypeError  = "TYPE_ERROR"
	KindIndexError = "INDEX_ERROR"
	KindNumError   = "NUM_ERROR"
	KindIOError    = "IO_ERROR"
	KindDBError    = "DB_ERROR"
	KindCancelled  = "CANCELLED"
	KindAnyError   = "ANY_ERROR"
)

func isStandardKind(kind string) bool {
	switch kind {
	case KindParseError, KindNameError, KindTypeError, KindIndexError,
		KindNumError, KindIOError, KindDBError, KindCancelled, KindAnyError:
		return true
	default:
		return false
	}
}

// Exception is the raised-exception value spec §3.6 describes: "(kind,
// message?, payload?, originLine)". It implements error so it can
// travel up exec()/eval()'s ordinary Go error returns alongside
// break/continue/return signals, and dispatchHandlers tells them apart
// by type assertion.
type Exception struct {
	Kind    string
	Custom  bool // true for a script-defined name, not one of the standard kinds
	Message string
	Payload map[string]value.Value
	Line    int
}

func (e *Exception) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind
}

// matches implements the handler-dispatch rule (spec §7: "ANY_ERROR
// catches any standard kind, not a custom name; a custom handler
// catches only its own name").
func matches(handlerKind string, exc *Exception) bool {
	if handlerKind == KindAnyError {
		return !exc.Custom
	}
	return handlerKind == exc.Kind
}

// buildException implements `raise` (spec §4.5.1 "Raise", §7): a
// standard kind takes at most one string message and rejects
// PARSE_ERROR (never user-raisable); a custom name takes any number of
// positional arguments, stored as p1, p2, ... in Payload.
func buildException(kind string, args []value.Value, line int) (*Exception, error) {
	if isStandardKind(kind) {
		if kind == KindParseError {
			return nil, fmt.Errorf("TypeError: PARSE_ERROR cannot be raised by script code")
		}
		if len(args) > 1 {
			return nil, fmt.Errorf("TypeError: %s takes at most one message argument", kind)
		}
		msg := ""
		if len(args) == 1 {
			msg = args[0].Display()
		}
		return &Exception{Kind: kind, Message: msg, Line: line}, nil
	}
	payload := make(map[string]value.Value, len(args))
	for i, a := range args {
		payload[fmt.Sprintf("p%d", i+1)] = a
	}
	return &Exception{Kind: kind, Custom: true, Payload: payload, Line: line}, nil
}

// classifyError maps the plain `fmt.Errorf`-built errors raised
// throughout value/env/builtin/sqlcursor/parser into the structured
// taxonomy, by the "Kind:" prefix convention those packages already
// use. An unrecognized prefix defaults to ANY_ERROR rather than
// panicking: host/builtin code outside this module's control may raise
// a plain error.
func classifyError(err error, line int) *Exception {
	if exc, ok := err.(*Exception); ok {
		return exc
	}
	msg := err.Error()
	kind := KindAnyError
	switch {
	case strings.HasPrefix(msg, "ParseError:"):
		kind = KindParseError
	case strings.HasPrefix(msg, "NameError:"):
		kind = KindNameError
	case strings.HasPrefix(msg, "TypeError:"):
		kind = KindTypeError
	case strings.HasPrefix(msg, "IndexError:"):
		kind = KindIndexError
	case strings.HasPrefix(msg, "NumError:"):
		kind = KindNumError
	case strings.HasPrefix(msg, "IOError:"):
		kind = KindIOError
	case strings.HasPrefix(msg, "DBError:"):
		kind = KindDBError
	}
	return &Exception{Kind: kind, Message: msg, Line: line}
}

// AsValue builds the Record the interpreter binds to a handler's `(var)`
// parameter (spec §7): kind/message/line for a standard exception,
// p1..pN/name/line for a custom one.
func (e *Exception) AsValue(arena *value.Arena) value.Value {
	if e.Custom {
		fields := make([]string, 0, len(e.Payload)+2)
		for k := range e.Payload {
			fields = append(fields, k)
		}
		fields = append(fields, "name", "line")
		h := arena.NewRecord(e.Kind, fields)
		rec := arena.Get(h)
		for k, v := range e.Payload {
			rec.Fields[k] = v
		}
		rec.Fields["name"] = value.NewString(e.Kind)
		rec.Fields["line"] = value.NewInteger(int32(e.Line))
		return value.NewRecord(h)
	}
	h := arena.NewRecord(e.Kind, []string{"kind", "message", "line"})
	rec := arena.Get(h)
	rec.Fields["kind"] = value.NewString(e.Kind)
	rec.Fields["message"] = value.NewString(e.Message)
	rec.Fields["line"] = value.NewInteger(int32(e.Line))
	return value.NewRecord(h)
}

func errTypef(format string, args ...any) error {
	return fmt.Errorf("TypeError: "+format, args...)
}

func errNamef(format string, args ...any) error {
	return fmt.Errorf("NameError: "+format, args...)
}

func errIndexf(format string, args ...any) error {
	return fmt.Errorf("IndexError: "+format, args...)
}

func errNumf(format string, args ...any) error {
	return fmt.Errorf("NumError: "+format, args...)
}

func errDBf(format string, args ...any) error {
	return fmt.Errorf("DBError: "+format, args...)
}

func errIOf(format string, args ...any) error {
	return fmt.Errorf("IOError: "+format, args...)
}
