// Package host defines the capability interface the interpreter consumes
// for everything outside the language core itself: output streams,
// screens, connections, the wall clock, and cooperative cancellation
// (spec §6.2).
package host

import (
	"time"

	"github.com/ebscore/ebs/value"
)

// Stream names the four output channels a script can print to (spec
// §6.2: "stream ∈ {info, warn, error, ok}").
type Stream string

const (
	StreamInfo  Stream = "info"
	StreamWarn  Stream = "warn"
	StreamError Stream = "error"
	StreamOK    Stream = "ok"
)

// Connection is the capability surface the SQL/cursor subsystem drives
// (spec §4.7, §6.1's "Connection"); concrete backends live in package
// sqlcursor.
type Connection interface {
	// Query runs a SELECT, substituting named (":name") or positional
	// ("?") placeholders from args, and returns a driver-agnostic row
	// iterator.
	Query(sqlText string, args []QueryArg) (Rows, error)
	Close() error
}

// QueryArg is one bound cursor argument (spec §4.7: "open cur(p1, p2=v,
// …)"); Name is empty for a positional actual.
type QueryArg struct {
	Name  string
	Value value.Value
}

// Rows is the minimal iterator surface `cursor.hasNext()`/`.next()` need.
type Rows interface {
	Next() bool
	// Scan reads the current row into a Record built from the arena,
	// returning its handle. Implementations infer field names from
	// column names and EBS DataType from SQL column types (spec §4.7).
	Scan(arena *value.Arena) (value.Handle, error)
	Columns() ([]string, error)
	Close() error
}

// ShowScreenCallback is invoked by the Host once a shown screen finishes
// (e.g. the user submits or dismisses it), synchronously on the
// interpreter's thread (spec §5: "queued and dispatched synchronously").
type ShowScreenCallback func(args []value.Value)

// Host is everything the interpreter calls outward into (spec §6.2).
type Host interface {
	Print(stream Stream, text string)

	DefineScreen(name string, specJSON *value.JsonNode, replace bool) error
	ShowScreen(name string, args []value.Value, callback ShowScreenCallback) error
	HideScreen(name string) error
	CloseScreen(name string) error
	SubmitScreen(name string) error
	GetScreenVar(screen, varName string) (value.Value, error)
	SetScreenVar(screen, varName string, v value.Value) error

	OpenConnection(name string, spec *value.JsonNode) (Connection, error)
	CloseConnection(name string) error

	Now() time.Time
	IsCancelled() bool
}
