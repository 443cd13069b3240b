package host

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ebscore/ebs/value"
)

// ConsoleHost is the default Host used by cmd/ebs's `run`/`repl`
// subcommands: it prints to stdout/stderr and has no real screen system,
// so screen operations are logged rather than rendered.
type ConsoleHost struct {
	Out       io.Writer
	Err       io.Writer
	Log       *slog.Logger
	cancelled bool

	screens map[string]*value.JsonNode
}

func NewConsoleHost() *ConsoleHost {
	return &ConsoleHost{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Log:     slog.Default(),
		screens: map[string]*value.JsonNode{},
	}
}

func (h *ConsoleHost) Print(stream Stream, text string) {
	switch stream {
	case StreamError:
		fmt.Fprintln(h.Err, text)
	case StreamWarn:
		h.Log.Warn(text)
	default:
		fmt.Fprintln(h.Out, text)
	}
}

func (h *ConsoleHost) DefineScreen(name string, specJSON *value.JsonNode, replace bool) error {
	if _, exists := h.screens[name]; exists && !replace {
		return nil
	}
	h.screens[name] = specJSON
	h.Log.Debug("screen defined", "name", name)
	return nil
}

func (h *ConsoleHost) ShowScreen(name string, args []value.Value, callback ShowScreenCallback) error {
	h.Log.Info("show screen", "name", name)
	if callback != nil {
		callback(args)
	}
	return nil
}

func (h *ConsoleHost) HideScreen(name string) error {
	h.Log.Debug("hide screen", "name", name)
	return nil
}

func (h *ConsoleHost) CloseScreen(name string) error {
	h.Log.Debug("close screen", "name", name)
	return nil
}

func (h *ConsoleHost) SubmitScreen(name string) error {
	h.Log.Debug("submit screen", "name", name)
	return nil
}

func (h *ConsoleHost) GetScreenVar(screen, varName string) (value.Value, error) {
	return value.Null, fmt.Errorf("NameError: console host has no screen variables")
}

func (h *ConsoleHost) SetScreenVar(screen, varName string, v value.Value) error {
	return fmt.Errorf("NameError: console host has no screen variables")
}

func (h *ConsoleHost) OpenConnection(name string, spec *value.JsonNode) (Connection, error) {
	return nil, fmt.Errorf("DBError: console host does not open connections; use sqlcursor directly")
}

func (h *ConsoleHost) CloseConnection(name string) error {
	return nil
}

func (h *ConsoleHost) Now() time.Time { return time.Now() }

func (h *ConsoleHost) IsCancelled() bool { return h.cancelled }

// Cancel requests cooperative cancellation (spec §5); the interpreter
// checks IsCancelled at each statement boundary.
func (h *ConsoleHost) Cancel() { h.cancelled = true }
