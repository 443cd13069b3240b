package host

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/ebscore/ebs/value"
)

func newTestHost() (*ConsoleHost, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	h := &ConsoleHost{Out: out, Err: errOut, Log: slog.Default(), screens: map[string]*value.JsonNode{}}
	return h, out, errOut
}

func TestPrintRoutesErrorStreamToErrWriter(t *testing.T) {
	h, out, errOut := newTestHost()
	h.Print(StreamError, "boom")
	if errOut.Len() == 0 {
		t.Errorf("expected error stream to write to Err")
	}
	if out.Len() != 0 {
		t.Errorf("expected error stream to not write to Out")
	}
}

func TestPrintRoutesInfoStreamToOutWriter(t *testing.T) {
	h, out, _ := newTestHost()
	h.Print(StreamInfo, "hello")
	if out.String() != "hello\n" {
		t.Errorf("unexpected out content: %q", out.String())
	}
}

func TestDefineScreenIsIdempotentWithoutReplace(t *testing.T) {
	h, _, _ := newTestHost()
	first := &value.JsonNode{Kind: value.JsonObject}
	second := &value.JsonNode{Kind: value.JsonObject}
	h.DefineScreen("home", first, false)
	h.DefineScreen("home", second, false)
	if h.screens["home"] != first {
		t.Errorf("expected the first definition to survive without replace=true")
	}
}

func TestDefineScreenReplacesWhenRequested(t *testing.T) {
	h, _, _ := newTestHost()
	first := &value.JsonNode{Kind: value.JsonObject}
	second := &value.JsonNode{Kind: value.JsonObject}
	h.DefineScreen("home", first, false)
	h.DefineScreen("home", second, true)
	if h.screens["home"] != second {
		t.Errorf("expected replace=true to overwrite the definition")
	}
}

func TestCancelFlipsIsCancelled(t *testing.T) {
	h, _, _ := newTestHost()
	if h.IsCancelled() {
		t.Fatalf("expected not cancelled initially")
	}
	h.Cancel()
	if !h.IsCancelled() {
		t.Errorf("expected IsCancelled to be true after Cancel")
	}
}
