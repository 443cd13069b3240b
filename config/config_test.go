package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFullDocument(t *testing.T) {
	doc := `
[connection]
driver = "sqlite"
dsn = "file:test.db"

[import]
path = ["/opt/ebs/lib", "./vendor"]

[runtime]
cancel_poll_interval_ms = 250
log_level = "debug"
`
	opts, err := NewLoader().Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", opts.DefaultDriver)
	assert.Equal(t, "file:test.db", opts.DefaultDSN)
	assert.Equal(t, []string{"/opt/ebs/lib", "./vendor"}, opts.ImportPaths)
	assert.Equal(t, 250*time.Millisecond, opts.CancelPollInterval)
}

func TestLoadEmptyDocumentFillsDefaults(t *testing.T) {
	opts, err := NewLoader().Load(strings.NewReader(""))
	require.NoError(t, err)

	want := DefaultOptions()
	assert.Equal(t, want, opts)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	doc := `
[connection]
driver = "oracle"
`
	_, err := NewLoader().Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown connection driver")
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	doc := `
[runtime]
log_level = "verbose"
`
	_, err := NewLoader().Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	_, err := NewLoader().LoadFile("/nonexistent/path/does-not-exist.toml")
	require.Error(t, err)
}
