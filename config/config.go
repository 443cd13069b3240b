// Package config decodes the CLI's runtime configuration file. The
// embedding API itself never touches TOML: it takes an Options value
// directly, mirroring how smf confines TOML decoding to its own
// command layer and keeps the core schema library format-agnostic.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Options is the Go-native configuration surface cmd/ebs builds a
// session from: a default connection to fall back on when a script's
// `connect` spec omits driver/dsn, the search path `import` resolves
// relative paths against, the poll interval cooperative cancellation
// checks at, and the log level the CLI's slog handler is set to.
type Options struct {
	DefaultDriver      string
	DefaultDSN         string
	ImportPaths        []string
	CancelPollInterval time.Duration
	LogLevel           slog.Level
}

// DefaultOptions returns the zero-config session: no default
// connection, no extra import paths, a 50ms cancellation poll
// interval, info-level logging.
func DefaultOptions() Options {
	return Options{
		CancelPollInterval: 50 * time.Millisecond,
		LogLevel:           slog.LevelInfo,
	}
}

// fileConfig is the top-level TOML document, shaped like
// Pieczasz-smf's schemaFile: top-level sections rather than one flat
// bag of keys.
type fileConfig struct {
	Connection tomlConnection `toml:"connection"`
	Import     tomlImport     `toml:"import"`
	Runtime    tomlRuntime    `toml:"runtime"`
}

type tomlConnection struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

type tomlImport struct {
	Path []string `toml:"path"`
}

type tomlRuntime struct {
	CancelPollIntervalMS int    `toml:"cancel_poll_interval_ms"`
	LogLevel             string `toml:"log_level"`
}

// Loader reads the TOML runtime configuration file.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

// LoadFile opens path and decodes it, same two-step shape as
// Pieczasz-smf's toml.Parser.ParseFile delegating to Parse.
func (l *Loader) LoadFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()
	return l.Load(f)
}

func (l *Loader) Load(r io.Reader) (Options, error) {
	var fc fileConfig
	if _, err := toml.NewDecoder(r).Decode(&fc); err != nil {
		return Options{}, fmt.Errorf("config: decode error: %w", err)
	}
	return convert(&fc)
}

// convert validates the decoded document and fills in defaults for
// anything left unset, the way Pieczasz-smf's converter turns a
// schemaFile into a core.Database after structural validation.
func convert(fc *fileConfig) (Options, error) {
	opts := DefaultOptions()

	switch fc.Connection.Driver {
	case "", "mysql", "postgres", "sqlite":
	default:
		return Options{}, fmt.Errorf("config: unknown connection driver %q", fc.Connection.Driver)
	}
	opts.DefaultDriver = fc.Connection.Driver
	opts.DefaultDSN = fc.Connection.DSN
	opts.ImportPaths = fc.Import.Path

	if fc.Runtime.CancelPollIntervalMS > 0 {
		opts.CancelPollInterval = time.Duration(fc.Runtime.CancelPollIntervalMS) * time.Millisecond
	}
	if fc.Runtime.LogLevel != "" {
		lvl, err := parseLogLevel(fc.Runtime.LogLevel)
		if err != nil {
			return Options{}, err
		}
		opts.LogLevel = lvl
	}
	return opts, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown log level %q", s)
	}
}
