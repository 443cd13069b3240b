package main

import (
	"fmt"

	"github.com/ebscore/ebs/config"
	"github.com/ebscore/ebs/host"
	"github.com/ebscore/ebs/sqlcursor"
	"github.com/ebscore/ebs/value"
)

// cliHost layers `connect`'s driver dispatch onto ConsoleHost.
// ConsoleHost itself has no opinion on SQL drivers (DESIGN.md Open
// Question 9 notes a richer Host wires its own convention outside the
// host package); this is that convention for the CLI: a connect spec's
// `driver`/`dsn` fields pick a sqlcursor backend, falling back to the
// runtime configuration's default connection when the script omits
// either.
type cliHost struct {
	*host.ConsoleHost
	cfg config.Options
}

func newCLIHost(cfg config.Options) *cliHost {
	return &cliHost{ConsoleHost: host.NewConsoleHost(), cfg: cfg}
}

func (h *cliHost) OpenConnection(name string, spec *value.JsonNode) (host.Connection, error) {
	driver := h.cfg.DefaultDriver
	dsn := h.cfg.DefaultDSN
	if spec != nil {
		if d := spec.Get("driver"); d.Kind == value.JsonString && d.Str != "" {
			driver = d.Str
		}
		if d := spec.Get("dsn"); d.Kind == value.JsonString && d.Str != "" {
			dsn = d.Str
		}
	}
	if driver == "" {
		return nil, fmt.Errorf("DBError: connect %q: no driver specified and none configured", name)
	}
	if dsn == "" {
		return nil, fmt.Errorf("DBError: connect %q: no dsn specified and none configured", name)
	}
	switch driver {
	case "mysql":
		return sqlcursor.OpenMySQL(dsn)
	case "postgres":
		return sqlcursor.OpenPostgres(dsn)
	case "sqlite":
		return sqlcursor.OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("DBError: connect %q: unknown driver %q", name, driver)
	}
}
