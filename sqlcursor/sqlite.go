package sqlcursor

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
	"github.com/ebscore/ebs/host"
)

// OpenSQLite opens a SQLite connection from a file path (or ":memory:"),
// grounded on sqldef-sqldef/database/sqlite3/database.go's `sql.Open`
// shape. Used by the CLI host's "sqlite" driver (shared by `cmd/ebs run`,
// `check` and `repl`) and by cursor tests, since modernc.org/sqlite is
// pure Go and needs neither cgo nor a network connection.
func OpenSQLite(path string) (host.Connection, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("DBError: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DBError: %w", err)
	}
	return &sqlConnection{db: db}, nil
}
