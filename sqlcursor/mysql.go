package sqlcursor

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ebscore/ebs/host"
)

// OpenMySQL opens a MySQL connection from a DSN (spec §4.7's `connect`
// spec), grounded on sqldef-sqldef/database/mysql/database.go's
// `sql.Open("mysql", dsn)` + `*sql.DB` field shape.
func OpenMySQL(dsn string) (host.Connection, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("DBError: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DBError: %w", err)
	}
	return &sqlConnection{db: db}, nil
}
