package sqlcursor

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/ebscore/ebs/host"
)

// OpenPostgres opens a PostgreSQL connection from a DSN, grounded on
// sqldef-sqldef/database/postgres/database.go's `sql.Open("postgres",
// dsn)` shape.
func OpenPostgres(dsn string) (host.Connection, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("DBError: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DBError: %w", err)
	}
	return &sqlConnection{db: db}, nil
}
