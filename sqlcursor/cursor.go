// Package sqlcursor backs the `Connection`/`Cursor` contracts of spec
// §4.7/§6.1 with real `database/sql` drivers, grounded on
// sqldef-sqldef/database/{mysql,postgres,sqlite3}'s `sql.Open` + `*sql.DB`
// field shape.
package sqlcursor

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/ebscore/ebs/host"
	"github.com/ebscore/ebs/value"
)

// sqlRows adapts *sql.Rows to the host.Rows contract, inferring an EBS
// Record from column names/types the way
// sqldef-sqldef/database/mysql/database.go's rows.Scan usage inspects
// columns, adapted here to build value.Record values instead of DDL text.
type sqlRows struct {
	rows *sql.Rows
	cols []string
}

func (r *sqlRows) Next() bool { return r.rows.Next() }

func (r *sqlRows) Columns() ([]string, error) {
	if r.cols != nil {
		return r.cols, nil
	}
	cols, err := r.rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("DBError: %w", err)
	}
	r.cols = cols
	return cols, nil
}

func (r *sqlRows) Scan(arena *value.Arena) (value.Handle, error) {
	cols, err := r.Columns()
	if err != nil {
		return value.NoHandle, err
	}
	dest := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return value.NoHandle, fmt.Errorf("TypeError: row scan failed: %w", err)
	}
	h := arena.NewRecord("", cols)
	rec := arena.Get(h)
	for i, col := range cols {
		rec.Fields[col] = sqlValueToEBS(dest[i])
	}
	return h, nil
}

func (r *sqlRows) Close() error { return r.rows.Close() }

// sqlValueToEBS infers an EBS Value's Kind from a driver-returned Go
// value (spec §4.7: "SQL types → the nearest DataType").
func sqlValueToEBS(v interface{}) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Null
	case int64:
		return value.NewLong(x)
	case float64:
		return value.NewDouble(x)
	case bool:
		return value.NewBoolean(x)
	case []byte:
		return value.NewString(string(x))
	case string:
		return value.NewString(x)
	default:
		return value.NewString(fmt.Sprintf("%v", x))
	}
}

// sqlConnection adapts a *sql.DB to host.Connection.
type sqlConnection struct {
	db *sql.DB
}

var namedPlaceholder = regexp.MustCompile(`:(\w+)`)

// bindArgs resolves `open cur(p1, p2=v, ...)` style arguments into
// driver-ready positional values, substituting named `:name`
// placeholders in source order the way spec §4.7 describes. Purely
// positional args (no Name set on any QueryArg) are passed straight
// through for a `?`-placeholder query text.
func bindArgs(sqlText string, args []host.QueryArg) (string, []interface{}) {
	named := false
	for _, a := range args {
		if a.Name != "" {
			named = true
			break
		}
	}
	if !named {
		vals := make([]interface{}, len(args))
		for i, a := range args {
			vals[i] = toDriverValue(a.Value)
		}
		return sqlText, vals
	}
	byName := make(map[string]value.Value, len(args))
	for _, a := range args {
		byName[a.Name] = a.Value
	}
	var ordered []interface{}
	rewritten := namedPlaceholder.ReplaceAllStringFunc(sqlText, func(m string) string {
		name := strings.TrimPrefix(m, ":")
		ordered = append(ordered, toDriverValue(byName[name]))
		return "?"
	})
	return rewritten, ordered
}

func toDriverValue(v value.Value) interface{} {
	switch v.Kind {
	case value.KindNull:
		return nil
	case value.KindBoolean:
		return v.Bool()
	case value.KindString:
		return v.Str()
	case value.KindDate:
		return v.Time()
	default:
		if v.IsNumeric() {
			return v.AsFloat64()
		}
		return v.Display()
	}
}

func (c *sqlConnection) Query(sqlText string, args []host.QueryArg) (host.Rows, error) {
	rewritten, vals := bindArgs(sqlText, args)
	rows, err := c.db.Query(rewritten, vals...)
	if err != nil {
		return nil, fmt.Errorf("DBError: %w", err)
	}
	return &sqlRows{rows: rows}, nil
}

func (c *sqlConnection) Close() error {
	return c.db.Close()
}
