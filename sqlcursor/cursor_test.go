package sqlcursor

import (
	"testing"

	"github.com/ebscore/ebs/host"
	"github.com/ebscore/ebs/value"
	"github.com/stretchr/testify/require"
)

func TestSQLiteQueryAndScanRoundTrip(t *testing.T) {
	conn, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	sc := conn.(*sqlConnection)
	_, err = sc.db.Exec(`CREATE TABLE orders (id INTEGER, total REAL)`)
	require.NoError(t, err)
	_, err = sc.db.Exec(`INSERT INTO orders (id, total) VALUES (1, 9.5), (2, 4.0)`)
	require.NoError(t, err)

	rows, err := conn.Query(`SELECT id, total FROM orders WHERE id = ?`, []host.QueryArg{{Value: value.NewInteger(1)}})
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	arena := value.NewArena()
	h, err := rows.Scan(arena)
	require.NoError(t, err)

	rec := arena.Get(h)
	require.Equal(t, int64(1), rec.Fields["id"].Long())
	require.Equal(t, 9.5, rec.Fields["total"].AsFloat64())
	require.False(t, rows.Next())
}

func TestSQLiteNamedPlaceholderBinding(t *testing.T) {
	conn, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	sc := conn.(*sqlConnection)
	_, err = sc.db.Exec(`CREATE TABLE orders (id INTEGER, total REAL)`)
	require.NoError(t, err)
	_, err = sc.db.Exec(`INSERT INTO orders (id, total) VALUES (5, 1.0)`)
	require.NoError(t, err)

	rows, err := conn.Query(`SELECT id FROM orders WHERE id = :id`, []host.QueryArg{{Name: "id", Value: value.NewInteger(5)}})
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	arena := value.NewArena()
	h, err := rows.Scan(arena)
	require.NoError(t, err)
	require.Equal(t, int64(5), arena.Get(h).Fields["id"].Long())
}

func TestQueryOnClosedConnectionFails(t *testing.T) {
	conn, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = conn.Query(`SELECT 1`, nil)
	require.Error(t, err)
}
