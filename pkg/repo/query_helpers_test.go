package repo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoin_SkipsEmptyParts(t *testing.T) {
	require.Equal(t, "SELECT 1 WHERE a = $1 LIMIT 5", Join("SELECT 1", "", "WHERE a = $1", "  ", "LIMIT 5"))
}

func TestJoinWhere(t *testing.T) {
	require.Equal(t, "", JoinWhere())
	require.Equal(t, "WHERE a = $1 AND b = $2", JoinWhere("a = $1", "b = $2"))
}

func TestFormatLimitOffset(t *testing.T) {
	require.Equal(t, "LIMIT 10 OFFSET 5", FormatLimitOffset(10, 5))
	require.Equal(t, "LIMIT 10", FormatLimitOffset(10, 0))
	require.Equal(t, "OFFSET 5", FormatLimitOffset(0, 5))
	require.Equal(t, "", FormatLimitOffset(0, 0))
}

func TestInsert_WithReturning(t *testing.T) {
	q := Insert("planned_orders", []string{"id", "part_id", "quantity"}, "id", "created_at")
	require.Equal(t, "INSERT INTO planned_orders (id, part_id, quantity) VALUES ($1, $2, $3) RETURNING id, created_at", q)
}

func TestExists(t *testing.T) {
	require.Equal(t, "SELECT EXISTS (SELECT 1 FROM parts WHERE id = $1)", Exists("SELECT 1 FROM parts WHERE id = $1"))
}

func TestBatchInsertQueryN(t *testing.T) {
	q, args := BatchInsertQueryN("INSERT INTO mrp_pegging (a, b) VALUES", [][]interface{}{
		{1, "x"},
		{2, "y"},
		{3, "z"},
	})
	require.Equal(t, "INSERT INTO mrp_pegging (a, b) VALUES ($1, $2), ($3, $4), ($5, $6)", q)
	require.Equal(t, []interface{}{1, "x", 2, "y", 3, "z"}, args)
}

func TestBatchInsertQueryN_Empty(t *testing.T) {
	q, args := BatchInsertQueryN("INSERT INTO mrp_pegging (a) VALUES", nil)
	require.Equal(t, "INSERT INTO mrp_pegging (a) VALUES", q)
	require.Nil(t, args)
}
