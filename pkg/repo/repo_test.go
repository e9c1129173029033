package repo

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestFormatLimitOffset(t *testing.T) {
	require.Equal(t, "LIMIT 10 OFFSET 20", FormatLimitOffset(10, 20))
	require.Equal(t, "LIMIT 10", FormatLimitOffset(10, 0))
	require.Equal(t, "OFFSET 5", FormatLimitOffset(0, 5))
	require.Empty(t, FormatLimitOffset(0, 0))
}

func TestFilters(t *testing.T) {
	f := NewFilters("tenant")
	f.AddRaw("tenant_id = $1")
	f.Add("name ILIKE ?", "%acme%")
	f.Add("country = ?", "DE")

	require.Equal(t, "WHERE tenant_id = $1 AND name ILIKE $2 AND country = $3", f.Where())
	require.Equal(t, []any{"tenant", "%acme%", "DE"}, f.Args())
	require.Empty(t, NewFilters().Where())
}

func TestOrderBy(t *testing.T) {
	allowed := map[string]string{"name": "v.name", "created_at": "v.created_at"}
	require.Equal(t, "ORDER BY v.name DESC", OrderBy(SortBy{Field: "name", Direction: "desc"}, allowed, "v.id"))
	require.Equal(t, "ORDER BY v.created_at ASC", OrderBy(SortBy{Field: "created_at"}, allowed, "v.id"))
	require.Equal(t, "ORDER BY v.id", OrderBy(SortBy{Field: "name; DROP TABLE"}, allowed, "v.id"))
}

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	require.True(t, IsUniqueViolation(unique))
	require.False(t, IsUniqueViolation(fk))
	require.True(t, IsForeignKeyViolation(fk))
	require.False(t, IsForeignKeyViolation(fmt.Errorf("plain")))
}
