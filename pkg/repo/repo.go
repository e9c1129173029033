package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tx is satisfied by both pgx.Tx and *pgxpool.Pool.
type Tx interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SortBy maps a public field name onto a whitelisted SQL column.
type SortBy struct {
	Field     string
	Direction SortDirection
}

// OrderBy renders an ORDER BY clause for the given sort, restricted to the
// allowed columns. Unknown fields fall back to the default clause.
func OrderBy(sort SortBy, allowed map[string]string, fallback string) string {
	column, ok := allowed[sort.Field]
	if !ok {
		return "ORDER BY " + fallback
	}
	dir := SortAsc
	if strings.EqualFold(string(sort.Direction), string(SortDesc)) {
		dir = SortDesc
	}
	return fmt.Sprintf("ORDER BY %s %s", column, dir)
}

func FormatLimitOffset(limit, offset int) string {
	if limit > 0 && offset > 0 {
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	}
	if limit > 0 {
		return fmt.Sprintf("LIMIT %d", limit)
	}
	if offset > 0 {
		return fmt.Sprintf("OFFSET %d", offset)
	}
	return ""
}

// Join concatenates non-empty SQL fragments with a single space.
func Join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Filters accumulates WHERE conditions with positional arguments.
type Filters struct {
	where []string
	args  []any
}

func NewFilters(args ...any) *Filters {
	return &Filters{args: args}
}

// Add appends a condition; "?" in cond is replaced by the next placeholder.
func (f *Filters) Add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.where = append(f.where, strings.Replace(cond, "?", fmt.Sprintf("$%d", len(f.args)), 1))
}

// AddRaw appends a condition that takes no arguments.
func (f *Filters) AddRaw(cond string) {
	f.where = append(f.where, cond)
}

func (f *Filters) Where() string {
	if len(f.where) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.where, " AND ")
}

func (f *Filters) Args() []any {
	return f.args
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
