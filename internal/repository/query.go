package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-service/internal/pagination"
)

// conditions accumulates a WHERE clause with positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

// add appends expr, where %d is replaced by the placeholder index of v.
func (c *conditions) add(expr string, v any) {
	c.args = append(c.args, v)
	c.clauses = append(c.clauses, fmt.Sprintf(expr, len(c.args)))
}

func (c *conditions) raw(expr string) {
	c.clauses = append(c.clauses, expr)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// keyset applies the window and returns the ordering tail of the query.
func (c *conditions) keyset(w pagination.Window, idColumn string) string {
	if w.AfterID != "" {
		c.add(idColumn+" > $%d", w.AfterID)
	}
	tail := " ORDER BY " + idColumn + " ASC"
	if w.Limit > 0 {
		c.args = append(c.args, w.Limit)
		tail += fmt.Sprintf(" LIMIT $%d", len(c.args))
	}
	return tail
}

// exists runs SELECT EXISTS over table with the accumulated conditions plus id.
func exists(ctx context.Context, pool *pgxpool.Pool, table string, c conditions, id string) (bool, error) {
	c.add("id = $%d", id)
	query := "SELECT EXISTS (SELECT 1 FROM " + table + c.where() + ")"

	var found bool
	if err := conn(ctx, pool).QueryRow(ctx, query, c.args...).Scan(&found); err != nil {
		return false, translate(err)
	}
	return found, nil
}
