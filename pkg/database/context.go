package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx operations shared by a connection pool and
// an open transaction. Repositories resolve their Querier from the request
// context, so the same repository code runs against the pool for plain
// reads and against a transaction inside a unit of work.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type querierContextKey struct{}

// WithQuerier returns a context carrying the given Querier.
func WithQuerier(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, querierContextKey{}, q)
}

// GetQuerier retrieves the Querier from the context.
func GetQuerier(ctx context.Context) (Querier, bool) {
	q, ok := ctx.Value(querierContextKey{}).(Querier)
	return q, ok
}

// Scope returns a context whose Querier is the pool itself. Use for
// operations that do not need transactional grouping.
func (db *DB) Scope(ctx context.Context) context.Context {
	return WithQuerier(ctx, db.Pool)
}
