package database

import (
	"context"
	"fmt"
)

// WithTx runs fn inside a single transaction. The transaction is carried on
// the context as the Querier, so every repository call made by fn joins the
// same unit of work. Any error from fn rolls the whole transaction back and
// is returned unchanged; otherwise the transaction commits before WithTx
// returns. Transactions do not nest.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	if err := fn(WithQuerier(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
