// Package sqlite implements the repository ports over an embedded sqlite
// database. Multi-step mutations (linked pairs, clear-then-set primary,
// account cascade deletes) run inside a single storage transaction so an
// interruption can never leave half an operation behind.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so queries can run inside or
// outside an explicit transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BaseRepository provides the shared connection and transaction plumbing.
type BaseRepository struct {
	DB *sql.DB
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (r *BaseRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// recomputeBalance rewrites an account's balance cache from the live
// transaction set inside the given transaction. The cache is never adjusted
// incrementally; summation happens over exact decimal strings, so no
// precision is lost to the storage layer.
func recomputeBalance(ctx context.Context, tx dbtx, accountID string, now time.Time) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT amount FROM transactions WHERE account_id = ? AND is_deleted = 0`, accountID)
	if err != nil {
		return fmt.Errorf("failed to read amounts for balance recompute: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("failed to scan amount for balance recompute: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			// Malformed amounts read as zero, mirroring the engine.
			continue
		}
		sum = sum.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating amounts for balance recompute: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = ?, updated_at = ? WHERE id = ?`,
		sum.String(), now, accountID)
	if err != nil {
		return fmt.Errorf("failed to write balance for account %s: %w", accountID, err)
	}
	return nil
}
