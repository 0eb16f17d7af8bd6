package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arvindks/spendtrack/internal/apperrors"
	"github.com/arvindks/spendtrack/internal/core/domain"
	portsrepo "github.com/arvindks/spendtrack/internal/core/ports/repositories"
	"github.com/arvindks/spendtrack/internal/models"
	"github.com/arvindks/spendtrack/internal/utils/mapping"
)

type SqliteTransactionRepository struct {
	BaseRepository
}

// newSqliteTransactionRepository creates a new repository for ledger entries.
func newSqliteTransactionRepository(db *sql.DB) portsrepo.TransactionRepositoryFacade {
	return &SqliteTransactionRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure SqliteTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*SqliteTransactionRepository)(nil)

const transactionColumns = `id, account_id, amount, remark, edit_history, edit_count, is_deleted, deleted_at, transaction_date, created_at, receipt_path, linked_transaction_id`

func scanTransaction(row interface{ Scan(dest ...any) error }) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.Amount,
		&m.Remark,
		&m.EditHistory,
		&m.EditCount,
		&m.IsDeleted,
		&m.DeletedAt,
		&m.TransactionDate,
		&m.CreatedAt,
		&m.ReceiptPath,
		&m.LinkedTransactionID,
	)
	return m, err
}

func (r *SqliteTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?;`
	m, err := scanTransaction(r.DB.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactionsByAccount returns every entry the account owns, soft
// deleted rows included, in replay order.
func (r *SqliteTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = ?
		ORDER BY transaction_date ASC, id ASC;
	`
	rows, err := r.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(txns), nil
}

// SaveTransactions inserts the batch and refreshes every touched account's
// balance cache inside one storage transaction. A crash leaves either the
// whole batch visible or none of it.
func (r *SqliteTransactionRepository) SaveTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO transactions (` + transactionColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`
		for _, txn := range txns {
			m := mapping.ToModelTransaction(txn)
			_, err := tx.ExecContext(ctx, query,
				m.TransactionID, m.AccountID, m.Amount, m.Remark, m.EditHistory,
				m.EditCount, m.IsDeleted, m.DeletedAt, m.TransactionDate,
				m.CreatedAt, m.ReceiptPath, m.LinkedTransactionID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
			}
		}
		return r.recomputeBalances(ctx, tx, txns, now)
	})
}

// AmendTransactions writes the updated amount, history and edit count for each
// entry and refreshes the touched balance caches, all in one transaction.
func (r *SqliteTransactionRepository) AmendTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE transactions
			SET amount = ?, remark = ?, edit_history = ?, edit_count = ?
			WHERE id = ?;
		`
		for _, txn := range txns {
			m := mapping.ToModelTransaction(txn)
			res, err := tx.ExecContext(ctx, query,
				m.Amount, m.Remark, m.EditHistory, m.EditCount, m.TransactionID)
			if err != nil {
				return fmt.Errorf("failed to amend transaction %s: %w", m.TransactionID, err)
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return apperrors.ErrNotFound
			}
		}
		return r.recomputeBalances(ctx, tx, txns, now)
	})
}

func (r *SqliteTransactionRepository) UpdateRemark(ctx context.Context, transactionID string, remark string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE transactions SET remark = ? WHERE id = ?;`, remark, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update remark on %s: %w", transactionID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDeleteTransactions marks the entries deleted, keeping the rows so the
// edit history stays auditable, then refreshes the touched balance caches.
func (r *SqliteTransactionRepository) SoftDeleteTransactions(ctx context.Context, txns []domain.Transaction, deletedAt time.Time) error {
	if len(txns) == 0 {
		return nil
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE transactions
			SET is_deleted = 1, deleted_at = ?, edit_history = ?
			WHERE id = ?;
		`
		for _, txn := range txns {
			m := mapping.ToModelTransaction(txn)
			res, err := tx.ExecContext(ctx, query, deletedAt, m.EditHistory, m.TransactionID)
			if err != nil {
				return fmt.Errorf("failed to soft delete transaction %s: %w", m.TransactionID, err)
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return apperrors.ErrNotFound
			}
		}
		return r.recomputeBalances(ctx, tx, txns, deletedAt)
	})
}

// recomputeBalances refreshes the cache for every distinct account in the batch.
func (r *SqliteTransactionRepository) recomputeBalances(ctx context.Context, tx dbtx, txns []domain.Transaction, now time.Time) error {
	seen := map[string]struct{}{}
	for _, txn := range txns {
		if _, ok := seen[txn.AccountID]; ok {
			continue
		}
		seen[txn.AccountID] = struct{}{}
		if err := recomputeBalance(ctx, tx, txn.AccountID, now); err != nil {
			return err
		}
	}
	return nil
}
