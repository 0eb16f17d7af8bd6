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

type SqliteAccountRepository struct {
	BaseRepository
}

// newSqliteAccountRepository creates a new repository for account data.
func newSqliteAccountRepository(db *sql.DB) portsrepo.AccountRepositoryFacade {
	return &SqliteAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure SqliteAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*SqliteAccountRepository)(nil)

const accountColumns = `id, name, type, icon, icon_color, balance, is_primary, is_default_savings, sort_index, created_at, updated_at`

func scanAccount(row interface{ Scan(dest ...any) error }) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.Type,
		&m.Icon,
		&m.IconColor,
		&m.Balance,
		&m.IsPrimary,
		&m.IsDefaultSavings,
		&m.SortIndex,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *SqliteAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.DB.ExecContext(ctx, query,
		m.AccountID, m.Name, m.Type, m.Icon, m.IconColor, m.Balance,
		m.IsPrimary, m.IsDefaultSavings, m.SortIndex, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *SqliteAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?;`
	m, err := scanAccount(r.DB.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func (r *SqliteAccountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(name) = LOWER(?);`
	m, err := scanAccount(r.DB.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by name: %w", err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// ListAccounts orders earning accounts first, then manual sort index, then
// most recently updated.
func (r *SqliteAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY CASE WHEN type = 'earning' THEN 0 ELSE 1 END, sort_index ASC, updated_at DESC;
	`
	return r.queryAccounts(ctx, query)
}

func (r *SqliteAccountRepository) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE type = ?
		ORDER BY sort_index ASC, updated_at DESC;
	`
	return r.queryAccounts(ctx, query, string(accountType))
}

func (r *SqliteAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

func (r *SqliteAccountRepository) CountAccountsByType(ctx context.Context, accountType domain.AccountType) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE type = ?;`, string(accountType)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts of type %s: %w", accountType, err)
	}
	return count, nil
}

func (r *SqliteAccountRepository) MinSortIndex(ctx context.Context) (int, bool, error) {
	var min sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `SELECT MIN(sort_index) FROM accounts;`).Scan(&min)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read min sort index: %w", err)
	}
	if !min.Valid {
		return 0, false, nil
	}
	return int(min.Int64), true, nil
}

func (r *SqliteAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = ?, type = ?, icon = ?, icon_color = ?, is_primary = ?, sort_index = ?, updated_at = ?
		WHERE id = ?;
	`
	res, err := r.DB.ExecContext(ctx, query,
		m.Name, m.Type, m.Icon, m.IconColor, m.IsPrimary, m.SortIndex, m.UpdatedAt, m.AccountID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAccount removes the account row and hard-deletes every transaction it
// owns within one transaction. Soft-deleted entries go too; they only survive
// as long as their account does.
func (r *SqliteAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE account_id = ?;`, accountID); err != nil {
			return fmt.Errorf("failed to delete transactions for account %s: %w", accountID, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?;`, accountID)
		if err != nil {
			return fmt.Errorf("failed to delete account %s: %w", accountID, err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// SetPrimaryAccount clears every earning account's primary flag and sets the
// new one, atomically. At no observable point are there two primaries.
func (r *SqliteAccountRepository) SetPrimaryAccount(ctx context.Context, accountID string, now time.Time) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET is_primary = 0 WHERE type = 'earning' AND is_primary = 1;`); err != nil {
			return fmt.Errorf("failed to clear primary flags: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE accounts SET is_primary = 1, updated_at = ? WHERE id = ?;`, now, accountID)
		if err != nil {
			return fmt.Errorf("failed to set primary flag on %s: %w", accountID, err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}
