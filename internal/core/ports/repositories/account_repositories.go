package repositories

import (
	"context"
	"time"

	"github.com/arvindks/spendtrack/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByName retrieves an account by name, compared case-insensitively.
	FindAccountByName(ctx context.Context, name string) (*domain.Account, error)

	// ListAccounts retrieves all accounts ordered earning-first, then by
	// sort_index ascending, then updated_at descending.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListAccountsByType retrieves all accounts of a given type.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)

	// CountAccountsByType counts accounts of a given type.
	CountAccountsByType(ctx context.Context, accountType domain.AccountType) (int, error)

	// MinSortIndex returns the smallest sort index in use, with ok=false when
	// no accounts exist.
	MinSortIndex(ctx context.Context) (int, bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes the account row and hard-deletes its transactions
	// within a single storage transaction.
	DeleteAccount(ctx context.Context, accountID string) error

	// SetPrimaryAccount clears the primary flag on every earning account and
	// sets it on the given account, atomically.
	SetPrimaryAccount(ctx context.Context, accountID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
