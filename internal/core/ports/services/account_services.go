package services

import (
	"context"

	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/arvindks/spendtrack/internal/dto"
)

// AccountSvcFacade defines the account registry operations exposed to the UI.
type AccountSvcFacade interface {
	// CreateAccount validates and persists a new account. The first account
	// ever created must be an earning account and becomes primary.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// GetAccountByID retrieves a single account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts returns all accounts, earning accounts first, then by
	// sort index ascending and updated_at descending.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListAccountsByType returns accounts of one type.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)

	// UpdateAccount applies rename/icon/type changes.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an unprotected account and its transactions.
	DeleteAccount(ctx context.Context, accountID string) error

	// SetPrimaryAccount makes the given earning account the single primary.
	SetPrimaryAccount(ctx context.Context, accountID string) error

	// EnsureDefaultAccounts creates the default savings account on first run.
	EnsureDefaultAccounts(ctx context.Context) error
}
