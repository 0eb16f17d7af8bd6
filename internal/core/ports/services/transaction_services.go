package services

import (
	"context"

	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/arvindks/spendtrack/internal/dto"
)

// TransactionSvcFacade defines the ledger-entry operations exposed to the UI.
// Every mutator validates the balance invariant before anything is written.
type TransactionSvcFacade interface {
	// Deposit credits an account.
	Deposit(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// Withdraw debits an account. On a non-earning account with insufficient
	// funds the per-account low-balance preference decides whether the
	// shortfall is auto-requested from the primary earning account, rejected,
	// or held for confirmation (apperrors.ShortfallConfirmationError).
	Withdraw(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// Transfer moves an amount between two accounts as a linked pair.
	Transfer(ctx context.Context, req dto.TransferRequest) (*domain.Transaction, error)

	// Request debits the primary earning account and credits the target as a
	// linked pair.
	Request(ctx context.Context, req dto.RequestFundsRequest) (*domain.Transaction, error)

	// AmendAmount changes an entry's amount, appending the previous absolute
	// value to its edit history. Linked entries amend both halves.
	AmendAmount(ctx context.Context, req dto.AmendTransactionRequest) (*domain.Transaction, error)

	// SetRemark updates an entry's remark text only.
	SetRemark(ctx context.Context, transactionID string, remark string) error

	// DeleteTransaction soft-deletes an entry; linked entries delete both
	// halves or neither.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// ListByAccount returns the account's full history, deleted rows included.
	ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// GetLowBalanceMode returns the account's low-balance cover mode,
	// defaulting to ask-each-time when unset.
	GetLowBalanceMode(ctx context.Context, accountID string) (string, error)

	// SetLowBalanceMode stores the account's low-balance cover mode
	// (auto, never or ask).
	SetLowBalanceMode(ctx context.Context, accountID string, mode string) error
}

// BackupNotifier receives a fire-and-forget signal after every successful
// mutation so a backup can be queued. Implementations must not block.
type BackupNotifier interface {
	NotifyMutation(ctx context.Context)
}
