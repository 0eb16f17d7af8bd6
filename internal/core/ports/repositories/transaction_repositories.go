package repositories

import (
	"context"
	"time"

	"github.com/arvindks/spendtrack/internal/core/domain"
)

// TransactionReader defines read operations for ledger entries
type TransactionReader interface {
	// FindTransactionByID retrieves a single entry.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount returns every entry for the account, soft
	// deleted rows included, ordered by transaction_date ascending with the
	// entry ID as tie-break.
	ListTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger entries. Every method
// recomputes the owning accounts' balance caches from the live transaction set
// inside the same storage transaction as the mutation itself.
type TransactionWriter interface {
	// SaveTransactions inserts one or more entries atomically. Linked pairs
	// arrive with their mutual back-references already set.
	SaveTransactions(ctx context.Context, txns []domain.Transaction) error

	// AmendTransactions applies amount/history/count updates to one or two
	// entries (a lone entry, or both halves of a pair) atomically.
	AmendTransactions(ctx context.Context, txns []domain.Transaction) error

	// UpdateRemark performs a targeted remark update without balance recompute.
	UpdateRemark(ctx context.Context, transactionID string, remark string) error

	// SoftDeleteTransactions marks one or two entries deleted atomically,
	// writing the given history values alongside.
	SoftDeleteTransactions(ctx context.Context, txns []domain.Transaction, deletedAt time.Time) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
