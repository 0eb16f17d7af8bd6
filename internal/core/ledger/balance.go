// Package ledger holds the pure balance-invariant and linked-entry
// computations. Functions operate on in-memory transaction slices supplied by
// the caller (the persisted set plus any hypothetical entries for the
// operation under validation) and never touch storage.
package ledger

import (
	"sort"
	"time"

	"github.com/arvindks/spendtrack/internal/apperrors"
	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// sortChronological returns a copy of entries ordered by
// (TransactionDate, TransactionID). The ID tie-break is lexicographic and is
// the single ordering used everywhere: backdated entries are supported, so
// insertion order never implies chronological order.
func sortChronological(entries []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.Before(out[j].TransactionDate)
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out
}

// Replay folds the non-deleted entries in chronological order and returns the
// final balance. It fails with apperrors.ErrNegativeBalance the moment the
// running sum goes strictly below zero at any prefix; a balance of exactly
// zero is legal.
func Replay(entries []domain.Transaction) (decimal.Decimal, error) {
	running := decimal.Zero
	for _, t := range sortChronological(entries) {
		if t.IsDeleted {
			continue
		}
		running = running.Add(t.Amount)
		if running.IsNegative() {
			return running, apperrors.ErrNegativeBalance
		}
	}
	return running, nil
}

// BalanceAsOf replays only the entries dated at or before asOf, answering how
// much is actually available at a chosen (possibly backdated) instant.
func BalanceAsOf(entries []domain.Transaction, asOf time.Time) (decimal.Decimal, error) {
	limited := make([]domain.Transaction, 0, len(entries))
	for _, e := range entries {
		if !e.TransactionDate.After(asOf) {
			limited = append(limited, e)
		}
	}
	return Replay(limited)
}

// Latest returns the chronologically latest non-deleted entry, or nil when
// the account has none.
func Latest(entries []domain.Transaction) *domain.Transaction {
	var latest *domain.Transaction
	for i := range entries {
		e := &entries[i]
		if e.IsDeleted {
			continue
		}
		if latest == nil ||
			e.TransactionDate.After(latest.TransactionDate) ||
			(e.TransactionDate.Equal(latest.TransactionDate) && e.TransactionID > latest.TransactionID) {
			latest = e
		}
	}
	return latest
}

// IsLatest reports whether the entry with the given ID is the latest
// non-deleted entry on its account. Older history is immutable once a newer
// entry exists.
func IsLatest(entries []domain.Transaction, transactionID string) bool {
	latest := Latest(entries)
	return latest != nil && latest.TransactionID == transactionID
}

// WithEntry returns entries plus the given hypothetical entries appended.
func WithEntry(entries []domain.Transaction, extra ...domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(entries)+len(extra))
	out = append(out, entries...)
	out = append(out, extra...)
	return out
}

// WithAmended returns a copy of entries with the identified entry's amount
// replaced by the proposed value.
func WithAmended(entries []domain.Transaction, transactionID string, amount decimal.Decimal) []domain.Transaction {
	out := make([]domain.Transaction, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].TransactionID == transactionID {
			out[i].Amount = amount
		}
	}
	return out
}

// WithRemoved returns a copy of entries with the identified entry marked
// deleted, modelling a candidate soft delete.
func WithRemoved(entries []domain.Transaction, transactionID string) []domain.Transaction {
	out := make([]domain.Transaction, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].TransactionID == transactionID {
			out[i].IsDeleted = true
		}
	}
	return out
}
