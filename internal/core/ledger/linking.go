package ledger

import (
	"strings"

	"github.com/arvindks/spendtrack/internal/core/domain"
)

// ResolveCounterpart finds the other half of a linked pair among candidates
// drawn from peer accounts. Rows created since the explicit back-reference was
// introduced are matched by ID; legacy rows fall back to the remark/amount
// heuristic: the counterpart carries the complementary remark prefix, the same
// absolute amount with the opposite sign, and the smallest absolute timestamp
// delta to the source entry. Equal deltas resolve to the smaller ID so the
// choice is deterministic. Returns nil when no candidate qualifies.
func ResolveCounterpart(source domain.Transaction, candidates []domain.Transaction) *domain.Transaction {
	if source.LinkedTransactionID != nil {
		for i := range candidates {
			if candidates[i].TransactionID == *source.LinkedTransactionID {
				return &candidates[i]
			}
		}
		return nil
	}

	prefix := domain.CounterpartPrefix(source.Remark)
	if prefix == "" {
		return nil
	}

	sourceAbs := source.Amount.Abs()
	var best *domain.Transaction
	for i := range candidates {
		c := &candidates[i]
		if c.IsDeleted || c.AccountID == source.AccountID {
			continue
		}
		if !strings.HasPrefix(c.Remark, prefix) {
			continue
		}
		if !c.Amount.Abs().Equal(sourceAbs) {
			continue
		}
		if c.Amount.Sign() == source.Amount.Sign() {
			continue
		}
		if best == nil || closer(source, *c, *best) {
			best = c
		}
	}
	return best
}

// closer reports whether a is a strictly better counterpart match than b.
func closer(source, a, b domain.Transaction) bool {
	da := absDelta(source, a)
	db := absDelta(source, b)
	if da != db {
		return da < db
	}
	return a.TransactionID < b.TransactionID
}

func absDelta(source, other domain.Transaction) int64 {
	d := source.TransactionDate.Sub(other.TransactionDate)
	if d < 0 {
		d = -d
	}
	return int64(d)
}
