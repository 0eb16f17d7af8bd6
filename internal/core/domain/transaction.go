package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxEditCount is the number of amount amendments an entry may receive.
const MaxEditCount = 3

// Transaction represents a single ledger entry on an account.
// Amount is signed: positive is a credit ("added"), negative a debit
// ("withdrawn"). Entries are never hard-deleted individually; IsDeleted marks
// a soft delete and the row stays visible in history.
type Transaction struct {
	TransactionID       string          `json:"transactionID"` // Primary Key (UUID)
	AccountID           string          `json:"accountID"`
	Amount              decimal.Decimal `json:"amount"`
	Remark              string          `json:"remark"`
	EditHistory         EditHistory     `json:"editHistory"`
	EditCount           int             `json:"editCount"`
	IsDeleted           bool            `json:"isDeleted"`
	DeletedAt           *time.Time      `json:"deletedAt,omitempty"`
	TransactionDate     time.Time       `json:"transactionDate"` // User supplied, never in the future
	CreatedAt           time.Time       `json:"createdAt"`
	ReceiptPath         string          `json:"receiptPath,omitempty"`
	LinkedTransactionID *string         `json:"linkedTransactionID,omitempty"` // Mutual back-reference for pairs
}

// Linked reports whether the entry is one half of a transfer or request pair,
// either by explicit back-reference or by remark convention (legacy rows).
func (t Transaction) Linked() bool {
	return t.LinkedTransactionID != nil || IsLinkedRemark(t.Remark)
}
