package models

import (
	"database/sql"
	"time"
)

// Transaction is the persisted row shape for a ledger entry. Amount is TEXT
// (exact decimal), EditHistory the raw JSON array mixing previous amounts and
// the "Deleted" sentinel.
type Transaction struct {
	TransactionID       string         `db:"id"`
	AccountID           string         `db:"account_id"`
	Amount              string         `db:"amount"`
	Remark              string         `db:"remark"`
	EditHistory         string         `db:"edit_history"`
	EditCount           int            `db:"edit_count"`
	IsDeleted           bool           `db:"is_deleted"`
	DeletedAt           sql.NullTime   `db:"deleted_at"`
	TransactionDate     time.Time      `db:"transaction_date"`
	CreatedAt           time.Time      `db:"created_at"`
	ReceiptPath         sql.NullString `db:"receipt_path"`
	LinkedTransactionID sql.NullString `db:"linked_transaction_id"`
}
