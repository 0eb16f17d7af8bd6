package mapping

import (
	"database/sql"
	"encoding/json"

	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/arvindks/spendtrack/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:   d.TransactionID,
		AccountID:       d.AccountID,
		Amount:          d.Amount.String(),
		Remark:          d.Remark,
		EditHistory:     marshalEditHistory(d.EditHistory),
		EditCount:       d.EditCount,
		IsDeleted:       d.IsDeleted,
		TransactionDate: d.TransactionDate,
		CreatedAt:       d.CreatedAt,
	}
	if d.DeletedAt != nil {
		m.DeletedAt = sql.NullTime{Time: *d.DeletedAt, Valid: true}
	}
	if d.ReceiptPath != "" {
		m.ReceiptPath = sql.NullString{String: d.ReceiptPath, Valid: true}
	}
	if d.LinkedTransactionID != nil {
		m.LinkedTransactionID = sql.NullString{String: *d.LinkedTransactionID, Valid: true}
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
// An unparseable amount reads as zero rather than failing the whole row.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		amount = decimal.Zero
	}
	d := domain.Transaction{
		TransactionID:   m.TransactionID,
		AccountID:       m.AccountID,
		Amount:          amount,
		Remark:          m.Remark,
		EditHistory:     unmarshalEditHistory(m.EditHistory),
		EditCount:       m.EditCount,
		IsDeleted:       m.IsDeleted,
		TransactionDate: m.TransactionDate,
		CreatedAt:       m.CreatedAt,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		d.DeletedAt = &t
	}
	if m.ReceiptPath.Valid {
		d.ReceiptPath = m.ReceiptPath.String
	}
	if m.LinkedTransactionID.Valid {
		id := m.LinkedTransactionID.String
		d.LinkedTransactionID = &id
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

func marshalEditHistory(h domain.EditHistory) string {
	if len(h) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// unmarshalEditHistory tolerates malformed stored history by returning an
// empty list; the entry itself stays usable.
func unmarshalEditHistory(raw string) domain.EditHistory {
	if raw == "" {
		return domain.EditHistory{}
	}
	var h domain.EditHistory
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return domain.EditHistory{}
	}
	return h
}
