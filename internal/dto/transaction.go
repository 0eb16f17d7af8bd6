package dto

import (
	"time"

	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest carries a deposit or withdrawal. Amount is always
// positive; the operation decides the sign. Date must not be in the future.
type CreateTransactionRequest struct {
	AccountID   string          `json:"-"` // From the URL, set by the handler
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Remark      string          `json:"remark"`
	Date        time.Time       `json:"date" binding:"required"`
	ReceiptPath string          `json:"receiptPath"`
	// ConfirmCover acknowledges an earlier ShortfallConfirmationError and
	// allows the shortfall to be requested from the primary earning account.
	ConfirmCover bool `json:"confirmCover"`
}

// TransferRequest moves an amount between two accounts as a linked pair.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          time.Time       `json:"date" binding:"required"`
}

// RequestFundsRequest debits the primary earning account and credits the
// target account as a linked pair.
type RequestFundsRequest struct {
	TargetAccountID string          `json:"targetAccountID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Date            time.Time       `json:"date" binding:"required"`
}

// AmendTransactionRequest changes an entry's amount. Amount is the new
// absolute value; the entry keeps its sign.
type AmendTransactionRequest struct {
	TransactionID string          `json:"-"` // From the URL, set by the handler
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// SetRemarkRequest updates an entry's remark text.
type SetRemarkRequest struct {
	Remark string `json:"remark" binding:"required"`
}

// SetLowBalanceModeRequest stores an account's low-balance cover mode.
type SetLowBalanceModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=auto never ask"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID       string             `json:"transactionID"`
	AccountID           string             `json:"accountID"`
	Amount              decimal.Decimal    `json:"amount"`
	Remark              string             `json:"remark"`
	EditHistory         domain.EditHistory `json:"editHistory"`
	EditCount           int                `json:"editCount"`
	IsDeleted           bool               `json:"isDeleted"`
	DeletedAt           *time.Time         `json:"deletedAt,omitempty"`
	TransactionDate     time.Time          `json:"transactionDate"`
	CreatedAt           time.Time          `json:"createdAt"`
	ReceiptPath         string             `json:"receiptPath,omitempty"`
	LinkedTransactionID *string            `json:"linkedTransactionID,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:       t.TransactionID,
		AccountID:           t.AccountID,
		Amount:              t.Amount,
		Remark:              t.Remark,
		EditHistory:         t.EditHistory,
		EditCount:           t.EditCount,
		IsDeleted:           t.IsDeleted,
		DeletedAt:           t.DeletedAt,
		TransactionDate:     t.TransactionDate,
		CreatedAt:           t.CreatedAt,
		ReceiptPath:         t.ReceiptPath,
		LinkedTransactionID: t.LinkedTransactionID,
	}
}

// ToTransactionResponses converts a slice of domain transactions to DTOs.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(ts))
	for i := range ts {
		out[i] = ToTransactionResponse(&ts[i])
	}
	return out
}
