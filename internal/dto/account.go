package dto

import (
	"time"

	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name      string             `json:"name" binding:"required"`
	Type      domain.AccountType `json:"type" binding:"required,oneof=earning expenses saving liability"`
	Icon      string             `json:"icon"`
	IconColor string             `json:"iconColor"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name      *string             `json:"name"`
	Type      *domain.AccountType `json:"type" binding:"omitempty,oneof=earning expenses saving liability"`
	Icon      *string             `json:"icon"`
	IconColor *string             `json:"iconColor"`
	SortIndex *int                `json:"sortIndex"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string             `json:"accountID"`
	Name             string             `json:"name"`
	Type             domain.AccountType `json:"type"`
	Icon             string             `json:"icon"`
	IconColor        string             `json:"iconColor"`
	Balance          decimal.Decimal    `json:"balance"`
	IsPrimary        bool               `json:"isPrimary"`
	IsDefaultSavings bool               `json:"isDefaultSavings"`
	SortIndex        int                `json:"sortIndex"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Name:             acc.Name,
		Type:             acc.Type,
		Icon:             acc.Icon,
		IconColor:        acc.IconColor,
		Balance:          acc.Balance,
		IsPrimary:        acc.IsPrimary,
		IsDefaultSavings: acc.IsDefaultSavings,
		SortIndex:        acc.SortIndex,
		CreatedAt:        acc.CreatedAt,
		UpdatedAt:        acc.UpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts to response DTOs.
func ToAccountResponses(accs []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accs))
	for i := range accs {
		out[i] = ToAccountResponse(&accs[i])
	}
	return out
}
