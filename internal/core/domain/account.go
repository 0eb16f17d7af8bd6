package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the category of an account.
type AccountType string

const (
	Earning   AccountType = "earning"
	Expenses  AccountType = "expenses"
	Saving    AccountType = "saving"
	Liability AccountType = "liability"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Earning, Expenses, Saving, Liability:
		return true
	}
	return false
}

// CoerceAccountType maps unknown or legacy type values to Expenses.
func CoerceAccountType(raw string) AccountType {
	switch AccountType(raw) {
	case Earning, Expenses, Saving, Liability:
		return AccountType(raw)
	default:
		return Expenses
	}
}

// Account represents a user account within the core domain.
// Balance is a denormalized cache of the non-deleted transaction sum; the
// live transaction set remains the source of truth.
type Account struct {
	AccountID        string          `json:"accountID"` // Primary Key (UUID)
	Name             string          `json:"name"`      // Trimmed, case-insensitively unique
	Type             AccountType     `json:"type"`
	Icon             string          `json:"icon"`
	IconColor        string          `json:"iconColor"`
	Balance          decimal.Decimal `json:"balance"`
	IsPrimary        bool            `json:"isPrimary"`        // Meaningful only for Earning; at most one
	IsDefaultSavings bool            `json:"isDefaultSavings"` // Exactly one; never deletable
	SortIndex        int             `json:"sortIndex"`        // Manual ordering; new accounts get min-1
	Timestamps
}

// Protected reports whether the account may never be deleted.
func (a Account) Protected() bool {
	return a.IsDefaultSavings || (a.Type == Earning && a.IsPrimary)
}
