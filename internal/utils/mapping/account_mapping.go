package mapping

import (
	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/arvindks/spendtrack/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		Name:             d.Name,
		Type:             string(d.Type),
		Icon:             d.Icon,
		IconColor:        d.IconColor,
		Balance:          d.Balance.String(),
		IsPrimary:        d.IsPrimary,
		IsDefaultSavings: d.IsDefaultSavings,
		SortIndex:        d.SortIndex,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// ToDomainAccount converts a model Account to a domain Account. Legacy or
// unknown type values coerce to expenses; an unparseable balance reads as
// zero, matching the treat-missing-amounts-as-zero rule.
func ToDomainAccount(m models.Account) domain.Account {
	balance, err := decimal.NewFromString(m.Balance)
	if err != nil {
		balance = decimal.Zero
	}
	return domain.Account{
		AccountID:        m.AccountID,
		Name:             m.Name,
		Type:             domain.CoerceAccountType(m.Type),
		Icon:             m.Icon,
		IconColor:        m.IconColor,
		Balance:          balance,
		IsPrimary:        m.IsPrimary,
		IsDefaultSavings: m.IsDefaultSavings,
		SortIndex:        m.SortIndex,
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
