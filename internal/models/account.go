package models

import "time"

// Account is the persisted row shape for an account. Balance is stored as
// TEXT to keep decimal values exact in sqlite.
type Account struct {
	AccountID        string    `db:"id"`
	Name             string    `db:"name"`
	Type             string    `db:"type"`
	Icon             string    `db:"icon"`
	IconColor        string    `db:"icon_color"`
	Balance          string    `db:"balance"`
	IsPrimary        bool      `db:"is_primary"`
	IsDefaultSavings bool      `db:"is_default_savings"`
	SortIndex        int       `db:"sort_index"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
