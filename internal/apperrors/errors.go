package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrNegativeBalance indicates that an operation would drive an account's
// running balance negative at some point in its timeline.
var ErrNegativeBalance = errors.New("operation would make balance negative")

// ErrEditLimitExceeded indicates that an entry has already been amended the
// maximum number of times.
var ErrEditLimitExceeded = errors.New("edit limit reached for this entry")

// ErrStaleEditTarget indicates an amend/delete on an entry that is not the
// chronologically latest non-deleted entry on its account.
var ErrStaleEditTarget = errors.New("only the latest entry can be edited or deleted")

// ErrProtectedAccount indicates a delete on the default savings account or a
// primary earning account.
var ErrProtectedAccount = errors.New("account is protected and cannot be deleted")

// ErrLinkedEntryNotFound indicates the counterpart of a transfer/request entry
// could not be resolved, blocking edit/delete of the requesting side.
var ErrLinkedEntryNotFound = errors.New("linked entry could not be found")

// ShortfallConfirmationError is returned by a withdrawal on a non-earning
// account whose low-balance preference is ask-each-time: the caller must
// confirm covering the shortfall from the primary earning account before
// anything is written.
type ShortfallConfirmationError struct {
	Shortfall decimal.Decimal
}

func (e *ShortfallConfirmationError) Error() string {
	return fmt.Sprintf("balance short by %s: confirmation required to request from primary account", e.Shortfall.String())
}
