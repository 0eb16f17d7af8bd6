package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// EditRecordKind distinguishes the two kinds of edit-history elements.
type EditRecordKind int

const (
	// EditRecordAmount holds a previous absolute amount of the entry.
	EditRecordAmount EditRecordKind = iota
	// EditRecordDeleted is the sentinel appended on soft delete.
	EditRecordDeleted
)

const deletedMarker = "Deleted"

// EditRecord is one element of an entry's edit history: either a previous
// absolute amount, or the Deleted sentinel.
type EditRecord struct {
	Kind   EditRecordKind
	Amount decimal.Decimal // Valid only for EditRecordAmount
}

// AmountRecord builds an amount-kind record from a previous absolute value.
func AmountRecord(amount decimal.Decimal) EditRecord {
	return EditRecord{Kind: EditRecordAmount, Amount: amount.Abs()}
}

// DeletedRecord builds the soft-delete sentinel record.
func DeletedRecord() EditRecord {
	return EditRecord{Kind: EditRecordDeleted}
}

// MarshalJSON renders an amount record as a bare number and the deleted
// sentinel as the string "Deleted", matching the stored column format.
func (r EditRecord) MarshalJSON() ([]byte, error) {
	if r.Kind == EditRecordDeleted {
		return json.Marshal(deletedMarker)
	}
	return []byte(r.Amount.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and the "Deleted" sentinel.
func (r *EditRecord) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == deletedMarker {
			*r = DeletedRecord()
			return nil
		}
		amount, perr := decimal.NewFromString(s)
		if perr != nil {
			return fmt.Errorf("invalid edit history element %q: %w", s, perr)
		}
		*r = AmountRecord(amount)
		return nil
	}

	var amount decimal.Decimal
	if err := json.Unmarshal(data, &amount); err != nil {
		return fmt.Errorf("invalid edit history element %s: %w", string(data), err)
	}
	*r = AmountRecord(amount)
	return nil
}

// EditHistory is the ordered list of previous absolute amounts for an entry,
// optionally terminated by the Deleted sentinel.
type EditHistory []EditRecord

// WithAmount returns a copy of the history with a previous amount appended.
func (h EditHistory) WithAmount(amount decimal.Decimal) EditHistory {
	out := make(EditHistory, len(h), len(h)+1)
	copy(out, h)
	return append(out, AmountRecord(amount))
}

// WithDeleted returns a copy of the history with the Deleted sentinel appended.
func (h EditHistory) WithDeleted() EditHistory {
	out := make(EditHistory, len(h), len(h)+1)
	copy(out, h)
	return append(out, DeletedRecord())
}
