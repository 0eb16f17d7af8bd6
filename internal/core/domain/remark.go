package domain

import "strings"

// Remark prefixes mark an entry as one half of a linked pair. They make the
// entry's type immutable in the UI, though amount and remark remain editable
// through the normal edit path.
const (
	RemarkTransferredTo   = "Transferred to "
	RemarkTransferredFrom = "Transferred from "
	RemarkRequestedFrom   = "Requested from "
	RemarkRequestedBy     = "Requested by "
)

// IsLinkedRemark reports whether a remark carries a linked-pair prefix.
func IsLinkedRemark(remark string) bool {
	return strings.HasPrefix(remark, RemarkTransferredTo) ||
		strings.HasPrefix(remark, RemarkTransferredFrom) ||
		strings.HasPrefix(remark, RemarkRequestedFrom) ||
		strings.HasPrefix(remark, RemarkRequestedBy)
}

// CounterpartPrefix returns the remark prefix the other half of a pair carries,
// or "" when the remark is not a linked-pair remark.
func CounterpartPrefix(remark string) string {
	switch {
	case strings.HasPrefix(remark, RemarkTransferredTo):
		return RemarkTransferredFrom
	case strings.HasPrefix(remark, RemarkTransferredFrom):
		return RemarkTransferredTo
	case strings.HasPrefix(remark, RemarkRequestedFrom):
		return RemarkRequestedBy
	case strings.HasPrefix(remark, RemarkRequestedBy):
		return RemarkRequestedFrom
	default:
		return ""
	}
}
