package repositories

import "context"

// PreferenceRepositoryFacade is the key-value preference store consumed for
// per-account choices (low-balance cover mode, default transfer mode). Keys
// are namespaced by account ID, e.g. "account:<id>:low_balance_mode".
type PreferenceRepositoryFacade interface {
	// GetPreference returns the stored value, or "" when the key is unset.
	GetPreference(ctx context.Context, key string) (string, error)

	// SetPreference stores or replaces the value for a key.
	SetPreference(ctx context.Context, key string, value string) error
}
