package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	portsrepo "github.com/arvindks/spendtrack/internal/core/ports/repositories"
)

type SqlitePreferenceRepository struct {
	BaseRepository
}

// newSqlitePreferenceRepository creates a key-value store for user preferences.
func newSqlitePreferenceRepository(db *sql.DB) portsrepo.PreferenceRepositoryFacade {
	return &SqlitePreferenceRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure SqlitePreferenceRepository implements portsrepo.PreferenceRepositoryFacade
var _ portsrepo.PreferenceRepositoryFacade = (*SqlitePreferenceRepository)(nil)

func (r *SqlitePreferenceRepository) GetPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?;`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

func (r *SqlitePreferenceRepository) SetPreference(ctx context.Context, key string, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;
	`
	if _, err := r.DB.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}
	return nil
}
