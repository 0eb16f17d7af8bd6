package sqlite

import (
	"database/sql"

	portsrepo "github.com/arvindks/spendtrack/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every sqlite-backed repository over a shared
// connection pool.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newSqliteAccountRepository(db),
		TransactionRepo: newSqliteTransactionRepository(db),
		ScheduleRepo:    newSqliteScheduleRepository(db),
		PreferenceRepo:  newSqlitePreferenceRepository(db),
	}
}
