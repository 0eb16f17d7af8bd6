package services

import (
	portsrepo "github.com/arvindks/spendtrack/internal/core/ports/repositories"
	portssvc "github.com/arvindks/spendtrack/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	backup := NewLoggingBackupNotifier()

	container.Account = NewAccountService(repos.AccountRepo, backup)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.PreferenceRepo, backup)

	// The schedule engine writes through the transaction service so
	// materialized entries get the same validation as manual ones.
	container.Schedule = NewScheduleService(repos.ScheduleRepo, container.Transaction, backup)

	return container
}
