package services

import (
	"context"

	portssvc "github.com/arvindks/spendtrack/internal/core/ports/services"
	"github.com/arvindks/spendtrack/internal/middleware"
)

// loggingBackupNotifier is the default BackupNotifier: the real backup queue
// lives outside this core, so the signal is just recorded. It never blocks.
type loggingBackupNotifier struct{}

// NewLoggingBackupNotifier creates the default fire-and-forget notifier.
func NewLoggingBackupNotifier() portssvc.BackupNotifier {
	return &loggingBackupNotifier{}
}

func (n *loggingBackupNotifier) NotifyMutation(ctx context.Context) {
	middleware.GetLoggerFromCtx(ctx).Debug("Backup queued after mutation")
}
