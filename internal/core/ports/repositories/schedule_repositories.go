package repositories

import (
	"context"
	"time"

	"github.com/arvindks/spendtrack/internal/core/domain"
)

// ScheduleRepositoryFacade defines storage operations for recurring schedules.
type ScheduleRepositoryFacade interface {
	// SaveSchedule persists a new schedule.
	SaveSchedule(ctx context.Context, schedule domain.RecurringSchedule) error

	// FindScheduleByID retrieves a single schedule.
	FindScheduleByID(ctx context.Context, scheduleID string) (*domain.RecurringSchedule, error)

	// ListSchedules retrieves all schedules, active first, by next execution.
	ListSchedules(ctx context.Context) ([]domain.RecurringSchedule, error)

	// ListDueSchedules retrieves active schedules with next_execution <= now.
	ListDueSchedules(ctx context.Context, now time.Time) ([]domain.RecurringSchedule, error)

	// UpdateSchedule updates next_execution and is_active.
	UpdateSchedule(ctx context.Context, schedule domain.RecurringSchedule) error

	// DeleteSchedule removes a schedule.
	DeleteSchedule(ctx context.Context, scheduleID string) error
}
