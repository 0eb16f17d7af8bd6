package services

import (
	"context"
	"time"

	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/arvindks/spendtrack/internal/dto"
)

// ScheduleSvcFacade defines recurring-schedule operations.
type ScheduleSvcFacade interface {
	// CreateSchedule persists a schedule with its first execution computed.
	CreateSchedule(ctx context.Context, req dto.CreateScheduleRequest) (*domain.RecurringSchedule, error)

	// ListSchedules returns all schedules.
	ListSchedules(ctx context.Context) ([]domain.RecurringSchedule, error)

	// DeactivateSchedule stops a schedule from firing without removing it.
	DeactivateSchedule(ctx context.Context, scheduleID string) error

	// DeleteSchedule removes a schedule.
	DeleteSchedule(ctx context.Context, scheduleID string) error

	// ProcessDue materializes one transaction for every active schedule whose
	// next execution is at or before now, then advances it once. Returns the
	// number of schedules fired.
	ProcessDue(ctx context.Context, now time.Time) (int, error)
}
