package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arvindks/spendtrack/internal/apperrors"
	"github.com/arvindks/spendtrack/internal/core/domain"
	portsrepo "github.com/arvindks/spendtrack/internal/core/ports/repositories"
	portssvc "github.com/arvindks/spendtrack/internal/core/ports/services"
	"github.com/arvindks/spendtrack/internal/dto"
	"github.com/arvindks/spendtrack/internal/utils/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// scheduleService materializes recurring schedules into concrete ledger
// entries through the normal transaction path, so every materialized entry
// gets the same validation as a manual one.
type scheduleService struct {
	BaseService
	scheduleRepo portsrepo.ScheduleRepositoryFacade
	txnSvc       portssvc.TransactionSvcFacade
	backup       portssvc.BackupNotifier
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(
	scheduleRepo portsrepo.ScheduleRepositoryFacade,
	txnSvc portssvc.TransactionSvcFacade,
	backup portssvc.BackupNotifier,
) portssvc.ScheduleSvcFacade {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		txnSvc:       txnSvc,
		backup:       backup,
	}
}

// Ensure scheduleService implements the ScheduleSvcFacade interface
var _ portssvc.ScheduleSvcFacade = (*scheduleService)(nil)

func (s *scheduleService) CreateSchedule(ctx context.Context, req dto.CreateScheduleRequest) (*domain.RecurringSchedule, error) {
	scheduleType := domain.ScheduleType(req.ScheduleType)
	if !scheduleType.IsValid() {
		return nil, fmt.Errorf("%w: unknown schedule type %q", apperrors.ErrValidation, req.ScheduleType)
	}
	if req.Amount.Equal(decimal.Zero) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositive)
	}

	day := time.Sunday
	switch scheduleType {
	case domain.ScheduleWeekly, domain.ScheduleTwoWeeks:
		parsed, err := domain.ParseWeekday(req.ScheduleDay)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		day = parsed
	case domain.ScheduleMonthly, domain.ScheduleTwoMonths, domain.ScheduleThreeMonths, domain.ScheduleSixMonths:
		if req.ScheduleDate < 1 || req.ScheduleDate > 31 {
			return nil, fmt.Errorf("%w: day of month must be 1-31", apperrors.ErrValidation)
		}
	}

	next, err := recurrence.Next(scheduleType, day, req.ScheduleDate, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	schedule := domain.RecurringSchedule{
		ScheduleID:    uuid.NewString(),
		AccountID:     req.AccountID,
		Amount:        req.Amount,
		Remark:        req.Remark,
		ScheduleType:  scheduleType,
		ScheduleDay:   day,
		ScheduleDate:  req.ScheduleDate,
		NextExecution: next,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}

	if err := s.scheduleRepo.SaveSchedule(ctx, schedule); err != nil {
		s.LogError(ctx, err, "Failed to save schedule", slog.String("account_id", req.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Schedule created",
		slog.String("schedule_id", schedule.ScheduleID),
		slog.String("type", string(scheduleType)),
		slog.Time("next_execution", next))
	s.backup.NotifyMutation(ctx)
	return &schedule, nil
}

func (s *scheduleService) ListSchedules(ctx context.Context) ([]domain.RecurringSchedule, error) {
	schedules, err := s.scheduleRepo.ListSchedules(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list schedules, degrading to empty")
		return []domain.RecurringSchedule{}, nil
	}
	if schedules == nil {
		return []domain.RecurringSchedule{}, nil
	}
	return schedules, nil
}

func (s *scheduleService) DeactivateSchedule(ctx context.Context, scheduleID string) error {
	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if !schedule.IsActive {
		return nil
	}
	schedule.IsActive = false
	if err := s.scheduleRepo.UpdateSchedule(ctx, *schedule); err != nil {
		s.LogError(ctx, err, "Failed to deactivate schedule", slog.String("schedule_id", scheduleID))
		return err
	}
	s.backup.NotifyMutation(ctx)
	return nil
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, scheduleID string) error {
	if err := s.scheduleRepo.DeleteSchedule(ctx, scheduleID); err != nil {
		s.LogError(ctx, err, "Failed to delete schedule", slog.String("schedule_id", scheduleID))
		return err
	}
	s.backup.NotifyMutation(ctx)
	return nil
}

// ProcessDue fires each due schedule exactly once per call: a schedule due
// several missed periods over still materializes a single entry and advances
// once, with no backlog catch-up.
func (s *scheduleService) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.scheduleRepo.ListDueSchedules(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due schedules")
		return 0, err
	}

	fired := 0
	for _, schedule := range due {
		if err := s.fire(ctx, schedule, now); err != nil {
			// A schedule that cannot materialize (e.g. it would drive the
			// account negative) stays due and is retried on the next run.
			s.LogError(ctx, err, "Failed to process schedule", slog.String("schedule_id", schedule.ScheduleID))
			continue
		}
		fired++
	}

	if fired > 0 {
		s.LogInfo(ctx, "Due schedules processed", slog.Int("fired", fired), slog.Int("due", len(due)))
	}
	return fired, nil
}

func (s *scheduleService) fire(ctx context.Context, schedule domain.RecurringSchedule, now time.Time) error {
	req := dto.CreateTransactionRequest{
		AccountID: schedule.AccountID,
		Amount:    schedule.Amount.Abs(),
		Remark:    schedule.Remark,
		Date:      now,
	}
	var err error
	if schedule.Amount.IsNegative() {
		_, err = s.txnSvc.Withdraw(ctx, req)
	} else {
		_, err = s.txnSvc.Deposit(ctx, req)
	}
	if err != nil {
		return err
	}

	if schedule.ScheduleType == domain.ScheduleOnce {
		schedule.IsActive = false
	} else {
		next, err := recurrence.Next(schedule.ScheduleType, schedule.ScheduleDay, schedule.ScheduleDate, now)
		if err != nil {
			return err
		}
		schedule.NextExecution = next
	}
	return s.scheduleRepo.UpdateSchedule(ctx, schedule)
}
