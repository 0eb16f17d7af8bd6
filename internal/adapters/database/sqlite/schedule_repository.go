package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arvindks/spendtrack/internal/apperrors"
	"github.com/arvindks/spendtrack/internal/core/domain"
	portsrepo "github.com/arvindks/spendtrack/internal/core/ports/repositories"
	"github.com/arvindks/spendtrack/internal/models"
	"github.com/arvindks/spendtrack/internal/utils/mapping"
)

type SqliteScheduleRepository struct {
	BaseRepository
}

// newSqliteScheduleRepository creates a new repository for recurring schedules.
func newSqliteScheduleRepository(db *sql.DB) portsrepo.ScheduleRepositoryFacade {
	return &SqliteScheduleRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure SqliteScheduleRepository implements portsrepo.ScheduleRepositoryFacade
var _ portsrepo.ScheduleRepositoryFacade = (*SqliteScheduleRepository)(nil)

const scheduleColumns = `id, account_id, amount, remark, schedule_type, schedule_day, schedule_date, next_execution, is_active, created_at`

func scanSchedule(row interface{ Scan(dest ...any) error }) (models.RecurringSchedule, error) {
	var m models.RecurringSchedule
	err := row.Scan(
		&m.ScheduleID,
		&m.AccountID,
		&m.Amount,
		&m.Remark,
		&m.ScheduleType,
		&m.ScheduleDay,
		&m.ScheduleDate,
		&m.NextExecution,
		&m.IsActive,
		&m.CreatedAt,
	)
	return m, err
}

func (r *SqliteScheduleRepository) SaveSchedule(ctx context.Context, schedule domain.RecurringSchedule) error {
	m := mapping.ToModelSchedule(schedule)
	query := `
		INSERT INTO recurring_schedules (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.DB.ExecContext(ctx, query,
		m.ScheduleID, m.AccountID, m.Amount, m.Remark, m.ScheduleType,
		m.ScheduleDay, m.ScheduleDate, m.NextExecution, m.IsActive, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert schedule %s: %w", m.ScheduleID, err)
	}
	return nil
}

func (r *SqliteScheduleRepository) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.RecurringSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM recurring_schedules WHERE id = ?;`
	m, err := scanSchedule(r.DB.QueryRowContext(ctx, query, scheduleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find schedule by ID %s: %w", scheduleID, err)
	}
	schedule := mapping.ToDomainSchedule(m)
	return &schedule, nil
}

func (r *SqliteScheduleRepository) ListSchedules(ctx context.Context) ([]domain.RecurringSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM recurring_schedules
		ORDER BY is_active DESC, next_execution ASC;
	`
	return r.querySchedules(ctx, query)
}

func (r *SqliteScheduleRepository) ListDueSchedules(ctx context.Context, now time.Time) ([]domain.RecurringSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM recurring_schedules
		WHERE is_active = 1 AND next_execution <= ?
		ORDER BY next_execution ASC;
	`
	return r.querySchedules(ctx, query, now)
}

func (r *SqliteScheduleRepository) querySchedules(ctx context.Context, query string, args ...any) ([]domain.RecurringSchedule, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.RecurringSchedule{}
	for rows.Next() {
		m, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}
		schedules = append(schedules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}
	return mapping.ToDomainScheduleSlice(schedules), nil
}

func (r *SqliteScheduleRepository) UpdateSchedule(ctx context.Context, schedule domain.RecurringSchedule) error {
	m := mapping.ToModelSchedule(schedule)
	query := `
		UPDATE recurring_schedules
		SET amount = ?, remark = ?, next_execution = ?, is_active = ?
		WHERE id = ?;
	`
	res, err := r.DB.ExecContext(ctx, query,
		m.Amount, m.Remark, m.NextExecution, m.IsActive, m.ScheduleID)
	if err != nil {
		return fmt.Errorf("failed to update schedule %s: %w", m.ScheduleID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SqliteScheduleRepository) DeleteSchedule(ctx context.Context, scheduleID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM recurring_schedules WHERE id = ?;`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule %s: %w", scheduleID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
