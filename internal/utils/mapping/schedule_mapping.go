package mapping

import (
	"strings"
	"time"

	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/arvindks/spendtrack/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelSchedule converts a domain RecurringSchedule to its row shape.
func ToModelSchedule(d domain.RecurringSchedule) models.RecurringSchedule {
	return models.RecurringSchedule{
		ScheduleID:    d.ScheduleID,
		AccountID:     d.AccountID,
		Amount:        d.Amount.String(),
		Remark:        d.Remark,
		ScheduleType:  string(d.ScheduleType),
		ScheduleDay:   strings.ToLower(d.ScheduleDay.String()),
		ScheduleDate:  d.ScheduleDate,
		NextExecution: d.NextExecution,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainSchedule converts a row to a domain RecurringSchedule. An unknown
// weekday name reads as Sunday; an unparseable amount reads as zero.
func ToDomainSchedule(m models.RecurringSchedule) domain.RecurringSchedule {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		amount = decimal.Zero
	}
	day, err := domain.ParseWeekday(m.ScheduleDay)
	if err != nil {
		day = time.Sunday
	}
	return domain.RecurringSchedule{
		ScheduleID:    m.ScheduleID,
		AccountID:     m.AccountID,
		Amount:        amount,
		Remark:        m.Remark,
		ScheduleType:  domain.ScheduleType(m.ScheduleType),
		ScheduleDay:   day,
		ScheduleDate:  m.ScheduleDate,
		NextExecution: m.NextExecution,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainScheduleSlice converts a slice of rows to domain schedules.
func ToDomainScheduleSlice(ms []models.RecurringSchedule) []domain.RecurringSchedule {
	ds := make([]domain.RecurringSchedule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSchedule(m)
	}
	return ds
}
