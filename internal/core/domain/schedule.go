package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleType is the cadence of a recurring schedule.
type ScheduleType string

const (
	ScheduleOnce        ScheduleType = "once"
	ScheduleWeekly      ScheduleType = "weekly"
	ScheduleTwoWeeks    ScheduleType = "2weeks"
	ScheduleMonthly     ScheduleType = "monthly"
	ScheduleTwoMonths   ScheduleType = "2months"
	ScheduleThreeMonths ScheduleType = "3months"
	ScheduleSixMonths   ScheduleType = "6months"
)

// IsValid reports whether the schedule type is a known cadence.
func (s ScheduleType) IsValid() bool {
	switch s {
	case ScheduleOnce, ScheduleWeekly, ScheduleTwoWeeks, ScheduleMonthly,
		ScheduleTwoMonths, ScheduleThreeMonths, ScheduleSixMonths:
		return true
	}
	return false
}

// Months returns the month step for the monthly cadences, 0 otherwise.
func (s ScheduleType) Months() int {
	switch s {
	case ScheduleMonthly:
		return 1
	case ScheduleTwoMonths:
		return 2
	case ScheduleThreeMonths:
		return 3
	case ScheduleSixMonths:
		return 6
	}
	return 0
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday converts a stored weekday name (case-insensitive) to
// time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}

// RecurringSchedule is a template that periodically materializes a new
// transaction on its account.
type RecurringSchedule struct {
	ScheduleID    string          `json:"scheduleID"` // Primary Key (UUID)
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"` // Signed, same convention as Transaction
	Remark        string          `json:"remark"`
	ScheduleType  ScheduleType    `json:"scheduleType"`
	ScheduleDay   time.Weekday    `json:"scheduleDay"`  // Weekly cadences
	ScheduleDate  int             `json:"scheduleDate"` // Day of month 1-31, monthly cadences
	NextExecution time.Time       `json:"nextExecution"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}
