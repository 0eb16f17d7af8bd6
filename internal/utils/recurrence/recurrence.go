// Package recurrence computes next-occurrence timestamps for recurring
// schedules. All results are normalized to local midnight.
package recurrence

import (
	"fmt"
	"time"

	"github.com/arvindks/spendtrack/internal/core/domain"
)

// Next returns the next execution instant for a schedule cadence, computed
// from the given reference time.
//
// Weekly cadences use day: the next future occurrence of that weekday, or the
// same day next week when from already falls on it. The 2weeks cadence is the
// weekly result plus seven days. Monthly cadences use date (day of month
// 1-31): the next occurrence strictly after from, advancing by the cadence's
// month step once if this month's date has already passed. Days past the end
// of a short month clamp to its last day.
func Next(scheduleType domain.ScheduleType, day time.Weekday, date int, from time.Time) (time.Time, error) {
	switch scheduleType {
	case domain.ScheduleOnce:
		return midnight(from), nil
	case domain.ScheduleWeekly:
		return nextWeekday(from, day), nil
	case domain.ScheduleTwoWeeks:
		return nextWeekday(from, day).AddDate(0, 0, 7), nil
	case domain.ScheduleMonthly, domain.ScheduleTwoMonths, domain.ScheduleThreeMonths, domain.ScheduleSixMonths:
		if date < 1 || date > 31 {
			return time.Time{}, fmt.Errorf("day of month %d out of range", date)
		}
		return nextMonthly(from, date, scheduleType.Months()), nil
	default:
		return time.Time{}, fmt.Errorf("unknown schedule type %q", scheduleType)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextWeekday(from time.Time, day time.Weekday) time.Time {
	days := int(day-from.Weekday()+7) % 7
	if days == 0 {
		days = 7
	}
	return midnight(from).AddDate(0, 0, days)
}

func nextMonthly(from time.Time, date, months int) time.Time {
	candidate := dayOfMonth(from.Year(), from.Month(), date, from.Location())
	if !candidate.After(from) {
		shifted := from.AddDate(0, months, 0)
		candidate = dayOfMonth(shifted.Year(), shifted.Month(), date, from.Location())
	}
	return candidate
}

// dayOfMonth builds local midnight on the given day, clamping days past the
// end of the month to its last day.
func dayOfMonth(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
