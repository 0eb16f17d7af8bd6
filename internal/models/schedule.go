package models

import "time"

// RecurringSchedule is the persisted row shape for a recurring schedule.
// ScheduleDay stores a weekday name ("monday"), ScheduleDate a day of month.
type RecurringSchedule struct {
	ScheduleID    string    `db:"id"`
	AccountID     string    `db:"account_id"`
	Amount        string    `db:"amount"`
	Remark        string    `db:"remark"`
	ScheduleType  string    `db:"schedule_type"`
	ScheduleDay   string    `db:"schedule_day"`
	ScheduleDate  int       `db:"schedule_date"`
	NextExecution time.Time `db:"next_execution"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
}
