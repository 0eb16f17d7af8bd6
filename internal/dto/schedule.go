package dto

import (
	"time"

	"github.com/arvindks/spendtrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateScheduleRequest defines a new recurring schedule. ScheduleDay is a
// weekday name for the weekly cadences; ScheduleDate a day of month for the
// monthly cadences.
type CreateScheduleRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Remark       string          `json:"remark"`
	ScheduleType string          `json:"scheduleType" binding:"required,oneof=once weekly 2weeks monthly 2months 3months 6months"`
	ScheduleDay  string          `json:"scheduleDay"`
	ScheduleDate int             `json:"scheduleDate" binding:"omitempty,min=1,max=31"`
}

// ScheduleResponse defines the data returned for a recurring schedule.
type ScheduleResponse struct {
	ScheduleID    string          `json:"scheduleID"`
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"`
	Remark        string          `json:"remark"`
	ScheduleType  string          `json:"scheduleType"`
	ScheduleDay   string          `json:"scheduleDay"`
	ScheduleDate  int             `json:"scheduleDate"`
	NextExecution time.Time       `json:"nextExecution"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToScheduleResponse converts a domain schedule to its response DTO.
func ToScheduleResponse(s *domain.RecurringSchedule) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:    s.ScheduleID,
		AccountID:     s.AccountID,
		Amount:        s.Amount,
		Remark:        s.Remark,
		ScheduleType:  string(s.ScheduleType),
		ScheduleDay:   s.ScheduleDay.String(),
		ScheduleDate:  s.ScheduleDate,
		NextExecution: s.NextExecution,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
	}
}

// ToScheduleResponses converts a slice of domain schedules to DTOs.
func ToScheduleResponses(ss []domain.RecurringSchedule) []ScheduleResponse {
	out := make([]ScheduleResponse, len(ss))
	for i := range ss {
		out[i] = ToScheduleResponse(&ss[i])
	}
	return out
}
