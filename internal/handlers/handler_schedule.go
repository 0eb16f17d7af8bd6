package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/arvindks/spendtrack/internal/core/ports/services"
	"github.com/arvindks/spendtrack/internal/dto"
	"github.com/arvindks/spendtrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

// scheduleHandler handles HTTP requests related to recurring schedules.
type scheduleHandler struct {
	scheduleService portssvc.ScheduleSvcFacade
}

// newScheduleHandler creates a new scheduleHandler.
func newScheduleHandler(ss portssvc.ScheduleSvcFacade) *scheduleHandler {
	return &scheduleHandler{
		scheduleService: ss,
	}
}

// registerScheduleRoutes registers routes related to recurring schedules.
func registerScheduleRoutes(rg *gin.RouterGroup, scheduleService portssvc.ScheduleSvcFacade) {
	h := newScheduleHandler(scheduleService)

	schedules := rg.Group("/schedules")
	{
		schedules.POST("", h.createSchedule)
		schedules.GET("", h.listSchedules)
		schedules.POST("/process", h.processDue)
		schedules.POST("/:id/deactivate", h.deactivateSchedule)
		schedules.DELETE("/:id", h.deleteSchedule)
	}
}

func (h *scheduleHandler) createSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create schedule")
		return
	}

	logger.Info("Schedule created", slog.String("schedule_id", schedule.ScheduleID))
	c.JSON(http.StatusCreated, dto.ToScheduleResponse(schedule))
}

func (h *scheduleHandler) listSchedules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	schedules, err := h.scheduleService.ListSchedules(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list schedules")
		return
	}

	c.JSON(http.StatusOK, dto.ToScheduleResponses(schedules))
}

// processDue fires every schedule that has come due. The background ticker
// calls the same service method; this endpoint lets a client trigger catch-up
// on demand, e.g. after the device was offline.
func (h *scheduleHandler) processDue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fired, err := h.scheduleService.ProcessDue(c.Request.Context(), time.Now())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to process due schedules")
		return
	}

	logger.Info("Due schedules processed", slog.Int("fired", fired))
	c.JSON(http.StatusOK, gin.H{"fired": fired})
}

func (h *scheduleHandler) deactivateSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scheduleID := c.Param("id")
	logger = logger.With(slog.String("schedule_id", scheduleID))

	if err := h.scheduleService.DeactivateSchedule(c.Request.Context(), scheduleID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate schedule")
		return
	}

	logger.Info("Schedule deactivated")
	c.Status(http.StatusNoContent)
}

func (h *scheduleHandler) deleteSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scheduleID := c.Param("id")
	logger = logger.With(slog.String("schedule_id", scheduleID))

	if err := h.scheduleService.DeleteSchedule(c.Request.Context(), scheduleID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete schedule")
		return
	}

	logger.Info("Schedule deleted")
	c.Status(http.StatusNoContent)
}
