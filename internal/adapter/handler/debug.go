package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/archmich514/kiog/errors"
	debugdto "github.com/archmich514/kiog/internal/adapter/dto/debug"
	"github.com/archmich514/kiog/internal/domain/entities"
)

// Enqueuer schedules background pipeline runs
type Enqueuer interface {
	EnqueueReportForUnit(ctx context.Context, unitID string) error
	EnqueueQuestions(ctx context.Context, slot entities.TimeSlot) error
}

// Debug exposes manual pipeline triggers. These endpoints validate the
// request synchronously and enqueue the run; completion is asynchronous.
type Debug struct {
	enqueuer Enqueuer
	logger   *zap.Logger
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(enqueuer Enqueuer, logger *zap.Logger) *Debug {
	return &Debug{
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// GenerateReport handles POST /debug/reports
func (h *Debug) GenerateReport(c echo.Context) error {
	var req debugdto.GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	if err := h.enqueuer.EnqueueReportForUnit(c.Request().Context(), req.UnitID); err != nil {
		return HandleError(h.logger, c, apperrors.ErrEnqueueFailed(err))
	}

	h.logger.Info("manual report run enqueued", zap.String("unit_id", req.UnitID))
	return HandleSuccess(h.logger, c, debugdto.EnqueuedResponse{Task: "report", Status: "enqueued"})
}

// GenerateQuestions handles POST /debug/questions
func (h *Debug) GenerateQuestions(c echo.Context) error {
	var req debugdto.GenerateQuestionsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidTimeSlot(req.TimeSlot))
	}

	if err := h.enqueuer.EnqueueQuestions(c.Request().Context(), entities.TimeSlot(req.TimeSlot)); err != nil {
		return HandleError(h.logger, c, apperrors.ErrEnqueueFailed(err))
	}

	h.logger.Info("manual question run enqueued", zap.String("time_slot", req.TimeSlot))
	return HandleSuccess(h.logger, c, debugdto.EnqueuedResponse{Task: "questions", Status: "enqueued"})
}
