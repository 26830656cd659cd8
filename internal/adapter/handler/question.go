package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/archmich514/kiog/errors"
	usecaseErrors "github.com/archmich514/kiog/internal/usecase/errors"
	questionUsecase "github.com/archmich514/kiog/internal/usecase/question"
)

// Question handles question read HTTP requests
type Question struct {
	questionService questionUsecase.Service
	logger          *zap.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService questionUsecase.Service, logger *zap.Logger) *Question {
	return &Question{
		questionService: questionService,
		logger:          logger,
	}
}

// GetCurrent handles GET /units/:id/questions. Returns the unit's
// active question set written by the latest slot trigger.
func (h *Question) GetCurrent(c echo.Context) error {
	unitID := c.Param("id")

	current, err := h.questionService.GetCurrent(c.Request().Context(), unitID)
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrNotFound) {
			return HandleError(h.logger, c, apperrors.ErrNotFound("Current questions"))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, current)
}
