package handler

import (
	stdErrors "errors"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/archmich514/kiog/errors"
	answerdto "github.com/archmich514/kiog/internal/adapter/dto/answer"
	"github.com/archmich514/kiog/internal/domain/entities"
	answerUsecase "github.com/archmich514/kiog/internal/usecase/answer"
	usecaseErrors "github.com/archmich514/kiog/internal/usecase/errors"
)

// Answer handles answer and prediction HTTP requests
type Answer struct {
	answerService answerUsecase.Service
	loc           *time.Location
	logger        *zap.Logger
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerService answerUsecase.Service, loc *time.Location, logger *zap.Logger) *Answer {
	return &Answer{
		answerService: answerService,
		loc:           loc,
		logger:        logger,
	}
}

// Create handles POST /units/:id/answers
func (h *Answer) Create(c echo.Context) error {
	unitID := c.Param("id")

	var req answerdto.CreateAnswerRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	question := entities.SelectedQuestion{
		ID:   req.QuestionID,
		Text: req.QuestionText,
		IsAI: req.IsAI,
	}

	ans, err := h.answerService.CreateAnswer(
		c.Request().Context(),
		unitID,
		req.UserID,
		question,
		entities.TimeSlot(req.TimeSlot),
		req.Answer,
	)
	if err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrInvalidTimeSlot):
			return HandleError(h.logger, c, apperrors.ErrInvalidTimeSlot(req.TimeSlot))
		case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("answer text is required"))
		case stdErrors.Is(err, usecaseErrors.ErrUnitNotFound):
			return HandleError(h.logger, c, apperrors.ErrUnitNotFound(unitID))
		case stdErrors.Is(err, usecaseErrors.ErrNotUnitMember):
			return HandleError(h.logger, c, apperrors.ErrNotUnitMember(unitID, req.UserID))
		case stdErrors.Is(err, usecaseErrors.ErrUserNotFound):
			return HandleError(h.logger, c, apperrors.ErrUserNotFound(req.UserID))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, ans)
}

// SubmitPrediction handles POST /answers/:id/predictions
func (h *Answer) SubmitPrediction(c echo.Context) error {
	answerID := c.Param("id")

	var req answerdto.SubmitPredictionRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	ans, err := h.answerService.SubmitPrediction(c.Request().Context(), answerID, req.UserID, req.Text)
	if err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrAnswerNotFound):
			return HandleError(h.logger, c, apperrors.ErrAnswerNotFound(answerID))
		case stdErrors.Is(err, usecaseErrors.ErrPredictOwnAnswer):
			return HandleError(h.logger, c, apperrors.ErrPredictOwnAnswer())
		case stdErrors.Is(err, usecaseErrors.ErrUserNotFound):
			return HandleError(h.logger, c, apperrors.ErrUserNotFound(req.UserID))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, ans)
}

// MarkViewed handles POST /answers/:id/viewed
func (h *Answer) MarkViewed(c echo.Context) error {
	answerID := c.Param("id")

	var req answerdto.MarkViewedRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	if err := h.answerService.MarkViewed(c.Request().Context(), answerID, req.UserID); err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrAnswerNotFound) {
			return HandleError(h.logger, c, apperrors.ErrAnswerNotFound(answerID))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, nil)
}

// ListForDay handles GET /units/:id/answers. The date query parameter
// defaults to today in the app timezone.
func (h *Answer) ListForDay(c echo.Context) error {
	unitID := c.Param("id")

	date := c.QueryParam("date")
	if date == "" {
		date = entities.DateKey(time.Now(), h.loc)
	} else if _, err := time.Parse(entities.DateLayout, date); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("date must be formatted as YYYY-MM-DD"))
	}

	answers, err := h.answerService.ListForDay(c.Request().Context(), unitID, date)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, answers)
}
