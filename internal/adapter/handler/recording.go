package handler

import (
	stdErrors "errors"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/archmich514/kiog/errors"
	usecaseErrors "github.com/archmich514/kiog/internal/usecase/errors"
	recordingUsecase "github.com/archmich514/kiog/internal/usecase/recording"
)

// Recording handles audio upload HTTP requests
type Recording struct {
	recordingService recordingUsecase.Service
	logger           *zap.Logger
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(recordingService recordingUsecase.Service, logger *zap.Logger) *Recording {
	return &Recording{
		recordingService: recordingService,
		logger:           logger,
	}
}

// Upload handles POST /units/:id/recordings. The audio file arrives as
// multipart form data under the "audio" field, with userId and duration
// as form fields.
func (h *Recording) Upload(c echo.Context) error {
	unitID := c.Param("id")

	userID := c.FormValue("userId")
	if userID == "" {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("userId is required"))
	}

	duration := 0
	if v := c.FormValue("duration"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("duration must be a non-negative integer"))
		}
		duration = parsed
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("audio file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}

	rec, err := h.recordingService.Upload(c.Request().Context(), unitID, userID, duration, audio)
	if err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("audio file is empty"))
		case stdErrors.Is(err, usecaseErrors.ErrUnitNotFound):
			return HandleError(h.logger, c, apperrors.ErrUnitNotFound(unitID))
		case stdErrors.Is(err, usecaseErrors.ErrNotUnitMember):
			return HandleError(h.logger, c, apperrors.ErrNotUnitMember(unitID, userID))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, rec)
}

// Get handles GET /recordings/:id
func (h *Recording) Get(c echo.Context) error {
	id := c.Param("id")

	rec, err := h.recordingService.Get(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrRecordingNotFound) {
			return HandleError(h.logger, c, apperrors.ErrRecordingNotFound(id))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, rec)
}
