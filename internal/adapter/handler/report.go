package handler

import (
	stdErrors "errors"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/archmich514/kiog/errors"
	"github.com/archmich514/kiog/internal/domain/entities"
	usecaseErrors "github.com/archmich514/kiog/internal/usecase/errors"
	reportUsecase "github.com/archmich514/kiog/internal/usecase/report"
)

// Report handles report read HTTP requests
type Report struct {
	reportService reportUsecase.Service
	logger        *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService reportUsecase.Service, logger *zap.Logger) *Report {
	return &Report{
		reportService: reportService,
		logger:        logger,
	}
}

// Get handles GET /units/:id/reports/:date
func (h *Report) Get(c echo.Context) error {
	unitID := c.Param("id")
	date := c.Param("date")

	if _, err := time.Parse(entities.DateLayout, date); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("date must be formatted as YYYY-MM-DD"))
	}

	report, err := h.reportService.GetReport(c.Request().Context(), unitID, date)
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrReportNotFound) {
			return HandleError(h.logger, c, apperrors.ErrReportNotFound(unitID, date))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, report)
}
