package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/archmich514/kiog/errors"
	unitdto "github.com/archmich514/kiog/internal/adapter/dto/unit"
	"github.com/archmich514/kiog/internal/domain/entities"
	usecaseErrors "github.com/archmich514/kiog/internal/usecase/errors"
	unitUsecase "github.com/archmich514/kiog/internal/usecase/unit"
)

// Unit handles user and unit membership HTTP requests
type Unit struct {
	unitService unitUsecase.Service
	logger      *zap.Logger
}

// NewUnitHandler creates a new unit handler
func NewUnitHandler(unitService unitUsecase.Service, logger *zap.Logger) *Unit {
	return &Unit{
		unitService: unitService,
		logger:      logger,
	}
}

// RegisterUser handles POST /users
func (h *Unit) RegisterUser(c echo.Context) error {
	var req unitdto.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	user, err := h.unitService.RegisterUser(c.Request().Context(), req.UserID, req.Name, req.Gender)
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrInvalidInput) {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("userId and name are required"))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, toUserResponse(user))
}

// SetFCMToken handles PUT /users/:id/fcm-token
func (h *Unit) SetFCMToken(c echo.Context) error {
	userID := c.Param("id")

	var req unitdto.SetFCMTokenRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	if err := h.unitService.SetFCMToken(c.Request().Context(), userID, req.Token); err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("token is required"))
		case stdErrors.Is(err, usecaseErrors.ErrUserNotFound):
			return HandleError(h.logger, c, apperrors.ErrUserNotFound(userID))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, nil)
}

// CreateUnit handles POST /units
func (h *Unit) CreateUnit(c echo.Context) error {
	var req unitdto.CreateUnitRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	unit, err := h.unitService.CreateUnit(c.Request().Context(), req.UserID)
	if err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrUserNotFound):
			return HandleError(h.logger, c, apperrors.ErrUserNotFound(req.UserID))
		case stdErrors.Is(err, usecaseErrors.ErrAlreadyInUnit):
			return HandleError(h.logger, c, apperrors.ErrAlreadyInUnit(req.UserID))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, toUnitResponse(unit))
}

// JoinUnit handles POST /units/:code/join
func (h *Unit) JoinUnit(c echo.Context) error {
	code := c.Param("code")

	var req unitdto.JoinUnitRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	unit, err := h.unitService.JoinUnit(c.Request().Context(), code, req.UserID)
	if err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrUnitNotFound):
			return HandleError(h.logger, c, apperrors.ErrUnitNotFound(code))
		case stdErrors.Is(err, usecaseErrors.ErrUserNotFound):
			return HandleError(h.logger, c, apperrors.ErrUserNotFound(req.UserID))
		case stdErrors.Is(err, usecaseErrors.ErrUnitFull):
			return HandleError(h.logger, c, apperrors.ErrUnitFull(code))
		case stdErrors.Is(err, usecaseErrors.ErrAlreadyInUnit):
			return HandleError(h.logger, c, apperrors.ErrAlreadyInUnit(req.UserID))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, toUnitResponse(unit))
}

// GetUnit handles GET /units/:id
func (h *Unit) GetUnit(c echo.Context) error {
	id := c.Param("id")

	unit, err := h.unitService.GetUnit(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrUnitNotFound) {
			return HandleError(h.logger, c, apperrors.ErrUnitNotFound(id))
		}
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, toUnitResponse(unit))
}

func toUserResponse(u *entities.User) unitdto.UserResponse {
	return unitdto.UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Gender: u.Gender,
		UnitID: u.UnitID,
	}
}

func toUnitResponse(u *entities.Unit) unitdto.UnitResponse {
	return unitdto.UnitResponse{
		ID:        u.ID,
		Members:   u.Members,
		CreatedAt: u.CreatedAt,
	}
}
