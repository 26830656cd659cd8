package unit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/domain/repositories"
	usecaseerrors "github.com/archmich514/kiog/internal/usecase/errors"
)

// maxMembers is fixed: a unit is a pair
const maxMembers = 2

// Service defines unit and member management methods
type Service interface {
	RegisterUser(ctx context.Context, userID, name, gender string) (*entities.User, error)
	SetFCMToken(ctx context.Context, userID, token string) error
	CreateUnit(ctx context.Context, creatorID string) (*entities.Unit, error)
	JoinUnit(ctx context.Context, code, userID string) (*entities.Unit, error)
	GetUnit(ctx context.Context, id string) (*entities.Unit, error)
}

type unitService struct {
	unitRepo repositories.UnitRepository
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewUnitService constructs a unit service
func NewUnitService(unitRepo repositories.UnitRepository, userRepo repositories.UserRepository, logger *zap.Logger) Service {
	return &unitService{
		unitRepo: unitRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// RegisterUser creates or refreshes a user profile. The id is the
// client's stable identity, so registration is idempotent.
func (s *unitService) RegisterUser(ctx context.Context, userID, name, gender string) (*entities.User, error) {
	if userID == "" || name == "" {
		return nil, usecaseerrors.ErrInvalidInput
	}

	existing, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user := &entities.User{
		ID:        userID,
		Name:      name,
		Gender:    gender,
		CreatedAt: time.Now(),
	}
	if existing != nil {
		user.UnitID = existing.UnitID
		user.FCMToken = existing.FCMToken
		user.CreatedAt = existing.CreatedAt
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	return user, nil
}

// SetFCMToken records the device push token for a user
func (s *unitService) SetFCMToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return usecaseerrors.ErrInvalidInput
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return usecaseerrors.ErrUserNotFound
	}

	if err := s.userRepo.SetFCMToken(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to store push token: %w", err)
	}
	return nil
}

// CreateUnit opens a new unit with the creator as its first member and
// returns it; the unit id is the join code for the partner.
func (s *unitService) CreateUnit(ctx context.Context, creatorID string) (*entities.Unit, error) {
	creator, err := s.userRepo.FindByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if creator == nil {
		return nil, usecaseerrors.ErrUserNotFound
	}
	if creator.UnitID != "" {
		return nil, usecaseerrors.ErrAlreadyInUnit
	}

	unit := entities.NewUnit(creatorID)
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	creator.UnitID = unit.ID
	if err := s.userRepo.Upsert(ctx, creator); err != nil {
		return nil, fmt.Errorf("failed to link user to unit: %w", err)
	}

	s.logger.Info("unit created",
		zap.String("unit_id", unit.ID),
		zap.String("creator_id", creatorID),
	)
	return unit, nil
}

// JoinUnit adds the second member to a unit by join code
func (s *unitService) JoinUnit(ctx context.Context, code, userID string) (*entities.Unit, error) {
	unit, err := s.unitRepo.FindByID(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}
	if unit == nil {
		return nil, usecaseerrors.ErrUnitNotFound
	}
	if unit.HasMember(userID) {
		return unit, nil
	}
	if len(unit.Members) >= maxMembers {
		return nil, usecaseerrors.ErrUnitFull
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, usecaseerrors.ErrUserNotFound
	}
	if user.UnitID != "" {
		return nil, usecaseerrors.ErrAlreadyInUnit
	}

	if err := s.unitRepo.AddMember(ctx, unit.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	user.UnitID = unit.ID
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to link user to unit: %w", err)
	}

	unit.Members = append(unit.Members, userID)
	s.logger.Info("member joined unit",
		zap.String("unit_id", unit.ID),
		zap.String("user_id", userID),
	)
	return unit, nil
}

// GetUnit returns a unit by id
func (s *unitService) GetUnit(ctx context.Context, id string) (*entities.Unit, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}
	if unit == nil {
		return nil, usecaseerrors.ErrUnitNotFound
	}
	return unit, nil
}
