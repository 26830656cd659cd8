package answer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/domain/repositories"
	usecaseerrors "github.com/archmich514/kiog/internal/usecase/errors"
	"github.com/archmich514/kiog/internal/usecase/notify"
)

// Enqueuer schedules the asynchronous reaction to a created answer
type Enqueuer interface {
	EnqueueAnswerCreated(ctx context.Context, answerID string) error
}

// Service defines answer operations
type Service interface {
	CreateAnswer(ctx context.Context, unitID, userID string, question entities.SelectedQuestion, slot entities.TimeSlot, text string) (*entities.Answer, error)
	SubmitPrediction(ctx context.Context, answerID, predictorID, text string) (*entities.Answer, error)
	MarkViewed(ctx context.Context, answerID, userID string) error
	ListForDay(ctx context.Context, unitID, date string) ([]*entities.Answer, error)
	HandleAnswerCreated(ctx context.Context, answerID string) error
}

type answerService struct {
	answerRepo repositories.AnswerRepository
	unitRepo   repositories.UnitRepository
	userRepo   repositories.UserRepository
	enqueuer   Enqueuer
	dispatcher *notify.Dispatcher
	loc        *time.Location
	logger     *zap.Logger
}

// NewAnswerService constructs an answer service
func NewAnswerService(
	answerRepo repositories.AnswerRepository,
	unitRepo repositories.UnitRepository,
	userRepo repositories.UserRepository,
	enqueuer Enqueuer,
	dispatcher *notify.Dispatcher,
	loc *time.Location,
	logger *zap.Logger,
) Service {
	return &answerService{
		answerRepo: answerRepo,
		unitRepo:   unitRepo,
		userRepo:   userRepo,
		enqueuer:   enqueuer,
		dispatcher: dispatcher,
		loc:        loc,
		logger:     logger,
	}
}

// CreateAnswer stores a member's answer and schedules the notification
// to the other member. The enqueue failing is logged, not fatal; the
// answer itself is already durable.
func (s *answerService) CreateAnswer(ctx context.Context, unitID, userID string, question entities.SelectedQuestion, slot entities.TimeSlot, text string) (*entities.Answer, error) {
	if !slot.Valid() {
		return nil, usecaseerrors.ErrInvalidTimeSlot
	}
	if text == "" {
		return nil, usecaseerrors.ErrInvalidInput
	}

	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}
	if unit == nil {
		return nil, usecaseerrors.ErrUnitNotFound
	}
	if !unit.HasMember(userID) {
		return nil, usecaseerrors.ErrNotUnitMember
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, usecaseerrors.ErrUserNotFound
	}

	date := entities.DateKey(time.Now(), s.loc)
	answer := entities.NewAnswer(unitID, date, slot, question, userID, user.Name, text)

	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to store answer: %w", err)
	}

	if err := s.enqueuer.EnqueueAnswerCreated(ctx, answer.ID); err != nil {
		s.logger.Error("failed to enqueue answer-created task",
			zap.String("answer_id", answer.ID),
			zap.Error(err),
		)
	}

	return answer, nil
}

// SubmitPrediction records one member's guess at the other's answer.
// Predicting marks the answer as viewed by the predictor; a member can
// never predict their own answer.
func (s *answerService) SubmitPrediction(ctx context.Context, answerID, predictorID, text string) (*entities.Answer, error) {
	if text == "" {
		return nil, usecaseerrors.ErrInvalidInput
	}

	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer: %w", err)
	}
	if answer == nil {
		return nil, usecaseerrors.ErrAnswerNotFound
	}
	if answer.UserID == predictorID {
		return nil, usecaseerrors.ErrPredictOwnAnswer
	}

	predictor, err := s.userRepo.FindByID(ctx, predictorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if predictor == nil {
		return nil, usecaseerrors.ErrUserNotFound
	}

	p := entities.Prediction{
		UserID:    predictorID,
		UserName:  predictor.Name,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.answerRepo.AddPrediction(ctx, answerID, p); err != nil {
		return nil, fmt.Errorf("failed to store prediction: %w", err)
	}

	return s.answerRepo.FindByID(ctx, answerID)
}

// MarkViewed unions the viewer into the answer's viewedBy set
func (s *answerService) MarkViewed(ctx context.Context, answerID, userID string) error {
	ans, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return fmt.Errorf("failed to load answer: %w", err)
	}
	if ans == nil {
		return usecaseerrors.ErrAnswerNotFound
	}

	if err := s.answerRepo.MarkViewed(ctx, answerID, userID); err != nil {
		return fmt.Errorf("failed to mark answer viewed: %w", err)
	}
	return nil
}

// ListForDay returns a unit's answers for one calendar day
func (s *answerService) ListForDay(ctx context.Context, unitID, date string) ([]*entities.Answer, error) {
	answers, err := s.answerRepo.FindByUnitAndDate(ctx, unitID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	return answers, nil
}

// HandleAnswerCreated notifies the unit's other members that a member
// answered. Runs asynchronously off the answer-created task.
func (s *answerService) HandleAnswerCreated(ctx context.Context, answerID string) error {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return fmt.Errorf("failed to load answer: %w", err)
	}
	if answer == nil {
		return usecaseerrors.ErrAnswerNotFound
	}

	unit, err := s.unitRepo.FindByID(ctx, answer.UnitID)
	if err != nil {
		return fmt.Errorf("failed to load unit: %w", err)
	}
	if unit == nil {
		return usecaseerrors.ErrUnitNotFound
	}

	title := fmt.Sprintf("%sさんがQUEに答えたよ", answer.UserName)
	s.dispatcher.NotifyOtherMembers(ctx, unit, answer.UserID, title, "", map[string]string{
		"type":     "answer",
		"answerId": answer.ID,
	})
	return nil
}
