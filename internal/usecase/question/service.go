package question

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/domain/repositories"
	usecaseerrors "github.com/archmich514/kiog/internal/usecase/errors"
	"github.com/archmich514/kiog/internal/usecase/notify"
)

// Completer generates text from a prompt
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Service defines question generation methods
type Service interface {
	GenerateForAllUnits(ctx context.Context, slot entities.TimeSlot) error
	GenerateForUnit(ctx context.Context, unitID string, slot entities.TimeSlot) ([]entities.SelectedQuestion, error)
	GetCurrent(ctx context.Context, unitID string) (*entities.CurrentQuestions, error)
}

type questionService struct {
	unitRepo    repositories.UnitRepository
	catalog     repositories.QuestionCatalog
	statsRepo   repositories.QuestionStatsRepository
	currentRepo repositories.CurrentQuestionsRepository
	reportRepo  repositories.ReportRepository
	completer   Completer
	dispatcher  *notify.Dispatcher
	masterCount int
	loc         *time.Location
	logger      *zap.Logger
}

// NewQuestionService constructs a question generation service
func NewQuestionService(
	unitRepo repositories.UnitRepository,
	catalog repositories.QuestionCatalog,
	statsRepo repositories.QuestionStatsRepository,
	currentRepo repositories.CurrentQuestionsRepository,
	reportRepo repositories.ReportRepository,
	completer Completer,
	dispatcher *notify.Dispatcher,
	masterCount int,
	loc *time.Location,
	logger *zap.Logger,
) Service {
	return &questionService{
		unitRepo:    unitRepo,
		catalog:     catalog,
		statsRepo:   statsRepo,
		currentRepo: currentRepo,
		reportRepo:  reportRepo,
		completer:   completer,
		dispatcher:  dispatcher,
		masterCount: masterCount,
		loc:         loc,
		logger:      logger,
	}
}

// GenerateForAllUnits produces the slot's question set for every unit.
// Units are isolated: one unit failing does not stop the rest.
func (s *questionService) GenerateForAllUnits(ctx context.Context, slot entities.TimeSlot) error {
	if !slot.Valid() {
		return usecaseerrors.ErrInvalidTimeSlot
	}

	units, err := s.unitRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list units: %w", err)
	}

	s.logger.Info("generating questions",
		zap.String("time_slot", string(slot)),
		zap.Int("unit_count", len(units)),
	)

	for _, unit := range units {
		if _, err := s.GenerateForUnit(ctx, unit.ID, slot); err != nil {
			s.logger.Error("failed to generate questions for unit",
				zap.String("unit_id", unit.ID),
				zap.String("time_slot", string(slot)),
				zap.Error(err),
			)
		}
	}
	return nil
}

// GenerateForUnit selects the unit's question set for the slot, persists
// it as the active set and notifies the members.
func (s *questionService) GenerateForUnit(ctx context.Context, unitID string, slot entities.TimeSlot) ([]entities.SelectedQuestion, error) {
	if !slot.Valid() {
		return nil, usecaseerrors.ErrInvalidTimeSlot
	}

	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}
	if unit == nil {
		return nil, usecaseerrors.ErrUnitNotFound
	}

	questions, err := s.selectFromMaster(ctx, unitID, slot)
	if err != nil {
		return nil, err
	}

	// AI question only exists when yesterday produced a report, and its
	// generation failing never blocks the master questions.
	if aiQuestion := s.generateAIQuestion(ctx, unitID, slot); aiQuestion != nil {
		questions = append(questions, *aiQuestion)
	}

	now := time.Now()
	current := &entities.CurrentQuestions{
		UnitID:    unitID,
		Questions: questions,
		TimeSlot:  slot,
		Date:      entities.DateKey(now, s.loc),
		CreatedAt: now,
	}
	if err := s.currentRepo.Upsert(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to store current questions: %w", err)
	}

	s.dispatcher.NotifyUnit(ctx, unit, "QUEの時間だよ", "", map[string]string{
		"type":     "questions",
		"timeSlot": string(slot),
	})

	s.logger.Info("questions generated",
		zap.String("unit_id", unitID),
		zap.String("time_slot", string(slot)),
		zap.Int("question_count", len(questions)),
	)
	return questions, nil
}

// GetCurrent returns the unit's active question set
func (s *questionService) GetCurrent(ctx context.Context, unitID string) (*entities.CurrentQuestions, error) {
	current, err := s.currentRepo.FindByUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current questions: %w", err)
	}
	if current == nil {
		return nil, usecaseerrors.ErrNotFound
	}
	return current, nil
}

// selectFromMaster picks the least-shown questions from the slot's pool
// and advances the unit's counters. Once every question in the pool has
// been shown at least once, counters reset so the next cycle starts even.
func (s *questionService) selectFromMaster(ctx context.Context, unitID string, slot entities.TimeSlot) ([]entities.SelectedQuestion, error) {
	pool, err := s.catalog.ListBySlot(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to load question catalog: %w", err)
	}
	if len(pool) == 0 {
		return nil, usecaseerrors.ErrEmptyCatalog
	}

	counts, err := s.statsRepo.GetCounts(ctx, unitID, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to load question stats: %w", err)
	}

	ranked := rankByCount(pool, counts)

	n := s.masterCount
	if n > len(ranked) {
		n = len(ranked)
	}

	selected := make([]entities.SelectedQuestion, 0, n)
	selectedIDs := make([]string, 0, n)
	for _, r := range ranked[:n] {
		id := r.question.ID
		selected = append(selected, entities.SelectedQuestion{
			ID:   &id,
			Text: r.question.Text,
			IsAI: false,
		})
		selectedIDs = append(selectedIDs, id)
	}

	if cycleComplete(pool, counts) {
		poolIDs := make([]string, 0, len(pool))
		for _, q := range pool {
			poolIDs = append(poolIDs, q.ID)
		}
		if err := s.statsRepo.ResetCounts(ctx, unitID, slot, poolIDs, selectedIDs); err != nil {
			return nil, fmt.Errorf("failed to reset question stats: %w", err)
		}
	} else {
		if err := s.statsRepo.IncrementCounts(ctx, unitID, slot, selectedIDs); err != nil {
			return nil, fmt.Errorf("failed to increment question stats: %w", err)
		}
	}

	return selected, nil
}

var slotToneContext = map[entities.TimeSlot]string{
	entities.TimeSlotMorning:   "朝の質問です。今日一日の始まりに関連する質問にしてください。",
	entities.TimeSlotAfternoon: "午後の質問です。リフレッシュや息抜きに関連する質問にしてください。",
	entities.TimeSlotEvening:   "夜の質問です。リラックスできる軽い質問にしてください。",
}

// generateAIQuestion derives one extra question from yesterday's report.
// Returns nil when there is no report or the model call fails.
func (s *questionService) generateAIQuestion(ctx context.Context, unitID string, slot entities.TimeSlot) *entities.SelectedQuestion {
	yesterday := entities.PreviousDateKey(time.Now(), s.loc)

	report, err := s.reportRepo.FindByUnitAndDate(ctx, unitID, yesterday)
	if err != nil {
		s.logger.Error("failed to load yesterday's report",
			zap.String("unit_id", unitID),
			zap.Error(err),
		)
		return nil
	}
	if report == nil {
		return nil
	}

	prompt := buildAIQuestionPrompt(report.Content, slot)

	text, err := s.completer.Complete(ctx, prompt, 100)
	if err != nil {
		s.logger.Error("failed to generate AI question",
			zap.String("unit_id", unitID),
			zap.String("time_slot", string(slot)),
			zap.Error(err),
		)
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.logger.Info("AI question generated", zap.String("unit_id", unitID))
	return &entities.SelectedQuestion{ID: nil, Text: text, IsAI: true}
}

func buildAIQuestionPrompt(reportContent string, slot entities.TimeSlot) string {
	return fmt.Sprintf(`あなたは同棲カップルの会話から質問を生成するアシスタントです。

## 前日の会話レポート
%s

## 条件
- %s
- 前日の会話の内容を引用した質問を1つ作成してください
- 会話に出てきた具体的な話題や発言を参照してください
- 短く、答えやすい質問にしてください
- 「？」で終わる質問文のみを出力してください

## 出力形式
質問文のみを出力（説明不要）
`, reportContent, slotToneContext[slot])
}
