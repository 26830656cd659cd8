package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/archmich514/kiog/internal/domain/entities"
)

type fakeReportService struct {
	allRuns  int
	unitRuns []string
}

func (f *fakeReportService) GenerateDailyReports(ctx context.Context) error {
	f.allRuns++
	return nil
}

func (f *fakeReportService) GenerateForUnit(ctx context.Context, unitID string) error {
	f.unitRuns = append(f.unitRuns, unitID)
	return nil
}

func (f *fakeReportService) GetReport(ctx context.Context, unitID, date string) (*entities.Report, error) {
	return nil, nil
}

type fakeQuestionService struct {
	slots []entities.TimeSlot
}

func (f *fakeQuestionService) GenerateForAllUnits(ctx context.Context, slot entities.TimeSlot) error {
	f.slots = append(f.slots, slot)
	return nil
}

func (f *fakeQuestionService) GenerateForUnit(ctx context.Context, unitID string, slot entities.TimeSlot) ([]entities.SelectedQuestion, error) {
	return nil, nil
}

func (f *fakeQuestionService) GetCurrent(ctx context.Context, unitID string) (*entities.CurrentQuestions, error) {
	return nil, nil
}

type fakeAnswerService struct {
	handled []string
}

func (f *fakeAnswerService) CreateAnswer(ctx context.Context, unitID, userID string, question entities.SelectedQuestion, slot entities.TimeSlot, text string) (*entities.Answer, error) {
	return nil, nil
}

func (f *fakeAnswerService) SubmitPrediction(ctx context.Context, answerID, predictorID, text string) (*entities.Answer, error) {
	return nil, nil
}

func (f *fakeAnswerService) MarkViewed(ctx context.Context, answerID, userID string) error {
	return nil
}

func (f *fakeAnswerService) ListForDay(ctx context.Context, unitID, date string) ([]*entities.Answer, error) {
	return nil, nil
}

func (f *fakeAnswerService) HandleAnswerCreated(ctx context.Context, answerID string) error {
	f.handled = append(f.handled, answerID)
	return nil
}

func TestHandleQuestionsGenerate_DispatchesSlot(t *testing.T) {
	svc := &fakeQuestionService{}
	h := handleQuestionsGenerate(svc, time.Minute)

	task := asynq.NewTask(TaskQuestionsGenerate, []byte(`{"timeSlot":"morning"}`))
	if err := h(context.Background(), task); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(svc.slots) != 1 || svc.slots[0] != entities.TimeSlotMorning {
		t.Errorf("slots = %v", svc.slots)
	}
}

func TestHandleQuestionsGenerate_UnknownSlotNotRetried(t *testing.T) {
	svc := &fakeQuestionService{}
	h := handleQuestionsGenerate(svc, time.Minute)

	task := asynq.NewTask(TaskQuestionsGenerate, []byte(`{"timeSlot":"midnight"}`))
	err := h(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("got %v, want SkipRetry", err)
	}
	if len(svc.slots) != 0 {
		t.Errorf("service called for invalid slot")
	}
}

func TestHandleQuestionsGenerate_MalformedPayloadNotRetried(t *testing.T) {
	h := handleQuestionsGenerate(&fakeQuestionService{}, time.Minute)

	task := asynq.NewTask(TaskQuestionsGenerate, []byte(`{broken`))
	if err := h(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("got %v, want SkipRetry", err)
	}
}

func TestHandleReportGenerateUnit_DispatchesUnit(t *testing.T) {
	svc := &fakeReportService{}
	h := handleReportGenerateUnit(svc, time.Minute)

	task := asynq.NewTask(TaskReportGenerateUnit, []byte(`{"unitId":"UNIT0001"}`))
	if err := h(context.Background(), task); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(svc.unitRuns) != 1 || svc.unitRuns[0] != "UNIT0001" {
		t.Errorf("unit runs = %v", svc.unitRuns)
	}
}

func TestHandleReportGenerateUnit_MissingUnitNotRetried(t *testing.T) {
	svc := &fakeReportService{}
	h := handleReportGenerateUnit(svc, time.Minute)

	task := asynq.NewTask(TaskReportGenerateUnit, []byte(`{}`))
	if err := h(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("got %v, want SkipRetry", err)
	}
	if len(svc.unitRuns) != 0 {
		t.Errorf("service called without unit id")
	}
}

func TestHandleReportGenerateAll(t *testing.T) {
	svc := &fakeReportService{}
	h := handleReportGenerateAll(svc, time.Minute)

	task := asynq.NewTask(TaskReportGenerateAll, nil)
	if err := h(context.Background(), task); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if svc.allRuns != 1 {
		t.Errorf("all runs = %d", svc.allRuns)
	}
}

func TestHandleAnswerCreated_DispatchesAnswer(t *testing.T) {
	svc := &fakeAnswerService{}
	h := handleAnswerCreated(svc)

	task := asynq.NewTask(TaskAnswerCreated, []byte(`{"answerId":"ans-1"}`))
	if err := h(context.Background(), task); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(svc.handled) != 1 || svc.handled[0] != "ans-1" {
		t.Errorf("handled = %v", svc.handled)
	}
}

func TestHandleAnswerCreated_MalformedPayloadNotRetried(t *testing.T) {
	h := handleAnswerCreated(&fakeAnswerService{})

	task := asynq.NewTask(TaskAnswerCreated, []byte(`not-json`))
	if err := h(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("got %v, want SkipRetry", err)
	}
}
