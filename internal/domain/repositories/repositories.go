package repositories

import (
	"context"

	"github.com/archmich514/kiog/internal/domain/entities"
)

// UnitRepository defines persistence operations for units
type UnitRepository interface {
	Create(ctx context.Context, unit *entities.Unit) error
	FindByID(ctx context.Context, id string) (*entities.Unit, error)
	ListAll(ctx context.Context) ([]*entities.Unit, error)
	AddMember(ctx context.Context, unitID, userID string) error
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*entities.User, error)
	Upsert(ctx context.Context, user *entities.User) error
	SetFCMToken(ctx context.Context, userID, token string) error
}

// RecordingRepository defines persistence operations for recordings.
// Status transitions are conditional on the expected prior status; the
// bool result reports whether the transition matched a document, so a
// concurrent run that already consumed the recording is observable.
type RecordingRepository interface {
	Create(ctx context.Context, rec *entities.Recording) error
	FindByID(ctx context.Context, id string) (*entities.Recording, error)
	FindByUnitAndStatus(ctx context.Context, unitID string, status entities.RecordingStatus) ([]*entities.Recording, error)
	DistinctUnitIDsByStatus(ctx context.Context, status entities.RecordingStatus) ([]string, error)
	MarkUploaded(ctx context.Context, id, storagePath string) (bool, error)
	MarkTranscribed(ctx context.Context, id, transcript string) (bool, error)
	MarkReported(ctx context.Context, id string) (bool, error)
}

// AnswerRepository defines persistence operations for answers
type AnswerRepository interface {
	Create(ctx context.Context, answer *entities.Answer) error
	FindByID(ctx context.Context, id string) (*entities.Answer, error)
	FindByUnitAndDate(ctx context.Context, unitID, date string) ([]*entities.Answer, error)
	// AddPrediction appends the prediction and unions the predictor into
	// viewedBy; replaying the same submission must not duplicate the
	// viewedBy entry.
	AddPrediction(ctx context.Context, answerID string, p entities.Prediction) error
	MarkViewed(ctx context.Context, answerID, userID string) error
}

// ReportRepository defines persistence operations for reports
type ReportRepository interface {
	Create(ctx context.Context, report *entities.Report) error
	FindByUnitAndDate(ctx context.Context, unitID, date string) (*entities.Report, error)
	SetNotifiedAt(ctx context.Context, reportID string) error
}

// QuestionCatalog provides read access to the immutable master question
// pool, in catalog (id) order.
type QuestionCatalog interface {
	ListBySlot(ctx context.Context, slot entities.TimeSlot) ([]*entities.Question, error)
}

// QuestionStatsRepository manages per-unit display counters. Increment
// and Reset are single-document atomic updates at the storage layer.
type QuestionStatsRepository interface {
	GetCounts(ctx context.Context, unitID string, slot entities.TimeSlot) (map[string]int, error)
	IncrementCounts(ctx context.Context, unitID string, slot entities.TimeSlot, questionIDs []string) error
	// ResetCounts zeroes every id in poolIDs and sets selectedIDs to 1,
	// in one update, starting a fresh rotation cycle.
	ResetCounts(ctx context.Context, unitID string, slot entities.TimeSlot, poolIDs, selectedIDs []string) error
}

// CurrentQuestionsRepository stores the per-unit active question set
type CurrentQuestionsRepository interface {
	Upsert(ctx context.Context, cq *entities.CurrentQuestions) error
	FindByUnit(ctx context.Context, unitID string) (*entities.CurrentQuestions, error)
}
