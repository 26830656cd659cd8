package entities

import (
	"time"

	"github.com/google/uuid"
)

// AnswerSummary is one member's answer plus predictions, embedded in a report
type AnswerSummary struct {
	UserName    string       `json:"userName" bson:"userName"`
	Answer      string       `json:"answer" bson:"answer"`
	Predictions []Prediction `json:"predictions" bson:"predictions"`
}

// QuestionAnswers groups the day's answers under the question they
// responded to, keyed by question text.
type QuestionAnswers struct {
	QuestionText string          `json:"questionText" bson:"questionText"`
	Answers      []AnswerSummary `json:"answers" bson:"answers"`
}

// Report is the synthesized daily summary for a unit. Created once per
// unit per day; only NotifiedAt changes after creation.
type Report struct {
	ID              string            `json:"id" bson:"_id"`
	UnitID          string            `json:"unitId" bson:"unitId"`
	Date            string            `json:"date" bson:"date"`
	Content         string            `json:"content" bson:"content"`
	Tags            []string          `json:"tags" bson:"tags"`
	RecordingIDs    []string          `json:"recordingIds" bson:"recordingIds"`
	QuestionAnswers []QuestionAnswers `json:"questionAnswers" bson:"questionAnswers"`
	CreatedAt       time.Time         `json:"createdAt" bson:"createdAt"`
	NotifiedAt      *time.Time        `json:"notifiedAt,omitempty" bson:"notifiedAt,omitempty"`
}

// NewReport assembles a report document ready for persistence
func NewReport(unitID, date, content string, tags []string, recordingIDs []string, qa []QuestionAnswers) *Report {
	if tags == nil {
		tags = []string{}
	}
	return &Report{
		ID:              uuid.New().String(),
		UnitID:          unitID,
		Date:            date,
		Content:         content,
		Tags:            tags,
		RecordingIDs:    recordingIDs,
		QuestionAnswers: qa,
		CreatedAt:       time.Now(),
	}
}

// GroupAnswersByQuestion builds the report's nested question/answer
// structure, grouping by question text in first-seen order.
func GroupAnswersByQuestion(answers []*Answer) []QuestionAnswers {
	grouped := make([]QuestionAnswers, 0)
	index := make(map[string]int)

	for _, a := range answers {
		if a == nil {
			continue
		}
		i, ok := index[a.QuestionText]
		if !ok {
			i = len(grouped)
			index[a.QuestionText] = i
			grouped = append(grouped, QuestionAnswers{
				QuestionText: a.QuestionText,
				Answers:      []AnswerSummary{},
			})
		}
		preds := a.Predictions
		if preds == nil {
			preds = []Prediction{}
		}
		grouped[i].Answers = append(grouped[i].Answers, AnswerSummary{
			UserName:    a.UserName,
			Answer:      a.Answer,
			Predictions: preds,
		})
	}
	return grouped
}
