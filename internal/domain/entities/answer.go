package entities

import (
	"time"

	"github.com/google/uuid"
)

// Prediction is one member's guess at the other's answer
type Prediction struct {
	UserID    string    `json:"userId" bson:"userId"`
	UserName  string    `json:"userName" bson:"userName"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Answer is a member's response to a presented question. ViewedBy has
// set semantics: a member appears at most once regardless of how many
// times a view or prediction is recorded.
type Answer struct {
	ID           string       `json:"id" bson:"_id"`
	UnitID       string       `json:"unitId" bson:"unitId"`
	Date         string       `json:"date" bson:"date"`
	TimeSlot     TimeSlot     `json:"timeSlot" bson:"timeSlot"`
	QuestionID   *string      `json:"questionId" bson:"questionId"`
	QuestionText string       `json:"questionText" bson:"questionText"`
	IsAI         bool         `json:"isAI" bson:"isAI"`
	UserID       string       `json:"userId" bson:"userId"`
	UserName     string       `json:"userName" bson:"userName"`
	Answer       string       `json:"answer" bson:"answer"`
	Predictions  []Prediction `json:"predictions" bson:"predictions"`
	ViewedBy     []string     `json:"viewedBy" bson:"viewedBy"`
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt"`
}

// NewAnswer creates an answer document for the given question
func NewAnswer(unitID, date string, slot TimeSlot, question SelectedQuestion, userID, userName, text string) *Answer {
	return &Answer{
		ID:           uuid.New().String(),
		UnitID:       unitID,
		Date:         date,
		TimeSlot:     slot,
		QuestionID:   question.ID,
		QuestionText: question.Text,
		IsAI:         question.IsAI,
		UserID:       userID,
		UserName:     userName,
		Answer:       text,
		Predictions:  []Prediction{},
		ViewedBy:     []string{},
		CreatedAt:    time.Now(),
	}
}
