package answer

// CreateAnswerRequest submits a member's answer to one of today's questions
type CreateAnswerRequest struct {
	UserID       string  `json:"userId" validate:"required"`
	TimeSlot     string  `json:"timeSlot" validate:"required,oneof=morning afternoon evening"`
	QuestionID   *string `json:"questionId"`
	QuestionText string  `json:"questionText" validate:"required"`
	IsAI         bool    `json:"isAI"`
	Answer       string  `json:"answer" validate:"required,max=2000"`
}

// SubmitPredictionRequest records a member's guess at the partner's answer
type SubmitPredictionRequest struct {
	UserID string `json:"userId" validate:"required"`
	Text   string `json:"text" validate:"required,max=2000"`
}

// MarkViewedRequest records that a member opened an answer
type MarkViewedRequest struct {
	UserID string `json:"userId" validate:"required"`
}
