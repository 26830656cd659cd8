package debug

// GenerateReportRequest triggers an on-demand report run for one unit
type GenerateReportRequest struct {
	UnitID string `json:"unitId" validate:"required"`
}

// GenerateQuestionsRequest triggers an on-demand question run for one slot
type GenerateQuestionsRequest struct {
	TimeSlot string `json:"timeSlot" validate:"required,oneof=morning afternoon evening"`
}

// EnqueuedResponse acknowledges that a background run was scheduled
type EnqueuedResponse struct {
	Task   string `json:"task"`
	Status string `json:"status"`
}
