package entities

import (
	"time"

	"github.com/google/uuid"
)

// RecordingStatus is the closed set of recording lifecycle states.
// Transitions are monotonic: uploading -> uploaded -> transcribed -> reported.
type RecordingStatus string

const (
	RecordingStatusUploading   RecordingStatus = "uploading"
	RecordingStatusUploaded    RecordingStatus = "uploaded"
	RecordingStatusTranscribed RecordingStatus = "transcribed"
	RecordingStatusReported    RecordingStatus = "reported"
)

// recordingTransitions is the legal next state per state. A state absent
// from the map is terminal.
var recordingTransitions = map[RecordingStatus]RecordingStatus{
	RecordingStatusUploading:   RecordingStatusUploaded,
	RecordingStatusUploaded:    RecordingStatusTranscribed,
	RecordingStatusTranscribed: RecordingStatusReported,
}

// CanTransitionTo reports whether next is a legal transition from s
func (s RecordingStatus) CanTransitionTo(next RecordingStatus) bool {
	allowed, ok := recordingTransitions[s]
	return ok && allowed == next
}

// Valid reports whether s is a known status value
func (s RecordingStatus) Valid() bool {
	switch s {
	case RecordingStatusUploading, RecordingStatusUploaded,
		RecordingStatusTranscribed, RecordingStatusReported:
		return true
	}
	return false
}

// Recording represents one audio capture session of a unit
type Recording struct {
	ID          string          `json:"id" bson:"_id"`
	UnitID      string          `json:"unitId" bson:"unitId"`
	UserID      string          `json:"userId" bson:"userId"`
	Duration    int             `json:"duration" bson:"duration"`
	StoragePath string          `json:"storagePath,omitempty" bson:"storagePath,omitempty"`
	Status      RecordingStatus `json:"status" bson:"status"`
	Transcript  string          `json:"transcript,omitempty" bson:"transcript,omitempty"`
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
	UploadedAt  *time.Time      `json:"uploadedAt,omitempty" bson:"uploadedAt,omitempty"`
}

// NewRecording creates a recording in the uploading state
func NewRecording(unitID, userID string, duration int) *Recording {
	return &Recording{
		ID:        uuid.New().String(),
		UnitID:    unitID,
		UserID:    userID,
		Duration:  duration,
		Status:    RecordingStatusUploading,
		CreatedAt: time.Now(),
	}
}

// ObjectName is the blob key for this recording's audio file
func (r *Recording) ObjectName() string {
	return "recordings/" + r.UnitID + "/" + r.ID + ".m4a"
}
