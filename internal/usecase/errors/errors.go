package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInternalError = errors.New("internal server error")
)

// Unit errors
var (
	ErrUnitNotFound  = errors.New("unit not found")
	ErrUnitNoMembers = errors.New("unit has no resolvable members")
	ErrUnitFull      = errors.New("unit already has two members")
	ErrAlreadyInUnit = errors.New("user already belongs to a unit")
	ErrNotUnitMember = errors.New("user is not a member of this unit")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoPushToken  = errors.New("user has no push token")
)

// Recording errors
var (
	ErrRecordingNotFound    = errors.New("recording not found")
	ErrRecordingWrongStatus = errors.New("recording is not in the expected status")
	ErrRecordingDownload    = errors.New("failed to download recording audio")
	ErrTranscriptionFailed  = errors.New("transcription failed")
	ErrNoTranscripts        = errors.New("no transcripts produced for unit")
)

// Question errors
var (
	ErrInvalidTimeSlot = errors.New("timeSlot must be 'morning', 'afternoon', or 'evening'")
	ErrEmptyCatalog    = errors.New("question catalog is empty for slot")
)

// Answer errors
var (
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrPredictOwnAnswer = errors.New("cannot predict your own answer")
)

// Report errors
var (
	ErrReportNotFound        = errors.New("report not found")
	ErrReportSynthesisFailed = errors.New("report synthesis failed")
)
