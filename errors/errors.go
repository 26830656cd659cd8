package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode identifies application error categories on the wire
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004

	ErrorCode_UNIT_NOT_FOUND   ErrorCode = 2000
	ErrorCode_UNIT_NO_MEMBERS  ErrorCode = 2001
	ErrorCode_USER_NOT_FOUND   ErrorCode = 2002
	ErrorCode_ANSWER_NOT_FOUND ErrorCode = 2003
	ErrorCode_OWN_ANSWER       ErrorCode = 2004
	ErrorCode_UNIT_FULL        ErrorCode = 2005
	ErrorCode_ALREADY_IN_UNIT  ErrorCode = 2006
	ErrorCode_NOT_UNIT_MEMBER  ErrorCode = 2007

	ErrorCode_RECORDING_NOT_FOUND        ErrorCode = 3000
	ErrorCode_RECORDING_INVALID_STATE    ErrorCode = 3001
	ErrorCode_RECORDING_DOWNLOAD_FAILED  ErrorCode = 3002
	ErrorCode_TRANSCRIPTION_FAILED       ErrorCode = 3003
	ErrorCode_REPORT_GENERATION_FAILED   ErrorCode = 3004
	ErrorCode_REPORT_NOT_FOUND           ErrorCode = 3005
	ErrorCode_QUESTION_GENERATION_FAILED ErrorCode = 3006
	ErrorCode_INVALID_TIME_SLOT          ErrorCode = 3007

	ErrorCode_DB_QUERY_FAILED            ErrorCode = 4000
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 4001
	ErrorCode_INTEGRATION_PUSH_FAILED    ErrorCode = 4002
	ErrorCode_INTEGRATION_QUEUE_FAILED   ErrorCode = 4003
	ErrorCode_INTEGRATION_AI_CALL_FAILED ErrorCode = 4004
)

// String returns the numeric code as text for log fields
func (c ErrorCode) String() string {
	return fmt.Sprintf("%d", int(c))
}

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid request payload",
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// Unit / member errors
func ErrUnitNotFound(unitID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_UNIT_NOT_FOUND,
		Message:  "Unit not found",
	}.WithDetail("unit_id", unitID)
}

func ErrUnitHasNoMembers(unitID string) AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_UNIT_NO_MEMBERS,
		Message:  "Unit has no resolvable members",
	}.WithDetail("unit_id", unitID)
}

func ErrUserNotFound(userID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_USER_NOT_FOUND,
		Message:  "User not found",
	}.WithDetail("user_id", userID)
}

func ErrUnitFull(unitID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_UNIT_FULL,
		Message:  "Unit already has two members",
	}.WithDetail("unit_id", unitID)
}

func ErrAlreadyInUnit(userID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_ALREADY_IN_UNIT,
		Message:  "User already belongs to a unit",
	}.WithDetail("user_id", userID)
}

func ErrNotUnitMember(unitID, userID string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_NOT_UNIT_MEMBER,
		Message:  "User is not a member of this unit",
	}.WithDetail("unit_id", unitID).
		WithDetail("user_id", userID)
}

func ErrAnswerNotFound(answerID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_ANSWER_NOT_FOUND,
		Message:  "Answer not found",
	}.WithDetail("answer_id", answerID)
}

func ErrPredictOwnAnswer() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_OWN_ANSWER,
		Message:  "Author cannot predict their own answer",
	}
}

// Recording / pipeline errors
func ErrRecordingNotFound(recordingID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_RECORDING_NOT_FOUND,
		Message:  "Recording not found",
	}.WithDetail("recording_id", recordingID)
}

func ErrRecordingInvalidState(recordingID, currentState, expectedState string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_RECORDING_INVALID_STATE,
		Message:  "Recording is in invalid state for this transition",
	}.WithDetail("recording_id", recordingID).
		WithDetail("current_state", currentState).
		WithDetail("expected_state", expectedState)
}

func ErrRecordingDownloadFailed(recordingID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_RECORDING_DOWNLOAD_FAILED,
		Message:  "Failed to download recording audio",
	}.WithDetail("recording_id", recordingID)
}

func ErrTranscriptionFailed(recordingID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_TRANSCRIPTION_FAILED,
		Message:  "Transcription failed",
	}.WithDetail("recording_id", recordingID)
}

func ErrReportGenerationFailed(unitID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_REPORT_GENERATION_FAILED,
		Message:  "Report generation failed",
	}.WithDetail("unit_id", unitID)
}

func ErrReportNotFound(unitID, date string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_REPORT_NOT_FOUND,
		Message:  "Report not found",
	}.WithDetail("unit_id", unitID).
		WithDetail("date", date)
}

func ErrQuestionGenerationFailed(unitID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_QUESTION_GENERATION_FAILED,
		Message:  "Question generation failed",
	}.WithDetail("unit_id", unitID)
}

func ErrInvalidTimeSlot(slot string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_TIME_SLOT,
		Message:  "timeSlot must be 'morning', 'afternoon', or 'evening'",
	}.WithDetail("time_slot", slot)
}

// Infrastructure errors
func ErrDBQueryFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}
}

func ErrStorageFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORAGE_FAILED,
		Message:  "Object storage operation failed",
	}
}

func ErrPushFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_PUSH_FAILED,
		Message:  "Push notification delivery failed",
	}
}

func ErrEnqueueFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_QUEUE_FAILED,
		Message:  "Failed to enqueue task",
	}
}

func ErrAICallFailed(service string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_INTEGRATION_AI_CALL_FAILED,
		Message:  "Remote AI call failed",
	}.WithDetail("service", service)
}
