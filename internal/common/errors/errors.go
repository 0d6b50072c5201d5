// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Pipeline errors
const (
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidReferenceDate ErrorCode = "INVALID_REFERENCE_DATE"
	ErrCodeTranscriptEmpty      ErrorCode = "TRANSCRIPT_EMPTY"

	ErrCodeRosterInvalid    ErrorCode = "ROSTER_INVALID"
	ErrCodeRosterLoadFailed ErrorCode = "ROSTER_LOAD_FAILED"
	ErrCodeTeamNotFound     ErrorCode = "ROSTER_TEAM_NOT_FOUND"

	ErrCodeAudioValidationFailed ErrorCode = "AUDIO_VALIDATION_FAILED"
	ErrCodeTranscriptionFailed   ErrorCode = "TRANSCRIPTION_FAILED"
	ErrCodeTranscriptionTimeout  ErrorCode = "TRANSCRIPTION_TIMEOUT"

	ErrCodeTaskExtractionFailed       ErrorCode = "TASK_EXTRACTION_FAILED"
	ErrCodeDependencyResolutionFailed ErrorCode = "DEPENDENCY_RESOLUTION_FAILED"
)

// Infrastructure errors
const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeTaskIndexFailed               ErrorCode = "TASK_INDEX_FAILED"
	ErrCodeIndexTimeout                  ErrorCode = "INDEX_TIMEOUT"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false)
}

func NewInvalidReferenceDateError(value string) *StandardError {
	return newError(ErrCodeInvalidReferenceDate, "Reference date must be YYYY-MM-DD", fmt.Sprintf("referenceDate: %s", value), false)
}

func NewTranscriptEmptyError() *StandardError {
	return newError(ErrCodeTranscriptEmpty, "Transcript is empty", "", false)
}

// NewRosterInvalidError reports roster members that failed validation.
func NewRosterInvalidError(details string) *StandardError {
	return newError(ErrCodeRosterInvalid, "Team roster failed validation", details, false)
}

// NewRosterLoadFailedError is retryable: the roster store or its cache was
// unreachable.
func NewRosterLoadFailedError(err error) *StandardError {
	return newError(ErrCodeRosterLoadFailed, "Team roster could not be loaded", err.Error(), true)
}

func NewTeamNotFoundError(teamID string) *StandardError {
	return newError(ErrCodeTeamNotFound, "Team has no active members", fmt.Sprintf("teamId: %s", teamID), false)
}

func NewAudioValidationFailedError(details string) *StandardError {
	return newError(ErrCodeAudioValidationFailed, "Audio validation failed", details, false)
}

func NewTranscriptionFailedError(err error) *StandardError {
	return newError(ErrCodeTranscriptionFailed, "Transcription service error", err.Error(), true)
}

func NewTranscriptionTimeoutError() *StandardError {
	return newError(ErrCodeTranscriptionTimeout, "Transcription timed out", "", true)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("queryType: %s", queryType), true)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true)
}

func NewTaskIndexFailedError(err error) *StandardError {
	return newError(ErrCodeTaskIndexFailed, "Task indexing failed", err.Error(), true)
}

func NewIndexTimeoutError() *StandardError {
	return newError(ErrCodeIndexTimeout, "Task indexing timed out", "", true)
}

func NewSearchQueryFailedError(err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Task search failed", err.Error(), true)
}

func NewSearchTimeoutError() *StandardError {
	return newError(ErrCodeSearchTimeout, "Task search timed out", "", true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError("BUSINESS_RULE_VIOLATION", message, details, false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError("AUTHENTICATION_ERROR", "Authentication failed", details, false)
}

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the meeting process. They are identical today.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:                  "INVALID_INPUT",
	ErrCodeInvalidReferenceDate:          "INVALID_REFERENCE_DATE",
	ErrCodeTranscriptEmpty:               "TRANSCRIPT_EMPTY",
	ErrCodeRosterInvalid:                 "ROSTER_INVALID",
	ErrCodeRosterLoadFailed:              "ROSTER_LOAD_FAILED",
	ErrCodeTeamNotFound:                  "ROSTER_TEAM_NOT_FOUND",
	ErrCodeAudioValidationFailed:         "AUDIO_VALIDATION_FAILED",
	ErrCodeTranscriptionFailed:           "TRANSCRIPTION_FAILED",
	ErrCodeTranscriptionTimeout:          "TRANSCRIPTION_TIMEOUT",
	ErrCodeTaskExtractionFailed:          "TASK_EXTRACTION_FAILED",
	ErrCodeDependencyResolutionFailed:    "DEPENDENCY_RESOLUTION_FAILED",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                  "QUERY_TIMEOUT",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeTaskIndexFailed:               "TASK_INDEX_FAILED",
	ErrCodeIndexTimeout:                  "INDEX_TIMEOUT",
	ErrCodeSearchQueryFailed:             "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:                 "SEARCH_TIMEOUT",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for a code. Zero means
// the error is thrown to the process instead of retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeRosterLoadFailed,
		ErrCodeTranscriptionFailed,
		ErrCodeTaskIndexFailed,
		ErrCodeQueryTimeout,
		ErrCodeIndexTimeout,
		ErrCodeSearchQueryFailed,
		ErrCodeSearchTimeout:
		return 2

	case ErrCodeTranscriptionTimeout:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ROSTER"):
		return "ROSTER"
	case strings.Contains(codeStr, "AUDIO") || strings.Contains(codeStr, "TRANSCRI"):
		return "INGESTION"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "EXTRACTION") || strings.Contains(codeStr, "DEPENDENCY"):
		return "PIPELINE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
