// Package errors provides the error taxonomy shared by the coordinator and the job workers,
// and its translation into BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeConflict            ErrorCode = "CONFLICT"
	ErrCodeExternalUnavailable ErrorCode = "EXTERNAL_UNAVAILABLE"
	ErrCodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	ErrCodeDatabase            ErrorCode = "DATABASE_ERROR"
	ErrCodeNotificationFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeIndexingFailed      ErrorCode = "INDEXING_FAILED"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Sentinels usable with errors.Is against any *StandardError carrying the same code.
var (
	ErrValidation          = &StandardError{Code: ErrCodeValidation}
	ErrNotFound            = &StandardError{Code: ErrCodeNotFound}
	ErrConflict            = &StandardError{Code: ErrCodeConflict}
	ErrExternalUnavailable = &StandardError{Code: ErrCodeExternalUnavailable}
	ErrInvalidTransition   = &StandardError{Code: ErrCodeInvalidTransition}
	ErrDatabase            = &StandardError{Code: ErrCodeDatabase}
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches on code so callers can compare against the package sentinels.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata attaches a key/value pair and returns the receiver.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

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

// ==========================
// 3. Error Constructors
// ==========================

// NewValidationError reports malformed input on a named field.
func NewValidationError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   fmt.Sprintf("Invalid value for '%s'", field),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", entity),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Metadata:  map[string]interface{}{"entity": entity, "id": id},
		Timestamp: time.Now().UTC(),
	}
}

// NewConflictError reports a violated uniqueness rule.
func NewConflictError(entity, key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConflict,
		Message:   fmt.Sprintf("%s already exists", entity),
		Details:   key,
		Retryable: false,
		Metadata:  map[string]interface{}{"entity": entity},
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalUnavailableError reports a failed or timed out call to an outside service.
func NewExternalUnavailableError(service string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeExternalUnavailable,
		Message:   fmt.Sprintf("External service '%s' unavailable", service),
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidTransitionError reports an unknown or illegal state tag.
func NewInvalidTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Invalid state transition",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseError wraps a storage failure.
func NewDatabaseError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabase,
		Message:   "Database operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %v", operation, err),
		Retryable: true,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %v", channel, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewIndexingFailedError creates a retryable search indexing error.
func NewIndexingFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexingFailed,
		Message:   "Search indexing failed",
		Details:   fmt.Sprintf("index: %s, error: %v", index, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Inspection helpers
// ==========================

// CodeOf returns the code of the first StandardError in the chain, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool            { return stderrors.Is(err, ErrNotFound) }
func IsConflict(err error) bool            { return stderrors.Is(err, ErrConflict) }
func IsValidation(err error) bool          { return stderrors.Is(err, ErrValidation) }
func IsExternalUnavailable(err error) bool { return stderrors.Is(err, ErrExternalUnavailable) }
func IsInvalidTransition(err error) bool   { return stderrors.Is(err, ErrInvalidTransition) }

// UserMessage renders an error for display. Transport detail of external failures is
// never surfaced.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch CodeOf(err) {
	case ErrCodeExternalUnavailable:
		return "service temporarily unavailable, please try again"
	case ErrCodeNotFound, ErrCodeConflict, ErrCodeValidation, ErrCodeInvalidTransition:
		var stdErr *StandardError
		stderrors.As(err, &stdErr)
		return stdErr.Message
	default:
		return "an unexpected error occurred"
	}
}

// ==========================
// 5. BPMN mapping
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidation:          "VALIDATION_ERROR",
	ErrCodeNotFound:            "NOT_FOUND",
	ErrCodeConflict:            "CONFLICT",
	ErrCodeExternalUnavailable: "EXTERNAL_UNAVAILABLE",
	ErrCodeInvalidTransition:   "INVALID_TRANSITION",
	ErrCodeDatabase:            "DATABASE_ERROR",
	ErrCodeNotificationFailed:  "NOTIFICATION_SEND_FAILED",
	ErrCodeIndexingFailed:      "INDEXING_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabase, ErrCodeNotificationFailed, ErrCodeIndexingFailed:
		return 3
	case ErrCodeExternalUnavailable:
		return 2
	default:
		return 0 // business errors: no retry
	}
}

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

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "EXTERNAL"):
		return "EXTERNAL"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INDEXING"):
		return "SEARCH"
	case strings.Contains(codeStr, "VALIDATION"), strings.Contains(codeStr, "TRANSITION"):
		return "VALIDATION"
	case code == ErrCodeNotFound, code == ErrCodeConflict:
		return "BUSINESS"
	default:
		return "OTHER"
	}
}
