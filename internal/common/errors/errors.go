// Package errors provides standardized error handling for the qualification
// pipeline and its collaborators.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Responder failures degrade the reply, never the turn.
	ErrCodeResponderTimeout ErrorCode = "RESPONDER_TIMEOUT"
	ErrCodeResponderFailed  ErrorCode = "RESPONDER_FAILED"

	// Side-effect failures are logged and swallowed.
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeLeadPersistFailed      ErrorCode = "LEAD_PERSIST_FAILED"
	ErrCodeTranscriptLogFailed    ErrorCode = "TRANSCRIPT_LOG_FAILED"
	ErrCodeLeadIndexFailed        ErrorCode = "LEAD_INDEX_FAILED"

	ErrCodeSessionLoadFailed ErrorCode = "SESSION_LOAD_FAILED"
	ErrCodeSessionSaveFailed ErrorCode = "SESSION_SAVE_FAILED"

	ErrCodeRequestInvalid ErrorCode = "REQUEST_INVALID"
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

// NewResponderTimeoutError marks a bounded-timeout expiry on the model call.
func NewResponderTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponderTimeout,
		Message:   "Responder call timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponderFailedError marks a non-timeout model call failure.
func NewResponderFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponderFailed,
		Message:   "Responder call failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSideEffectError wraps a best-effort notification/persistence failure.
func NewSideEffectError(code ErrorCode, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   "Side effect failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestInvalidError marks a chat request that failed schema validation.
func NewRequestInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestInvalid,
		Message:   "Invalid chat request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
