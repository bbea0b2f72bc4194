// Package errors provides custom error types for the fitbot answer client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrAnswerRequestFailed = errors.New("answer request failed")
	ErrInvalidResponse     = errors.New("invalid response format")
	ErrEmptyQuestion       = errors.New("question cannot be empty")
)

// Reason classifies why an answer request failed. The chat UI does not
// distinguish reasons; they exist for logs and command-line hints.
type Reason string

const (
	ReasonUnknown   Reason = ""
	ReasonTransport Reason = "transport"
	ReasonTimeout   Reason = "timeout"
	ReasonStatus    Reason = "status"
	ReasonMalformed Reason = "malformed"
)

// AnswerRequestError is the single error kind returned by the answer client.
// It covers transport errors, timeouts, non-2xx statuses and responses
// without a usable answer field.
type AnswerRequestError struct {
	Op         string
	Endpoint   string
	StatusCode int
	Body       string
	Reason     Reason
	Cause      error
}

func (e *AnswerRequestError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Op)
	if e.Endpoint != "" {
		msg += " at " + e.Endpoint
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" [%d]", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *AnswerRequestError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with sentinel errors
func (e *AnswerRequestError) Is(target error) bool {
	if target == ErrAnswerRequestFailed {
		return true
	}
	if target == ErrInvalidResponse {
		return e.Reason == ReasonMalformed
	}
	_, ok := target.(*AnswerRequestError)
	return ok
}

// NewTransportError creates an AnswerRequestError for a failed round trip
func NewTransportError(op, endpoint string, cause error) *AnswerRequestError {
	return &AnswerRequestError{Op: op, Endpoint: endpoint, Reason: ReasonTransport, Cause: cause}
}

// NewTimeoutError creates an AnswerRequestError for an elapsed deadline
func NewTimeoutError(op, endpoint string, cause error) *AnswerRequestError {
	return &AnswerRequestError{Op: op, Endpoint: endpoint, Reason: ReasonTimeout, Cause: cause}
}

// NewStatusError creates an AnswerRequestError for a non-success HTTP status
func NewStatusError(op, endpoint string, status int, body string) *AnswerRequestError {
	return &AnswerRequestError{
		Op:         op,
		Endpoint:   endpoint,
		StatusCode: status,
		Body:       body,
		Reason:     ReasonStatus,
		Cause:      fmt.Errorf("unexpected status %d", status),
	}
}

// NewMalformedError creates an AnswerRequestError for an unusable response body
func NewMalformedError(op, endpoint, message string) *AnswerRequestError {
	return &AnswerRequestError{
		Op:       op,
		Endpoint: endpoint,
		Reason:   ReasonMalformed,
		Cause:    fmt.Errorf("%w: %s", ErrInvalidResponse, message),
	}
}

// IsAnswerRequestFailed reports whether err is (or wraps) an answer request failure
func IsAnswerRequestFailed(err error) bool {
	return errors.Is(err, ErrAnswerRequestFailed)
}

// IsTimeout reports whether err is an answer request that ran out of time
func IsTimeout(err error) bool {
	return GetReason(err) == ReasonTimeout
}

// GetReason extracts the failure reason, or ReasonUnknown
func GetReason(err error) Reason {
	var e *AnswerRequestError
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonUnknown
}

// GetHTTPStatus extracts the HTTP status code, or 0
func GetHTTPStatus(err error) int {
	var e *AnswerRequestError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint the request was sent to
func GetEndpoint(err error) string {
	var e *AnswerRequestError
	if errors.As(err, &e) {
		return e.Endpoint
	}
	return ""
}

// GetResponseBody extracts the (truncated) error response body
func GetResponseBody(err error) string {
	var e *AnswerRequestError
	if errors.As(err, &e) {
		return e.Body
	}
	return ""
}
