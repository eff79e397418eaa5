package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Request validation errors
	ErrCodeValidation        ErrorCode = "VALIDATION"
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// Upstream (third-party API) errors
	ErrCodeUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamHTTP    ErrorCode = "UPSTREAM_HTTP"
	ErrCodeUpstreamEmpty   ErrorCode = "UPSTREAM_EMPTY"

	// Transcoder errors
	ErrCodeTranscodeUnavailable ErrorCode = "TRANSCODE_UNAVAILABLE"
	ErrCodeTranscodeFailed      ErrorCode = "TRANSCODE_FAILED"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AppError represents a classified gateway failure
type AppError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Details  string    `json:"details,omitempty"`
	Cause    error     `json:"-"`
	HTTPCode int       `json:"-"`

	// UpstreamStatus is the status returned by the upstream API, if any
	UpstreamStatus int `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails sets the client-visible details string
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause sets the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithStatus overrides the HTTP status returned to the client
func (e *AppError) WithStatus(status int) *AppError {
	e.HTTPCode = status
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// getDefaultHTTPCode returns the default HTTP status code for an error code
func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeUnsupportedFormat, ErrCodeTranscodeFailed:
		return http.StatusBadRequest
	case ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstreamHTTP, ErrCodeTranscodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeUpstreamEmpty:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

// Validation creates a 400 validation error
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// TooLarge creates a validation error for an oversized payload (413)
func TooLarge(message string, size, limit int64) *AppError {
	return New(ErrCodeValidation, message).
		WithStatus(http.StatusRequestEntityTooLarge).
		WithDetails(fmt.Sprintf("size %d exceeds limit %d", size, limit))
}

// UnsupportedFormat creates an error for a disallowed file extension or mime type
func UnsupportedFormat(message string) *AppError {
	return New(ErrCodeUnsupportedFormat, message)
}

// UpstreamTimeout creates an error for an outbound call that exceeded its deadline
func UpstreamTimeout(service string, cause error) *AppError {
	return Wrap(cause, ErrCodeUpstreamTimeout, fmt.Sprintf("%s request timed out", service))
}

// UpstreamHTTP creates an error for a non-2xx upstream response. The client
// status is derived from the upstream status with UpstreamStatusToHTTP.
func UpstreamHTTP(service string, upstreamStatus int, upstreamMessage string) *AppError {
	e := New(ErrCodeUpstreamHTTP, fmt.Sprintf("%s API error", service)).
		WithStatus(UpstreamStatusToHTTP(upstreamStatus))
	e.UpstreamStatus = upstreamStatus
	if upstreamMessage != "" {
		e.Details = upstreamMessage
	} else if upstreamStatus != 0 {
		e.Details = fmt.Sprintf("upstream returned HTTP %d", upstreamStatus)
	}
	return e
}

// UpstreamUnreachable creates an error for a transport failure that was not a timeout
func UpstreamUnreachable(service string, cause error) *AppError {
	return Wrap(cause, ErrCodeUpstreamHTTP, fmt.Sprintf("%s API unreachable", service))
}

// UpstreamEmpty creates an error for a successful upstream call without usable output
func UpstreamEmpty(service string) *AppError {
	return New(ErrCodeUpstreamEmpty, fmt.Sprintf("Empty response from %s", service))
}

// TranscodeUnavailable creates an error for a missing or broken conversion binary
func TranscodeUnavailable(cause error) *AppError {
	return Wrap(cause, ErrCodeTranscodeUnavailable, "Audio conversion is currently unavailable")
}

// TranscodeFailed creates an error for input audio the converter could not decode
func TranscodeFailed(cause error) *AppError {
	return Wrap(cause, ErrCodeTranscodeFailed, "Unsupported or corrupt audio")
}

// Internal creates a generic internal error; the cause is never shown to clients
func Internal(cause error) *AppError {
	return Wrap(cause, ErrCodeInternal, "Internal server error")
}

// UpstreamStatusToHTTP maps an upstream status to the status returned to the
// client. 429 and 403 keep their meaning, 400 means the upstream rejected the
// media we relayed, everything else collapses to 503.
func UpstreamStatusToHTTP(upstreamStatus int) int {
	switch upstreamStatus {
	case http.StatusTooManyRequests, http.StatusForbidden, http.StatusBadRequest:
		return upstreamStatus
	default:
		return http.StatusServiceUnavailable
	}
}

// As extracts an *AppError from err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is checks if an error is of a specific type
func Is(err error, code ErrorCode) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetHTTPCode extracts the HTTP status code from an error
func GetHTTPCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.GetHTTPCode()
	}
	return http.StatusInternalServerError
}
