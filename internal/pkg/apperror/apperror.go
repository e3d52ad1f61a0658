// Package apperror defines the error taxonomy: a closed set of
// operational error kinds plus INTERNAL for programmer/infrastructure
// faults, each mapped to an HTTP status and a sanitized client message.
package apperror

import (
	"context"
	"errors"
	"net/http"
)

// Kind is one of the eight error kinds the service recognizes.
type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindForbidden        Kind = "FORBIDDEN"
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindUnprocessable    Kind = "UNPROCESSABLE"
	KindRateLimited      Kind = "RATE_LIMITED"
	KindInternal         Kind = "INTERNAL"
)

var statusByKind = map[Kind]int{
	KindInvalidArgument: http.StatusBadRequest,
	KindUnauthorized:     http.StatusUnauthorized,
	KindForbidden:        http.StatusForbidden,
	KindNotFound:         http.StatusNotFound,
	KindConflict:         http.StatusConflict,
	KindUnprocessable:    http.StatusUnprocessableEntity,
	KindRateLimited:      http.StatusTooManyRequests,
	KindInternal:         http.StatusInternalServerError,
}

// Status returns the HTTP status code for a kind.
func (k Kind) Status() int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Operational reports whether the kind is a client-caused condition rather
// than a programmer/infrastructure fault. Only KindInternal is not
// operational.
func (k Kind) Operational() bool {
	return k != KindInternal
}

// Error is the structured error type carried from components up to the
// HTTP boundary.
type Error struct {
	Kind    Kind
	Message string
	// FieldErrors carries per-field validation failures for UNPROCESSABLE.
	FieldErrors map[string]string
	// Reasons carries risk-engine reason tags for FORBIDDEN/risk outcomes.
	Reasons []string
	// Err is the wrapped cause, logged but never sent to the client.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func InvalidArgument(message string, cause error) *Error { return newErr(KindInvalidArgument, message, cause) }
func Unauthorized(message string, cause error) *Error    { return newErr(KindUnauthorized, message, cause) }
func Forbidden(message string, cause error) *Error       { return newErr(KindForbidden, message, cause) }
func NotFound(message string, cause error) *Error        { return newErr(KindNotFound, message, cause) }
func Conflict(message string, cause error) *Error        { return newErr(KindConflict, message, cause) }
func RateLimited(message string, cause error) *Error     { return newErr(KindRateLimited, message, cause) }
func Internal(message string, cause error) *Error        { return newErr(KindInternal, message, cause) }

// Unprocessable builds a validation error carrying per-field messages.
func Unprocessable(message string, fieldErrors map[string]string) *Error {
	return &Error{Kind: KindUnprocessable, Message: message, FieldErrors: fieldErrors}
}

// InvalidArgumentWithFields builds a 400 INVALID_ARGUMENT error carrying
// per-field messages, for request-shape validation failures that are
// rejected outright rather than UNPROCESSABLE.
func InvalidArgumentWithFields(message string, fieldErrors map[string]string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message, FieldErrors: fieldErrors}
}

// ForbiddenWithReasons builds a FORBIDDEN error carrying risk-engine
// reason tags, for the REJECT and CHALLENGE decision paths.
func ForbiddenWithReasons(message string, reasons []string) *Error {
	return &Error{Kind: KindForbidden, Message: message, Reasons: reasons}
}

// As extracts an *Error from err, if present.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type requestIDKey struct{}

// WithRequestID attaches a request ID to ctx for later retrieval by the
// logging/response layer.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom reads the request ID previously attached with
// WithRequestID, or "unknown" if none was attached.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return "unknown"
}
