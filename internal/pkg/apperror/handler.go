package apperror

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	applogger "github.com/mwork/mwork-api/internal/pkg/logger"
	"github.com/mwork/mwork-api/internal/pkg/response"
)

// securityKinds are the operational kinds that warrant a
// SECURITY event, beyond the rate limiter and risk engine's own
// explicit SECURITY logging.
var securityKinds = map[Kind]bool{
	KindForbidden: true,
}

// Write formats and sends the client response for err, logging full
// context server-side. Non-operational (INTERNAL) errors are rewritten to
// a generic message before they reach the client; stack traces and
// internal messages never cross the boundary.
func Write(ctx context.Context, w http.ResponseWriter, err error) {
	appErr, ok := As(err)
	if !ok {
		appErr = Internal("unexpected error", err)
	}

	requestID := RequestIDFrom(ctx)
	logEvent := log.Error().
		Str("request_id", requestID).
		Str("error_kind", string(appErr.Kind)).
		Int("status_code", appErr.Kind.Status())

	if appErr.Err != nil {
		logEvent = logEvent.Err(appErr.Err)
	}

	eventType := "ERROR"
	if securityKinds[appErr.Kind] {
		eventType = "SECURITY"
	}
	logEvent.Str("event_type", eventType).Msg(appErr.Message)

	clientMessage := appErr.Message
	if !appErr.Kind.Operational() {
		// Non-operational faults never leak internal detail to the client.
		clientMessage = "An unexpected error occurred"
	}

	response.WriteError(w, appErr.Kind.Status(), response.ErrorInfo{
		Message:   clientMessage,
		RequestID: requestID,
		Errors:    appErr.FieldErrors,
		Reasons:   appErr.Reasons,
	})
}

// WritePanic handles a recovered panic: logs the stack trace and sends a
// generic 500, never exposing the trace to the client.
func WritePanic(ctx context.Context, w http.ResponseWriter, panicValue interface{}) {
	requestID := RequestIDFrom(ctx)
	log.Error().
		Str("request_id", requestID).
		Str("event_type", "ERROR").
		Interface("panic", panicValue).
		Str("stack", string(debug.Stack())).
		Msg("panic recovered")

	response.WriteError(w, http.StatusInternalServerError, response.ErrorInfo{
		Message:   "An unexpected error occurred",
		RequestID: requestID,
	})
}

// SecurityLog emits a SECURITY event for conditions that are not
// themselves an apperror.Error — rate-limit hits and risk CHALLENGE/REJECT
// outcomes that already returned a structured response of their own.
func SecurityLog(ctx context.Context, msg string, fields map[string]interface{}) {
	event := log.Warn().
		Str("request_id", RequestIDFrom(ctx)).
		Str("event_type", "SECURITY")
	for k, v := range applogger.Fields(fields) {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
