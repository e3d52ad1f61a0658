// Package response renders the service's standard JSON envelope.
package response

import (
	"encoding/json"
	"io"
	"net/http"
)

// DecodeJSON decodes JSON from request body into the provided struct.
func DecodeJSON(body io.ReadCloser, v interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Envelope is the standard API response shape. Exactly one of Data or
// Error is populated.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo is the error half of the envelope: message, statusCode,
// requestId, and optional field errors / risk reasons.
type ErrorInfo struct {
	Message    string            `json:"message"`
	StatusCode int               `json:"statusCode"`
	RequestID  string            `json:"requestId,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Reasons    []string          `json:"reasons,omitempty"`
}

// JSON sends a successful JSON response.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

// OK sends a 200 OK response.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// OKWithMessage sends a 200 response carrying a human-readable message
// alongside data: {success, message, data}. Fields of data, such as the
// redeem endpoint's transactionId, stay nested under data and are not
// lifted to the top level.
func OKWithMessage(w http.ResponseWriter, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 Created response.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// WriteError sends a failure envelope at the given status. Handlers should
// prefer apperror.Write, which also logs; this is the low-level primitive
// it is built on.
func WriteError(w http.ResponseWriter, status int, body ErrorInfo) {
	w.Header().Set("Content-Type", "application/json")
	body.StatusCode = status
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, Error: &body})
}
