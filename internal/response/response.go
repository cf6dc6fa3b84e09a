// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard API error envelope. Error carries a
// machine-readable reason string, never raw internal error text.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with the payload as-is (no envelope).
func OK(w http.ResponseWriter, payload interface{}) {
	JSON(w, http.StatusOK, payload)
}

// NoContent writes a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response with the given status and reason.
func Error(w http.ResponseWriter, status int, reason string) {
	JSON(w, status, Envelope{Success: false, Error: reason})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, reason string) {
	Error(w, http.StatusBadRequest, reason)
}

// Unauthorized writes a 401 response.
func Unauthorized(w http.ResponseWriter, reason string) {
	Error(w, http.StatusUnauthorized, reason)
}

// Forbidden writes a 403 response.
func Forbidden(w http.ResponseWriter, reason string) {
	Error(w, http.StatusForbidden, reason)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, reason string) {
	Error(w, http.StatusNotFound, reason)
}

// PayloadTooLarge writes a 413 response.
func PayloadTooLarge(w http.ResponseWriter, reason string) {
	Error(w, http.StatusRequestEntityTooLarge, reason)
}

// InternalError writes a 500 response with a generic reason.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "storage_failure")
}
