package http

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorResponse is the JSON body returned for every failed request.
// AttemptsRemaining and RetryAfter only appear on login failures.
type ErrorResponse struct {
	Error             string `json:"error"`
	AttemptsRemaining *int   `json:"attemptsRemaining,omitempty"`
	RetryAfter        *int   `json:"retryAfter,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Log encoding errors but don't expose them to client
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteInvalidCredentials rejects a login and tells the client how many
// attempts remain before lockout.
func WriteInvalidCredentials(w http.ResponseWriter, message string, attemptsRemaining int) {
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:             message,
		AttemptsRemaining: &attemptsRemaining,
	})
}

// WriteLockedOut rejects a request from a locked-out client. retryAfter is
// in seconds and is also exposed as the standard Retry-After header.
func WriteLockedOut(w http.ResponseWriter, message string, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Error:      message,
		RetryAfter: &retryAfter,
	})
}
