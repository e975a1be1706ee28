package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/garnizeh/scribe/internal/account"
	"github.com/garnizeh/scribe/internal/auth"
	"github.com/garnizeh/scribe/internal/content"
	"github.com/garnizeh/scribe/pkg/repository"
)

const (
	msgUnauthorized   = "Unauthorized"
	msgSchemaMismatch = "Column mapping issue - check database schema"
	msgInternal       = "Internal server error"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("err", err))
	}
}

// ErrorWriter renders errors as {"error": ...}. Details are attached to 400
// and 500 responses only when ShowDetails is set.
type ErrorWriter struct {
	ShowDetails bool
}

// classify maps a service error onto a status code and client message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, content.ErrInvalidPayload):
		return http.StatusBadRequest, "Invalid JSON in request body"
	case errors.Is(err, account.ErrMissingFields):
		return http.StatusBadRequest, "Missing fields"
	case errors.Is(err, account.ErrUsernameTaken):
		return http.StatusConflict, "Username already registered"
	case errors.Is(err, repository.ErrDuplicateKey):
		return http.StatusConflict, "Duplicate entry"
	case errors.Is(err, repository.ErrSchemaMismatch):
		return http.StatusInternalServerError, msgSchemaMismatch
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// Write classifies err and writes the matching response.
func (ew *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
	}

	ew.write(w, status, msg, err)
}

// BadRequest writes a 400 for a body that could not be decoded.
func (ew *ErrorWriter) BadRequest(w http.ResponseWriter, msg string, err error) {
	ew.write(w, http.StatusBadRequest, msg, err)
}

func (ew *ErrorWriter) write(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if ew.ShowDetails && err != nil && (status == http.StatusBadRequest || status >= http.StatusInternalServerError) {
		resp.Details = err.Error()
	}

	writeJSON(w, resp, status)
}
