package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Amdragz/fiya/internal/auth"
	"github.com/Amdragz/fiya/internal/cage"
)

// successEnvelope is the shape of every successful response body.
type successEnvelope struct {
	Message  string `json:"message"`
	Data     any    `json:"data"`
	Metadata any    `json:"metadata,omitempty"`
}

// errorEnvelope is the shape of every error response body. The status
// field mirrors the HTTP status code.
type errorEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successEnvelope{Message: message, Data: data})
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Status: status, Message: message})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message)
}

// writeServiceError maps service sentinel errors onto the HTTP error
// taxonomy. Unknown errors become a generic 500 — details go to the log
// only, never to the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidRole):
		writeBadRequest(w, "Invalid user type")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeUnauthorized(w, "Invalid credentials")
	case errors.Is(err, auth.ErrUserNotFound):
		writeUnauthorized(w, "Unauthorized")
	case errors.Is(err, auth.ErrCustomerLimit):
		writeUnauthorized(w, "Maximum number of customers has been created")
	case errors.Is(err, auth.ErrEmailExists):
		writeBadRequest(w, "Email already exists")
	case errors.Is(err, auth.ErrPasswordMismatch):
		writeBadRequest(w, "Unable to update password")
	case errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired):
		writeBadRequest(w, "Invalid refresh token")
	case errors.Is(err, cage.ErrCageExists):
		// Conflict is reported as 400, matching the web client's contract
		writeBadRequest(w, "Cage already exist")
	case errors.Is(err, cage.ErrCageNotFound):
		writeUnauthorized(w, "Cage does not exist")
	case errors.Is(err, cage.ErrSecretMismatch):
		writeError(w, http.StatusForbidden, "Unauthorized")
	default:
		s.logger.Error("internal error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
