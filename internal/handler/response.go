package handler

// Response helpers shared by every handler, so all endpoints speak the
// same JSON shapes:
//
//	success            → the resource itself
//	validation failure → 400 {"errors": {"field": "message", ...}}
//	bad login          → 400 {"error": "Invalid credentials"}
//	not found          → 404 {"error": "..."}
//	anything else      → 500 {"error": "An internal error occurred"}
//
// Cross-owner access maps to the same 404 as a nonexistent ID — the error
// writer never distinguishes "not yours" from "not there".

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/washday/internal/apperror"
)

// writeJSON sends a JSON response with the given status code. Headers and
// status must be written before the body — once Encode writes, the header
// block is already on the wire.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP representation.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			fields := appErr.Fields
			if fields == nil {
				fields = map[string]string{}
			}
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
			return
		case errors.Is(err, apperror.ErrInvalidCredentials):
			// 400 rather than 401: a failed login is a bad request against
			// the login endpoint, not a missing session.
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": appErr.Message})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": appErr.Message})
			return
		case errors.Is(err, apperror.ErrConflict):
			writeJSON(w, http.StatusConflict, map[string]string{"error": appErr.Message})
			return
		}
	}

	// Unknown error — never leak internals (SQL, paths) to the client.
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "An internal error occurred"})
}
