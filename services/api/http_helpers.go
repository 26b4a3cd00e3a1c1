package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	respondJSON(w, status, map[string]any{"error": err.Error()})
}

// respondFailure maps the engine's error taxonomy onto HTTP statuses.
// Duplicate scans are an expected business condition, not a fault, so they
// get a 409 with the existing asset snapshot attached. Unexpected failures are
// logged in full and surfaced with a generic message.
func (a *API) respondFailure(w http.ResponseWriter, err error) {
	var (
		validation *ValidationError
		missing    *NotFoundError
		duplicate  *DuplicateScanError
	)
	switch {
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, err)
	case errors.As(err, &missing):
		respondError(w, http.StatusNotFound, err)
	case errors.As(err, &duplicate):
		respondJSON(w, http.StatusConflict, map[string]any{
			"error": err.Error(),
			"data":  map[string]any{"is_duplicate": true, "asset": duplicate.Asset},
		})
	case isUniqueViolation(err):
		respondError(w, http.StatusConflict, err)
	default:
		a.logger.Printf("ERROR %v", err)
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}
