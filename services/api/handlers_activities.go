package api

import (
	"net/http"
	"strconv"
)

const defaultActivityLimit = 10

// handleListActivities returns the most recent audit trail entries.
func (a *API) handleListActivities(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.respondFailure(w, validationf("invalid limit"))
			return
		}
		limit = n
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var models []activityModel
	if err := a.store.ORM.WithContext(ctx).Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		a.respondFailure(w, err)
		return
	}

	records := make([]ActivityRecord, len(models))
	for i, m := range models {
		records[i] = m.toAPI()
	}
	respondJSON(w, http.StatusOK, records)
}
