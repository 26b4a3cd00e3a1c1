package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// handleListAssets runs the derived-status projection: every registry asset
// with its checked state for the requested (or active) cycle.
func (a *API) handleListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := AssetFilters{
		Search:     q.Get("search"),
		Department: q.Get("department"),
		Location:   q.Get("location"),
		Status:     q.Get("status"),
	}

	if raw := q.Get("cycle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			a.respondFailure(w, validationf("invalid cycle id"))
			return
		}
		filters.CycleID = &id
	}
	if raw := q.Get("checked"); raw != "" {
		checked, err := strconv.ParseBool(raw)
		if err != nil {
			a.respondFailure(w, validationf("checked must be true or false"))
			return
		}
		filters.Checked = &checked
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			a.respondFailure(w, validationf("invalid page"))
			return
		}
		filters.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			a.respondFailure(w, validationf("invalid limit"))
			return
		}
		filters.Limit = limit
	}

	rows, total, err := a.listAssets(r.Context(), filters)
	if err != nil {
		a.respondFailure(w, err)
		return
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = a.config.DefaultLimit
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  rows,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// handleUpdateAsset merges caller-supplied attributes into one existing
// asset. Keys follow the external column vocabulary, so the same sheet labels
// accepted by bulk import work here too. The asset code itself is immutable.
func (a *API) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	assetID := strings.TrimSpace(chi.URLParam(r, "assetID"))
	if assetID == "" {
		a.respondFailure(w, validationf("asset id is required"))
		return
	}

	var body map[string]any
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) == 0 {
		a.respondFailure(w, validationf("no fields to update"))
		return
	}

	row := coerceRow(normalizeRow(body))
	row["asset_id"] = assetID

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var updated assetModel
	err := a.store.ORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing assetModel
		if err := tx.First(&existing, "asset_id = ?", assetID).Error; err != nil {
			if notFound(err) {
				return &NotFoundError{Entity: "asset", ID: assetID}
			}
			return err
		}

		model, err := upsertAssetRow(tx, row)
		if err != nil {
			return err
		}
		updated = model
		return nil
	})
	if err != nil {
		a.respondFailure(w, err)
		return
	}

	asset := updated.toAPI()
	a.recordActivity(r.Context(), "update_asset", "asset", asset.AssetID, "", map[string]any{
		"fields": len(row) - 1,
	})

	respondJSON(w, http.StatusOK, asset)
}
