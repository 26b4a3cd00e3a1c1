package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport renders the reconciliation report for one cycle. By default the
// report is returned as JSON; format=xlsx streams a workbook, and store=true
// uploads the workbook to object storage and answers with a presigned link.
func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var cycleID *uuid.UUID
	if raw := q.Get("cycle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			a.respondFailure(w, validationf("invalid cycle id"))
			return
		}
		cycleID = &id
	}

	result, err := a.buildExport(r.Context(), cycleID, q.Get("mode"))
	if err != nil {
		a.respondFailure(w, err)
		return
	}

	metricExportsBuilt.WithLabelValues(result.Mode).Inc()

	store, _ := strconv.ParseBool(q.Get("store"))
	if store {
		a.storeExport(w, r, result)
		return
	}

	if q.Get("format") == "xlsx" {
		filename := fmt.Sprintf("inventory_%s_%s_%s.xlsx",
			result.Cycle.CycleID, result.Mode, result.GeneratedAt.Format("20060102"))
		w.Header().Set("Content-Type", workbookContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := result.writeWorkbook(w); err != nil {
			a.logger.Printf("ERROR export workbook write failed: %v", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// storeExport uploads the rendered workbook to object storage and returns a
// time-limited download link.
func (a *API) storeExport(w http.ResponseWriter, r *http.Request, result *ExportResult) {
	if a.store.S3 == nil {
		respondError(w, http.StatusFailedDependency, errors.New("object storage is not configured"))
		return
	}
	if a.config.ExportBucket == "" {
		respondError(w, http.StatusFailedDependency, errors.New("export bucket is not configured"))
		return
	}

	var buf bytes.Buffer
	if err := result.writeWorkbook(&buf); err != nil {
		a.respondFailure(w, err)
		return
	}

	key := fmt.Sprintf("exports/%s/inventory_%s_%s.xlsx",
		result.Cycle.CycleID, result.Mode, result.GeneratedAt.Format("20060102T150405"))

	ctx := r.Context()
	if err := a.store.S3.PutObject(ctx, a.config.ExportBucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), ""); err != nil {
		a.respondFailure(w, err)
		return
	}

	url, err := a.store.S3.PresignGet(ctx, a.config.ExportBucket, key, presignURLExpiry)
	if err != nil {
		a.respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"bucket":         a.config.ExportBucket,
		"key":            key,
		"url":            url,
		"expires_at":     time.Now().UTC().Add(presignURLExpiry),
		"mode":           result.Mode,
		"total_assets":   result.Total,
		"checked_assets": result.Checked,
		"cycle_id":       result.Cycle.CycleID,
	})
}
