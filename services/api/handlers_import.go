package api

import (
	"net/http"

	"github.com/google/uuid"

	"tallyd/pkg/xlsx"
)

const maxWorkbookUpload = 20 << 20 // 20 MiB

type importRequest struct {
	Rows    []map[string]any `json:"rows"`
	CycleID string           `json:"cycle_id"`
}

// handleImportAssets bulk-reconciles caller-supplied rows into the registry.
// Rows use the external column vocabulary; rows without an asset code are
// skipped and counted, everything else is written atomically.
func (a *API) handleImportAssets(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	a.runImport(w, r, req.Rows, req.CycleID)
}

// handleImportWorkbook accepts a multipart upload of a workbook whose first
// sheet carries the same columns as the JSON import.
func (a *API) handleImportWorkbook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxWorkbookUpload); err != nil {
		a.respondFailure(w, validationf("invalid multipart form: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		a.respondFailure(w, validationf("file field is required"))
		return
	}
	defer file.Close()

	rows, err := xlsx.DecodeRows(file)
	if err != nil {
		a.respondFailure(w, validationf("unreadable workbook: %v", err))
		return
	}

	a.runImport(w, r, rows, r.FormValue("cycle_id"))
}

func (a *API) runImport(w http.ResponseWriter, r *http.Request, rows []map[string]any, rawCycleID string) {
	if len(rows) == 0 {
		a.respondFailure(w, validationf("rows are required"))
		return
	}

	var cycleID *uuid.UUID
	if rawCycleID != "" {
		id, err := uuid.Parse(rawCycleID)
		if err != nil {
			a.respondFailure(w, validationf("invalid cycle id"))
			return
		}
		cycleID = &id
	}

	written, skipped, err := a.Reconcile(r.Context(), rows, cycleID)
	if err != nil {
		a.respondFailure(w, err)
		return
	}

	metricAssetsReconciled.Add(float64(len(written)))

	details := map[string]any{"imported": len(written), "skipped": skipped}
	if cycleID != nil {
		details["cycle_id"] = cycleID.String()
	}
	a.recordActivity(r.Context(), "upload", "asset", "", "", details)
	a.publishJSON(importsTopic, details)

	respondJSON(w, http.StatusOK, map[string]any{
		"imported": len(written),
		"skipped":  skipped,
		"assets":   written,
	})
}
