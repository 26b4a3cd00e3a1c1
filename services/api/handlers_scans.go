package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tallyd/pkg/db"
)

type recordScanRequest struct {
	AssetID        string `json:"asset_id"`
	CycleID        string `json:"cycle_id"`
	Inspector      string `json:"inspector"`
	ScanLocation   string `json:"scan_location"`
	ActualLocation string `json:"actual_location"`
	Condition      string `json:"condition"`
	Notes          string `json:"notes"`
}

// handleRecordScan appends one scan event to the ledger. At most one event per
// asset per cycle is accepted; a repeat scan answers 409 with a snapshot of
// the already-checked asset. When the observed location differs from the
// registry the registry is moved to match.
func (a *API) handleRecordScan(w http.ResponseWriter, r *http.Request) {
	var req recordScanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if req.AssetID == "" {
		a.respondFailure(w, validationf("asset_id is required"))
		return
	}
	if req.Inspector == "" {
		a.respondFailure(w, validationf("inspector is required"))
		return
	}
	if req.CycleID == "" {
		a.respondFailure(w, validationf("cycle_id is required"))
		return
	}
	cycleID, err := uuid.Parse(req.CycleID)
	if err != nil {
		a.respondFailure(w, validationf("invalid cycle id"))
		return
	}
	if req.Condition == "" {
		req.Condition = ConditionGood
	}
	if !validCondition(req.Condition) {
		a.respondFailure(w, validationf("condition must be one of Good, Fair, Poor, Damaged, Lost"))
		return
	}

	model := scanModel{
		ID:             uuid.New(),
		AssetID:        req.AssetID,
		CycleID:        cycleID,
		Inspector:      req.Inspector,
		ScanTime:       time.Now().UTC(),
		ScanLocation:   req.ScanLocation,
		ActualLocation: req.ActualLocation,
		Condition:      req.Condition,
		Notes:          req.Notes,
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var asset assetModel
	err = a.store.ORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&asset, "asset_id = ?", req.AssetID).Error; err != nil {
			if notFound(err) {
				return &NotFoundError{Entity: "asset", ID: req.AssetID}
			}
			return err
		}

		var cycle cycleModel
		if err := tx.First(&cycle, "cycle_id = ?", cycleID).Error; err != nil {
			if notFound(err) {
				return &NotFoundError{Entity: "cycle", ID: cycleID.String()}
			}
			return err
		}

		// Early exit for the common duplicate case; the unique index on
		// (asset_id, cycle_id) still backstops a lost race.
		var existing scanModel
		err := tx.Where("asset_id = ? AND cycle_id = ?", req.AssetID, cycleID).First(&existing).Error
		if err == nil {
			return &DuplicateScanError{Asset: asset.toAPI()}
		}
		if !notFound(err) {
			return err
		}

		if model.ActualLocation == "" {
			model.ActualLocation = asset.Location
		}

		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		if model.ActualLocation != asset.Location {
			if err := tx.Model(&asset).Updates(map[string]any{
				"location":   model.ActualLocation,
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
				return err
			}
		}

		return refreshCycleCounts(tx, cycleID)
	})
	if err != nil {
		var dup *DuplicateScanError
		if isUniqueViolation(err) {
			dup = &DuplicateScanError{Asset: asset.toAPI()}
			err = dup
		}
		if asDuplicate(err) {
			metricScansDuplicate.Inc()
		}
		a.respondFailure(w, err)
		return
	}

	metricScansRecorded.Inc()

	event := model.toAPI()
	a.recordActivity(r.Context(), "scan", "asset", event.AssetID, event.Inspector, map[string]any{
		"cycle_id":  event.CycleID.String(),
		"condition": event.Condition,
	})
	a.publishJSON(scansTopic, event)

	respondJSON(w, http.StatusCreated, event)
}

func asDuplicate(err error) bool {
	_, ok := err.(*DuplicateScanError)
	return ok
}

const scanEntryColumns = `
	SELECT l.id, l.asset_id, l.cycle_id, l.inspector, l.scan_time,
	       l.scan_location, l.actual_location, l.condition, l.notes, l.created_at,
	       a.name_vi AS asset_name_vi,
	       a.name_en AS asset_name_en,
	       a.department AS asset_department,
	       a.location AS asset_location
	FROM inventory_logs l
	JOIN assets a ON a.asset_id = l.asset_id`

// buildScanQuery renders the ledger listing for one cycle, optionally
// narrowed to a single asset.
func buildScanQuery(cycleID uuid.UUID, assetID string, limit int) (string, []any) {
	query := scanEntryColumns + "\n\tWHERE l.cycle_id = $1"
	args := []any{cycleID}
	if assetID != "" {
		args = append(args, assetID)
		query += fmt.Sprintf(" AND l.asset_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf("\n\tORDER BY l.scan_time DESC\n\tLIMIT $%d", len(args))
	return query, args
}

// handleListScans returns the ledger for one cycle, newest first, enriched
// with the assets' current descriptive fields.
func (a *API) handleListScans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var cycleID uuid.UUID
	if raw := q.Get("cycle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			a.respondFailure(w, validationf("invalid cycle id"))
			return
		}
		cycleID = id
	} else {
		id, ok, err := a.activeCycleID(r.Context())
		if err != nil {
			a.respondFailure(w, err)
			return
		}
		if !ok {
			respondJSON(w, http.StatusOK, []ScanEntry{})
			return
		}
		cycleID = id
	}

	limit := a.config.DefaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.respondFailure(w, validationf("invalid limit"))
			return
		}
		limit = n
	}

	query, args := buildScanQuery(cycleID, q.Get("asset_id"), limit)
	entries := []ScanEntry{}
	if err := db.Select(r.Context(), a.store.DB, &entries, query, args...); err != nil {
		a.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
