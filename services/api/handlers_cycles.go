package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tallyd/pkg/db"
)

type createCycleRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartAt     *time.Time `json:"start_at"`
	CreatedBy   string     `json:"created_by"`
}

// handleCreateCycle opens a new counting cycle and makes it the active one.
// Any previously active cycle is closed in the same transaction, so at most
// one cycle is ever active.
func (a *API) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	var req createCycleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		a.respondFailure(w, validationf("name is required"))
		return
	}

	startAt := time.Now().UTC()
	if req.StartAt != nil {
		startAt = req.StartAt.UTC()
	}

	model := cycleModel{
		CycleID:     uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		StartAt:     startAt,
		IsActive:    true,
		CreatedBy:   req.CreatedBy,
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	err := a.store.ORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := tx.Model(&cycleModel{}).Where("is_active").Updates(map[string]any{
			"is_active": false,
			"end_at":    now,
		}).Error; err != nil {
			return err
		}

		var total int64
		if err := tx.Model(&assetModel{}).Count(&total).Error; err != nil {
			return err
		}
		model.TotalAssets = int(total)

		return tx.Create(&model).Error
	})
	if err != nil {
		a.respondFailure(w, err)
		return
	}

	cycle := model.toAPI()
	a.recordActivity(r.Context(), "create_cycle", "cycle", cycle.CycleID.String(), req.CreatedBy, map[string]any{
		"name": cycle.Name,
	})
	a.publishJSON(cyclesTopic, cycle)

	respondJSON(w, http.StatusCreated, cycle)
}

// handleListCycles returns every cycle, newest first.
func (a *API) handleListCycles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var models []cycleModel
	if err := a.store.ORM.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		a.respondFailure(w, err)
		return
	}

	cycles := make([]Cycle, len(models))
	for i, m := range models {
		cycles[i] = m.toAPI()
	}
	respondJSON(w, http.StatusOK, cycles)
}

// handleActiveCycle returns the single active cycle. Having none is a normal
// state between counting periods and reads as a plain 404.
func (a *API) handleActiveCycle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var model cycleModel
	err := a.store.ORM.WithContext(ctx).Where("is_active").First(&model).Error
	if notFound(err) {
		a.respondFailure(w, &NotFoundError{Entity: "active cycle"})
		return
	}
	if err != nil {
		a.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, model.toAPI())
}

type updateCycleRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	IsActive    *bool      `json:"is_active"`
	EndAt       *time.Time `json:"end_at"`
}

// handleUpdateCycle patches a cycle's descriptive fields and active flag.
// Activating a cycle deactivates whichever cycle was active before.
func (a *API) handleUpdateCycle(w http.ResponseWriter, r *http.Request) {
	cycleID, err := uuid.Parse(chi.URLParam(r, "cycleID"))
	if err != nil {
		a.respondFailure(w, validationf("invalid cycle id"))
		return
	}

	var req updateCycleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			a.respondFailure(w, validationf("name cannot be empty"))
			return
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.EndAt != nil {
		updates["end_at"] = req.EndAt.UTC()
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
		if !*req.IsActive && req.EndAt == nil {
			updates["end_at"] = time.Now().UTC()
		}
	}
	if len(updates) == 0 {
		a.respondFailure(w, validationf("no fields to update"))
		return
	}
	updates["updated_at"] = time.Now().UTC()

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var model cycleModel
	err = a.store.ORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model, "cycle_id = ?", cycleID).Error; err != nil {
			if notFound(err) {
				return &NotFoundError{Entity: "cycle", ID: cycleID.String()}
			}
			return err
		}

		if req.IsActive != nil && *req.IsActive {
			if err := tx.Model(&cycleModel{}).
				Where("is_active AND cycle_id <> ?", cycleID).
				Updates(map[string]any{"is_active": false, "end_at": time.Now().UTC()}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&model, "cycle_id = ?", cycleID).Error
	})
	if err != nil {
		a.respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, model.toAPI())
}

// handleRefreshCycle recomputes the cycle's cached counters from the registry
// and the ledger.
func (a *API) handleRefreshCycle(w http.ResponseWriter, r *http.Request) {
	cycleID, err := uuid.Parse(chi.URLParam(r, "cycleID"))
	if err != nil {
		a.respondFailure(w, validationf("invalid cycle id"))
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var model cycleModel
	err = a.store.ORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := refreshCycleCounts(tx, cycleID); err != nil {
			return err
		}
		return tx.First(&model, "cycle_id = ?", cycleID).Error
	})
	if err != nil {
		a.respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, model.toAPI())
}

const departmentStatsQuery = `
	SELECT a.department,
	       c.cycle_id,
	       c.name AS cycle_name,
	       count(*) AS total_assets,
	       count(l.id) AS checked_assets,
	       (count(l.id) * 100 / greatest(count(*), 1))::int AS progress_percent
	FROM assets a
	CROSS JOIN inventory_cycles c
	LEFT JOIN inventory_logs l ON l.asset_id = a.asset_id AND l.cycle_id = c.cycle_id
	WHERE c.cycle_id = $1 AND a.department <> ''
	GROUP BY a.department, c.cycle_id, c.name
	ORDER BY a.department`

// handleCycleStats returns per-department progress for one cycle.
func (a *API) handleCycleStats(w http.ResponseWriter, r *http.Request) {
	cycleID, err := uuid.Parse(chi.URLParam(r, "cycleID"))
	if err != nil {
		a.respondFailure(w, validationf("invalid cycle id"))
		return
	}

	stats := []DepartmentStats{}
	if err := db.Select(r.Context(), a.store.DB, &stats, departmentStatsQuery, cycleID); err != nil {
		a.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
