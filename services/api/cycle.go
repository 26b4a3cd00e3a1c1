package api

import (
	"time"

	"github.com/google/uuid"
)

// Cycle is one bounded counting period. The two counters are a cached
// summary refreshed on demand or on write; the ledger remains the source of
// truth for checked counts.
type Cycle struct {
	CycleID       uuid.UUID  `json:"cycle_id" db:"cycle_id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	StartAt       time.Time  `json:"start_at" db:"start_at"`
	EndAt         *time.Time `json:"end_at" db:"end_at"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	TotalAssets   int        `json:"total_assets" db:"total_assets"`
	CheckedAssets int        `json:"checked_assets" db:"checked_assets"`
	CreatedBy     string     `json:"created_by" db:"created_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// DepartmentStats summarises per-department progress for the active cycle.
type DepartmentStats struct {
	Department      string    `json:"department" db:"department"`
	CycleID         uuid.UUID `json:"cycle_id" db:"cycle_id"`
	CycleName       string    `json:"cycle_name" db:"cycle_name"`
	TotalAssets     int       `json:"total_assets" db:"total_assets"`
	CheckedAssets   int       `json:"checked_assets" db:"checked_assets"`
	ProgressPercent int       `json:"progress_percent" db:"progress_percent"`
}
