package api

import (
	"time"

	"github.com/google/uuid"
)

// Condition classifications accepted on a scan.
const (
	ConditionGood    = "Good"
	ConditionFair    = "Fair"
	ConditionPoor    = "Poor"
	ConditionDamaged = "Damaged"
	ConditionLost    = "Lost"
)

// ScanEvent is one append-only observation of an asset during a cycle.
// Events are never mutated or deleted; corrections require a new cycle.
type ScanEvent struct {
	ID             uuid.UUID `json:"id" db:"id"`
	AssetID        string    `json:"asset_id" db:"asset_id"`
	CycleID        uuid.UUID `json:"cycle_id" db:"cycle_id"`
	Inspector      string    `json:"inspector" db:"inspector"`
	ScanTime       time.Time `json:"scan_time" db:"scan_time"`
	ScanLocation   string    `json:"scan_location" db:"scan_location"`
	ActualLocation string    `json:"actual_location" db:"actual_location"`
	Condition      string    `json:"condition" db:"condition"`
	Notes          string    `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ScanEntry is a ScanEvent enriched with a live snapshot of the asset's
// descriptive fields at read time.
type ScanEntry struct {
	ScanEvent
	AssetNameVi     string `json:"asset_name_vi" db:"asset_name_vi"`
	AssetNameEn     string `json:"asset_name_en" db:"asset_name_en"`
	AssetDepartment string `json:"asset_department" db:"asset_department"`
	AssetLocation   string `json:"asset_location" db:"asset_location"`
}

func validCondition(c string) bool {
	switch c {
	case ConditionGood, ConditionFair, ConditionPoor, ConditionDamaged, ConditionLost:
		return true
	default:
		return false
	}
}
