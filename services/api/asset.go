package api

import (
	"time"

	"github.com/google/uuid"
)

// Asset is one physical asset in the registry, identified by its
// caller-assigned code. The code never changes after creation.
type Asset struct {
	AssetID      string     `json:"asset_id" db:"asset_id"`
	NameVi       string     `json:"name_vi" db:"name_vi"`
	NameEn       string     `json:"name_en" db:"name_en"`
	Type         string     `json:"type" db:"type"`
	Model        string     `json:"model" db:"model"`
	Serial       string     `json:"serial" db:"serial"`
	TechCode     string     `json:"tech_code" db:"tech_code"`
	StartDate    *time.Time `json:"start_date" db:"start_date"`
	UsagePeriod  *int       `json:"usage_period" db:"usage_period"`
	EndDate      *time.Time `json:"end_date" db:"end_date"`
	Customer     string     `json:"customer" db:"customer"`
	Supplier     string     `json:"supplier" db:"supplier"`
	Source       string     `json:"source" db:"source"`
	Department   string     `json:"department" db:"department"`
	Location     string     `json:"location" db:"location"`
	Status       string     `json:"status" db:"status"`
	InitialValue *float64   `json:"initial_value" db:"initial_value"`
	CurrentValue *float64   `json:"current_value" db:"current_value"`
	Notes        string     `json:"notes" db:"notes"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// AssetStatus is an asset joined with its derived checked state for one
// cycle. It is computed per request, never stored.
type AssetStatus struct {
	Asset
	CycleID          *uuid.UUID `json:"cycle_id" db:"cycle_id"`
	IsChecked        bool       `json:"is_checked" db:"is_checked"`
	Inspector        *string    `json:"inspector" db:"inspector"`
	ScanTime         *time.Time `json:"scan_time" db:"scan_time"`
	ActualLocation   *string    `json:"actual_location" db:"actual_location"`
	CheckedCondition *string    `json:"checked_condition" db:"checked_condition"`
}
