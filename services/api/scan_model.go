package api

import (
	"time"

	"github.com/google/uuid"
)

type scanModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	AssetID        string    `gorm:"column:asset_id;type:text;not null;uniqueIndex:uq_inventory_logs_asset_cycle"`
	CycleID        uuid.UUID `gorm:"column:cycle_id;type:uuid;not null;uniqueIndex:uq_inventory_logs_asset_cycle"`
	Inspector      string    `gorm:"type:text;not null"`
	ScanTime       time.Time `gorm:"type:timestamptz;not null;default:now()"`
	ScanLocation   string    `gorm:"type:text"`
	ActualLocation string    `gorm:"type:text"`
	Condition      string    `gorm:"type:text;not null"`
	Notes          string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

func (scanModel) TableName() string { return "inventory_logs" }

func (m scanModel) toAPI() ScanEvent {
	return ScanEvent{
		ID:             m.ID,
		AssetID:        m.AssetID,
		CycleID:        m.CycleID,
		Inspector:      m.Inspector,
		ScanTime:       m.ScanTime,
		ScanLocation:   m.ScanLocation,
		ActualLocation: m.ActualLocation,
		Condition:      m.Condition,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
	}
}
