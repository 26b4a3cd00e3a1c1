package api

import (
	"time"

	"github.com/google/uuid"
)

type cycleModel struct {
	CycleID       uuid.UUID  `gorm:"column:cycle_id;type:uuid;primaryKey"`
	Name          string     `gorm:"type:text;not null"`
	Description   string     `gorm:"type:text"`
	StartAt       time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	EndAt         *time.Time `gorm:"type:timestamptz"`
	IsActive      bool       `gorm:"type:boolean;not null;default:false"`
	TotalAssets   int        `gorm:"type:integer;not null;default:0"`
	CheckedAssets int        `gorm:"type:integer;not null;default:0"`
	CreatedBy     string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

func (cycleModel) TableName() string { return "inventory_cycles" }

func (m cycleModel) toAPI() Cycle {
	return Cycle{
		CycleID:       m.CycleID,
		Name:          m.Name,
		Description:   m.Description,
		StartAt:       m.StartAt,
		EndAt:         m.EndAt,
		IsActive:      m.IsActive,
		TotalAssets:   m.TotalAssets,
		CheckedAssets: m.CheckedAssets,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
