package api

import "time"

type assetModel struct {
	AssetID      string     `gorm:"column:asset_id;type:text;primaryKey"`
	NameVi       string     `gorm:"type:text"`
	NameEn       string     `gorm:"type:text"`
	Type         string     `gorm:"type:text"`
	Model        string     `gorm:"type:text"`
	Serial       string     `gorm:"type:text"`
	TechCode     string     `gorm:"type:text"`
	StartDate    *time.Time `gorm:"type:date"`
	UsagePeriod  *int       `gorm:"type:integer"`
	EndDate      *time.Time `gorm:"type:date"`
	Customer     string     `gorm:"type:text"`
	Supplier     string     `gorm:"type:text"`
	Source       string     `gorm:"type:text"`
	Department   string     `gorm:"type:text"`
	Location     string     `gorm:"type:text"`
	Status       string     `gorm:"type:text"`
	InitialValue *float64   `gorm:"type:numeric(18,2)"`
	CurrentValue *float64   `gorm:"type:numeric(18,2)"`
	Notes        string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

func (assetModel) TableName() string { return "assets" }

func (m assetModel) toAPI() Asset {
	return Asset{
		AssetID:      m.AssetID,
		NameVi:       m.NameVi,
		NameEn:       m.NameEn,
		Type:         m.Type,
		Model:        m.Model,
		Serial:       m.Serial,
		TechCode:     m.TechCode,
		StartDate:    m.StartDate,
		UsagePeriod:  m.UsagePeriod,
		EndDate:      m.EndDate,
		Customer:     m.Customer,
		Supplier:     m.Supplier,
		Source:       m.Source,
		Department:   m.Department,
		Location:     m.Location,
		Status:       m.Status,
		InitialValue: m.InitialValue,
		CurrentValue: m.CurrentValue,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
