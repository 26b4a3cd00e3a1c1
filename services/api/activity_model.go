package api

import (
	"time"

	"gorm.io/datatypes"
)

type activityModel struct {
	ID         int64             `gorm:"type:bigserial;primaryKey"`
	Action     string            `gorm:"type:text;not null"`
	EntityType string            `gorm:"type:text"`
	EntityID   string            `gorm:"column:entity_id;type:text"`
	UserName   string            `gorm:"type:text"`
	Details    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

func (activityModel) TableName() string { return "activity_logs" }

func (m activityModel) toAPI() ActivityRecord {
	return ActivityRecord{
		ID:         m.ID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		UserName:   m.UserName,
		Details:    mapFromJSONMap(m.Details),
		CreatedAt:  m.CreatedAt,
	}
}
