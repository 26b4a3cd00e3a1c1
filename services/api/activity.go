package api

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

// ActivityRecord is one append-only audit trail entry. The engine only ever
// writes these; external observers read them.
type ActivityRecord struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	UserName   string         `json:"user_name"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

// recordActivity appends an audit entry. Best effort: a failed write is
// logged and never fails the primary operation.
func (a *API) recordActivity(ctx context.Context, action, entityType, entityID, userName string, details map[string]any) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	model := activityModel{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserName:   userName,
		Details:    toJSONMap(details),
	}
	if err := a.store.ORM.WithContext(ctx).Create(&model).Error; err != nil {
		a.logger.Printf("WARN activity log write failed: %v", err)
	}
}

func toJSONMap(src map[string]any) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	if src == nil {
		return out
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

func mapFromJSONMap(src datatypes.JSONMap) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
