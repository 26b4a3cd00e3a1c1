package api

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assetFields enumerates the registry attributes a reconciled row may carry.
// Keys resolved from unknown labels survive normalization but are not
// persisted; the registry schema is fixed.
var assetFields = map[string]bool{
	"asset_id": true, "name_vi": true, "name_en": true, "type": true,
	"model": true, "serial": true, "tech_code": true, "start_date": true,
	"usage_period": true, "end_date": true, "customer": true,
	"supplier": true, "source": true, "department": true, "location": true,
	"status": true, "initial_value": true, "current_value": true, "notes": true,
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2006/01/02",
}

// coerceRow normalizes date-like fields to calendar dates and numeric-like
// fields to numbers. Unparsable values become absent rather than failing the
// row.
func coerceRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for key, value := range row {
		switch key {
		case "start_date", "end_date":
			if d, ok := parseDate(value); ok {
				out[key] = d
			}
		case "usage_period":
			if n, ok := parseIntValue(value); ok {
				out[key] = n
			}
		case "initial_value", "current_value":
			if f, ok := parseFloatValue(value); ok {
				out[key] = f
			}
		default:
			out[key] = fmt.Sprint(value)
		}
	}
	return out
}

func parseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Truncate(24 * time.Hour), true
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	return time.Time{}, false
}

func parseIntValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsNaN(f) {
			return int(f), true
		}
	}
	return 0, false
}

func parseFloatValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// prepareRows runs the normalization, blank-dropping, validation, and
// coercion stages of the reconcile pipeline. Rows without a resolved asset
// code are rejected and counted, not fatal.
func prepareRows(rawRows []map[string]any) (valid []map[string]any, rejected int) {
	for _, raw := range rawRows {
		row := coerceRow(normalizeRow(raw))
		code, _ := row["asset_id"].(string)
		if strings.TrimSpace(code) == "" {
			rejected++
			continue
		}
		row["asset_id"] = strings.TrimSpace(code)
		valid = append(valid, row)
	}
	return valid, rejected
}

// Reconcile validates and upserts externally-sourced rows into the registry.
// The batch is atomic: either every valid row is written or none are. When a
// cycle id is supplied the cycle's counters are refreshed in the same
// transaction.
func (a *API) Reconcile(ctx context.Context, rawRows []map[string]any, cycleID *uuid.UUID) ([]Asset, int, error) {
	valid, rejected := prepareRows(rawRows)
	if len(valid) == 0 {
		return nil, rejected, validationf("no valid rows: every row is missing an asset code")
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var written []Asset
	err := a.store.ORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		written = written[:0]
		for _, row := range valid {
			model, err := upsertAssetRow(tx, row)
			if err != nil {
				return err
			}
			written = append(written, model.toAPI())
		}

		if cycleID != nil {
			if err := refreshCycleCounts(tx, *cycleID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, rejected, err
	}

	return written, rejected, nil
}

// upsertAssetRow merges one prepared row into the registry. Existing codes
// are updated attribute-wise (absent fields stay untouched), new codes are
// inserted.
func upsertAssetRow(tx *gorm.DB, row map[string]any) (assetModel, error) {
	code := row["asset_id"].(string)

	columns := make(map[string]any, len(row))
	for key, value := range row {
		if key == "asset_id" || !assetFields[key] {
			continue
		}
		columns[key] = value
	}

	var existing assetModel
	err := tx.Where("asset_id = ?", code).First(&existing).Error
	switch {
	case notFound(err):
		model := assetModel{AssetID: code, Status: "Active"}
		applyColumns(&model, columns)
		if err := tx.Create(&model).Error; err != nil {
			return assetModel{}, err
		}
		return model, nil
	case err != nil:
		return assetModel{}, err
	default:
		if len(columns) > 0 {
			columns["updated_at"] = time.Now().UTC()
			if err := tx.Model(&existing).Updates(columns).Error; err != nil {
				return assetModel{}, err
			}
		}
		if err := tx.First(&existing, "asset_id = ?", code).Error; err != nil {
			return assetModel{}, err
		}
		return existing, nil
	}
}

func applyColumns(m *assetModel, columns map[string]any) {
	for key, value := range columns {
		switch key {
		case "name_vi":
			m.NameVi, _ = value.(string)
		case "name_en":
			m.NameEn, _ = value.(string)
		case "type":
			m.Type, _ = value.(string)
		case "model":
			m.Model, _ = value.(string)
		case "serial":
			m.Serial, _ = value.(string)
		case "tech_code":
			m.TechCode, _ = value.(string)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				m.StartDate = &t
			}
		case "usage_period":
			if n, ok := value.(int); ok {
				m.UsagePeriod = &n
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				m.EndDate = &t
			}
		case "customer":
			m.Customer, _ = value.(string)
		case "supplier":
			m.Supplier, _ = value.(string)
		case "source":
			m.Source, _ = value.(string)
		case "department":
			m.Department, _ = value.(string)
		case "location":
			m.Location, _ = value.(string)
		case "status":
			if s, ok := value.(string); ok && s != "" {
				m.Status = s
			}
		case "initial_value":
			if f, ok := value.(float64); ok {
				m.InitialValue = &f
			}
		case "current_value":
			if f, ok := value.(float64); ok {
				m.CurrentValue = &f
			}
		case "notes":
			m.Notes, _ = value.(string)
		}
	}
}

// refreshCycleCounts recomputes both cached counters from the registry and
// the ledger.
func refreshCycleCounts(tx *gorm.DB, cycleID uuid.UUID) error {
	var total int64
	if err := tx.Model(&assetModel{}).Count(&total).Error; err != nil {
		return err
	}

	var checked int64
	if err := tx.Model(&scanModel{}).Where("cycle_id = ?", cycleID).Count(&checked).Error; err != nil {
		return err
	}

	result := tx.Model(&cycleModel{}).Where("cycle_id = ?", cycleID).Updates(map[string]any{
		"total_assets":   total,
		"checked_assets": checked,
		"updated_at":     time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "cycle", ID: cycleID.String()}
	}
	return nil
}
