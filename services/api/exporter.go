package api

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"tallyd/pkg/db"
	"tallyd/pkg/xlsx"
)

// Export modes select which slice of the projection is rendered.
const (
	ExportAll       = "all"
	ExportChecked   = "checked"
	ExportUnchecked = "unchecked"
)

// ExportResult is a rendered reconciliation report for one cycle: labeled,
// ordered rows plus a progress summary.
type ExportResult struct {
	Cycle       Cycle            `json:"cycle"`
	Mode        string           `json:"mode"`
	GeneratedAt time.Time        `json:"generated_at"`
	Columns     []string         `json:"columns"`
	Total       int              `json:"total_assets"`
	Checked     int              `json:"checked_assets"`
	Rows        []map[string]any `json:"rows"`
}

func exportChecked(mode string) *bool {
	t, f := true, false
	switch mode {
	case ExportChecked:
		return &t
	case ExportUnchecked:
		return &f
	default:
		return nil
	}
}

// buildExport renders the report for the given cycle (the active one when nil)
// in the given mode.
func (a *API) buildExport(ctx context.Context, cycleID *uuid.UUID, mode string) (*ExportResult, error) {
	switch mode {
	case "":
		mode = ExportAll
	case ExportAll, ExportChecked, ExportUnchecked:
	default:
		return nil, validationf("mode must be one of all, checked, unchecked")
	}

	id := uuid.Nil
	if cycleID != nil {
		id = *cycleID
	} else {
		active, ok, err := a.activeCycleID(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &NotFoundError{Entity: "active cycle"}
		}
		id = active
	}

	var cm cycleModel
	{
		ctx, cancel := withTimeout(ctx)
		err := a.store.ORM.WithContext(ctx).First(&cm, "cycle_id = ?", id).Error
		cancel()
		if notFound(err) {
			return nil, &NotFoundError{Entity: "cycle", ID: id.String()}
		}
		if err != nil {
			return nil, err
		}
	}

	listSQL, _, listArgs, _ := buildAssetQuery(AssetFilters{Checked: exportChecked(mode)}, id)
	statuses := []AssetStatus{}
	if err := db.Select(ctx, a.store.DB, &statuses, listSQL, listArgs...); err != nil {
		return nil, err
	}

	checkedTrue := true
	_, totalSQL, _, totalArgs := buildAssetQuery(AssetFilters{}, id)
	_, checkedSQL, _, checkedArgs := buildAssetQuery(AssetFilters{Checked: &checkedTrue}, id)

	var total, checked int
	if err := db.Get(ctx, a.store.DB, &total, totalSQL, totalArgs...); err != nil {
		return nil, err
	}
	if err := db.Get(ctx, a.store.DB, &checked, checkedSQL, checkedArgs...); err != nil {
		return nil, err
	}

	columns := make([]string, len(exportColumns))
	for i, c := range exportColumns {
		columns[i] = c.Label
	}

	rows := make([]map[string]any, len(statuses))
	for i, s := range statuses {
		rows[i] = exportRow(s)
	}

	return &ExportResult{
		Cycle:       cm.toAPI(),
		Mode:        mode,
		GeneratedAt: time.Now().UTC(),
		Columns:     columns,
		Total:       total,
		Checked:     checked,
		Rows:        rows,
	}, nil
}

// exportRow renders one projected asset as a labeled row in export column
// order. Dates render as yyyy-mm-dd, the checked flag as its locale token,
// and absent values as empty strings.
func exportRow(s AssetStatus) map[string]any {
	row := make(map[string]any, len(exportColumns))
	for _, col := range exportColumns {
		row[col.Label] = exportValue(s, col.Field)
	}
	return row
}

func exportValue(s AssetStatus, field string) any {
	switch field {
	case "asset_id":
		return s.AssetID
	case "name_vi":
		return s.NameVi
	case "name_en":
		return s.NameEn
	case "type":
		return s.Type
	case "model":
		return s.Model
	case "serial":
		return s.Serial
	case "tech_code":
		return s.TechCode
	case "start_date":
		return fmtDate(s.StartDate)
	case "usage_period":
		if s.UsagePeriod == nil {
			return ""
		}
		return *s.UsagePeriod
	case "end_date":
		return fmtDate(s.EndDate)
	case "customer":
		return s.Customer
	case "supplier":
		return s.Supplier
	case "source":
		return s.Source
	case "department":
		return s.Department
	case "location":
		return s.Location
	case "actual_location":
		if s.ActualLocation == nil || *s.ActualLocation == "" {
			return s.Location
		}
		return *s.ActualLocation
	case "status":
		return s.Status
	case "checked_condition":
		if s.CheckedCondition == nil {
			return ""
		}
		return *s.CheckedCondition
	case "is_checked":
		if s.IsChecked {
			return checkedToken
		}
		return uncheckedToken
	case "inspector":
		if s.Inspector == nil {
			return ""
		}
		return *s.Inspector
	case "scan_time":
		if s.ScanTime == nil {
			return ""
		}
		return s.ScanTime.UTC().Format("2006-01-02 15:04:05")
	case "initial_value":
		if s.InitialValue == nil {
			return ""
		}
		return *s.InitialValue
	case "current_value":
		if s.CurrentValue == nil {
			return ""
		}
		return *s.CurrentValue
	case "notes":
		return s.Notes
	default:
		return ""
	}
}

func fmtDate(t *time.Time) any {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// writeWorkbook renders the report as a single-sheet workbook.
func (r *ExportResult) writeWorkbook(w io.Writer) error {
	return xlsx.EncodeRows(w, r.Columns, r.Rows)
}
