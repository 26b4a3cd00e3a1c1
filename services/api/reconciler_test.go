package api

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		ok    bool
	}{
		{"iso date", "2024-01-15", "2024-01-15", true},
		{"rfc3339", "2024-01-15T10:30:00Z", "2024-01-15", true},
		{"slash dmy", "15/01/2024", "2024-01-15", true},
		{"slash ymd", "2024/01/15", "2024-01-15", true},
		{"padded", "  2024-01-15 ", "2024-01-15", true},
		{"garbage", "not-a-date", "", false},
		{"number", 42.0, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseDate(tc.value)
			if ok != tc.ok {
				t.Fatalf("parseDate(%v) ok = %v, want %v", tc.value, ok, tc.ok)
			}
			if ok && got.Format("2006-01-02") != tc.want {
				t.Fatalf("parseDate(%v) = %s, want %s", tc.value, got.Format("2006-01-02"), tc.want)
			}
		})
	}
}

func TestParseNumericValues(t *testing.T) {
	if n, ok := parseIntValue("60"); !ok || n != 60 {
		t.Fatalf("parseIntValue(\"60\") = %d, %v", n, ok)
	}
	if n, ok := parseIntValue(60.0); !ok || n != 60 {
		t.Fatalf("parseIntValue(60.0) = %d, %v", n, ok)
	}
	if _, ok := parseIntValue("sixty"); ok {
		t.Fatal("parseIntValue should reject non-numeric strings")
	}

	if f, ok := parseFloatValue("15000000"); !ok || f != 15000000 {
		t.Fatalf("parseFloatValue(\"15000000\") = %v, %v", f, ok)
	}
	if f, ok := parseFloatValue("15,000,000.50"); !ok || f != 15000000.50 {
		t.Fatalf("parseFloatValue with separators = %v, %v", f, ok)
	}
	if _, ok := parseFloatValue("n/a"); ok {
		t.Fatal("parseFloatValue should reject non-numeric strings")
	}
}

func TestCoerceRow(t *testing.T) {
	row := coerceRow(map[string]any{
		"asset_id":      "TS001",
		"start_date":    "2024-01-15",
		"end_date":      "bogus",
		"usage_period":  "60",
		"initial_value": 15000000.0,
		"notes":         "ok",
	})

	if d, ok := row["start_date"].(time.Time); !ok || d.Format("2006-01-02") != "2024-01-15" {
		t.Fatalf("start_date = %v", row["start_date"])
	}
	if _, ok := row["end_date"]; ok {
		t.Fatal("unparsable date should become absent, not fail the row")
	}
	if n, ok := row["usage_period"].(int); !ok || n != 60 {
		t.Fatalf("usage_period = %v", row["usage_period"])
	}
	if f, ok := row["initial_value"].(float64); !ok || f != 15000000 {
		t.Fatalf("initial_value = %v", row["initial_value"])
	}
	if row["notes"] != "ok" {
		t.Fatalf("notes = %v", row["notes"])
	}
}

func TestPrepareRows(t *testing.T) {
	valid, rejected := prepareRows([]map[string]any{
		{"Code": "TS001", "NameVi": "Máy in"},
		{"NameVi": "thiếu mã"},
		{"Code": "   "},
		{"Mã tài sản": " TS002 ", "Vị trí": "Kho"},
	})

	if rejected != 2 {
		t.Fatalf("rejected = %d, want 2", rejected)
	}
	if len(valid) != 2 {
		t.Fatalf("valid = %d rows, want 2", len(valid))
	}
	if valid[0]["asset_id"] != "TS001" {
		t.Fatalf("first row asset_id = %v", valid[0]["asset_id"])
	}
	if valid[1]["asset_id"] != "TS002" {
		t.Fatalf("trimmed asset_id = %v", valid[1]["asset_id"])
	}
	if valid[1]["location"] != "Kho" {
		t.Fatalf("location = %v", valid[1]["location"])
	}
}

func TestApplyColumnsMergesWithoutWiping(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	usage := 60
	value := 15000000.0

	model := assetModel{
		AssetID:  "TS001",
		NameVi:   "Máy tính",
		Serial:   "DL2024001",
		Location: "Tầng 2",
		Status:   "Active",
	}

	// A partial update touches only the supplied attributes.
	applyColumns(&model, map[string]any{
		"location":      "Tầng 3",
		"start_date":    start,
		"usage_period":  usage,
		"initial_value": value,
	})

	if model.Location != "Tầng 3" {
		t.Fatalf("location = %q, want Tầng 3", model.Location)
	}
	if model.NameVi != "Máy tính" || model.Serial != "DL2024001" {
		t.Fatal("untouched attributes were modified")
	}
	if model.StartDate == nil || !model.StartDate.Equal(start) {
		t.Fatalf("start_date = %v", model.StartDate)
	}
	if model.UsagePeriod == nil || *model.UsagePeriod != usage {
		t.Fatalf("usage_period = %v", model.UsagePeriod)
	}
	if model.InitialValue == nil || *model.InitialValue != value {
		t.Fatalf("initial_value = %v", model.InitialValue)
	}
	if model.Status != "Active" {
		t.Fatalf("status = %q", model.Status)
	}
}
