package api

import "testing"

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"short code", "Code", "asset_id"},
		{"short code name", "NameVi", "name_vi"},
		{"vietnamese label", "Mã tài sản", "asset_id"},
		{"vietnamese value label", "Giá trị ban đầu", "initial_value"},
		{"unknown transliterated", "Custom Field", "custom_field"},
		{"unknown mixed case", "Warranty  Expiry", "warranty_expiry"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeLabel(tc.label); got != tc.want {
				t.Fatalf("normalizeLabel(%q) = %q, want %q", tc.label, got, tc.want)
			}
		})
	}
}

func TestNormalizeRowDropsBlanks(t *testing.T) {
	row := normalizeRow(map[string]any{
		"Code":       "TS100",
		"NameVi":     "",
		"Department": nil,
		"Vị trí":     "Tầng 1",
	})

	if got := row["asset_id"]; got != "TS100" {
		t.Fatalf("asset_id = %v, want TS100", got)
	}
	if got := row["location"]; got != "Tầng 1" {
		t.Fatalf("location = %v, want Tầng 1", got)
	}
	if _, ok := row["name_vi"]; ok {
		t.Fatal("empty string value should be dropped")
	}
	if _, ok := row["department"]; ok {
		t.Fatal("nil value should be dropped")
	}
}

func TestExportColumnsShape(t *testing.T) {
	if len(exportColumns) != 24 {
		t.Fatalf("exportColumns has %d entries, want 24", len(exportColumns))
	}
	if exportColumns[0].Label != "Mã tài sản" || exportColumns[0].Field != "asset_id" {
		t.Fatalf("first column = %+v, want asset code", exportColumns[0])
	}
	if last := exportColumns[len(exportColumns)-1]; last.Label != "Ghi chú" || last.Field != "notes" {
		t.Fatalf("last column = %+v, want notes", last)
	}

	seen := map[string]bool{}
	for _, col := range exportColumns {
		if seen[col.Label] {
			t.Fatalf("duplicate export label %q", col.Label)
		}
		seen[col.Label] = true
	}
}

// Export labels for registry attributes must resolve back to the same
// attribute, so an exported report can be re-imported without drift. Derived
// columns (checked state, inspector, scan time) are not registry attributes
// and are expected to fall out of the mapping.
func TestExportLabelsRoundTrip(t *testing.T) {
	for _, col := range exportColumns {
		if !assetFields[col.Field] {
			continue
		}
		if got := normalizeLabel(col.Label); got != col.Field {
			t.Fatalf("label %q resolves to %q, want %q", col.Label, got, col.Field)
		}
	}
}

func TestTemplateRowsResolve(t *testing.T) {
	// Every template header must resolve to a known registry attribute so
	// the example sheet imports cleanly as-is.
	for _, header := range templateHeaders {
		if _, ok := columnToField[header]; !ok {
			t.Fatalf("template header %q does not resolve to a field", header)
		}
	}
	for i, row := range templateRows {
		normalized := normalizeRow(row)
		if code, _ := normalized["asset_id"].(string); code == "" {
			t.Fatalf("template row %d has no asset code", i)
		}
	}
}
