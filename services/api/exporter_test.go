package api

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func sampleStatus(checked bool) AssetStatus {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	usage := 60
	initial := 15000000.0

	s := AssetStatus{
		Asset: Asset{
			AssetID:      "TS001",
			NameVi:       "Máy tính để bàn Dell",
			NameEn:       "Dell Desktop Computer",
			Type:         "IT Equipment",
			Department:   "IT",
			Location:     "Tầng 2 - Phòng 201",
			Status:       "Active",
			StartDate:    &start,
			UsagePeriod:  &usage,
			InitialValue: &initial,
		},
	}
	if checked {
		cycleID := uuid.New()
		inspector := "Nguyễn Văn A"
		scanTime := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
		actual := "Tầng 3 - Phòng 301"
		condition := ConditionGood
		s.CycleID = &cycleID
		s.IsChecked = true
		s.Inspector = &inspector
		s.ScanTime = &scanTime
		s.ActualLocation = &actual
		s.CheckedCondition = &condition
	}
	return s
}

func TestExportRowChecked(t *testing.T) {
	row := exportRow(sampleStatus(true))

	if len(row) != len(exportColumns) {
		t.Fatalf("row has %d keys, want %d", len(row), len(exportColumns))
	}
	if row["Mã tài sản"] != "TS001" {
		t.Fatalf("code = %v", row["Mã tài sản"])
	}
	if row["Đã kiểm kê"] != checkedToken {
		t.Fatalf("checked flag = %v, want %q", row["Đã kiểm kê"], checkedToken)
	}
	if row["Người kiểm"] != "Nguyễn Văn A" {
		t.Fatalf("inspector = %v", row["Người kiểm"])
	}
	if row["Thời gian kiểm"] != "2024-06-01 09:30:00" {
		t.Fatalf("scan time = %v", row["Thời gian kiểm"])
	}
	if row["Vị trí thực tế"] != "Tầng 3 - Phòng 301" {
		t.Fatalf("actual location = %v", row["Vị trí thực tế"])
	}
	if row["Ngày bắt đầu"] != "2024-01-15" {
		t.Fatalf("start date = %v", row["Ngày bắt đầu"])
	}
	if row["Thời gian SD"] != 60 {
		t.Fatalf("usage period = %v", row["Thời gian SD"])
	}
	if row["Giá trị ban đầu"] != 15000000.0 {
		t.Fatalf("initial value = %v", row["Giá trị ban đầu"])
	}
}

func TestExportRowUnchecked(t *testing.T) {
	row := exportRow(sampleStatus(false))

	if row["Đã kiểm kê"] != uncheckedToken {
		t.Fatalf("checked flag = %v, want %q", row["Đã kiểm kê"], uncheckedToken)
	}
	if row["Người kiểm"] != "" {
		t.Fatalf("inspector should be empty, got %v", row["Người kiểm"])
	}
	if row["Thời gian kiểm"] != "" {
		t.Fatalf("scan time should be empty, got %v", row["Thời gian kiểm"])
	}
	if row["Tình trạng kiểm kê"] != "" {
		t.Fatalf("condition should be empty, got %v", row["Tình trạng kiểm kê"])
	}
	// Unscanned assets fall back to the registry location.
	if row["Vị trí thực tế"] != "Tầng 2 - Phòng 201" {
		t.Fatalf("actual location = %v", row["Vị trí thực tế"])
	}
	if row["Ngày kết thúc"] != "" {
		t.Fatalf("absent date should render empty, got %v", row["Ngày kết thúc"])
	}
	if row["Giá trị hiện tại"] != "" {
		t.Fatalf("absent value should render empty, got %v", row["Giá trị hiện tại"])
	}
}

func TestExportCheckedFilter(t *testing.T) {
	tests := []struct {
		mode string
		want *bool
	}{
		{ExportAll, nil},
		{ExportChecked, boolPtr(true)},
		{ExportUnchecked, boolPtr(false)},
	}

	for _, tc := range tests {
		t.Run(tc.mode, func(t *testing.T) {
			got := exportChecked(tc.mode)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("exportChecked(%s) = %v, want nil", tc.mode, *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Fatalf("exportChecked(%s) = %v, want %v", tc.mode, got, *tc.want)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
