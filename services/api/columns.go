package api

import "strings"

// columnToField resolves external column labels to registry attribute names.
// Two fixed vocabularies are recognised: the canonical short field codes used
// by the upstream sheet, and the parallel Vietnamese long-form labels.
var columnToField = map[string]string{
	"Code":         "asset_id",
	"NameVi":       "name_vi",
	"NameEn":       "name_en",
	"Type":         "type",
	"Model":        "model",
	"Serial":       "serial",
	"TechCode":     "tech_code",
	"StartDate":    "start_date",
	"UsagePeriod":  "usage_period",
	"EndDate":      "end_date",
	"Customer":     "customer",
	"Supplier":     "supplier",
	"Source":       "source",
	"Department":   "department",
	"Location":     "location",
	"Status":       "status",
	"InitialValue": "initial_value",
	"CurrentValue": "current_value",
	"Notes":        "notes",

	"Mã tài sản":        "asset_id",
	"Tên tiếng Việt":    "name_vi",
	"Tên tiếng Anh":     "name_en",
	"Loại":              "type",
	"Số Serial":         "serial",
	"Mã kỹ thuật":       "tech_code",
	"Ngày bắt đầu":      "start_date",
	"Thời gian SD":      "usage_period",
	"Ngày kết thúc":     "end_date",
	"Khách hàng":        "customer",
	"Nhà cung cấp":      "supplier",
	"Nguồn":             "source",
	"Bộ phận":           "department",
	"Vị trí":            "location",
	"Trạng thái":        "status",
	"Giá trị ban đầu":   "initial_value",
	"Giá trị hiện tại":  "current_value",
	"Ghi chú":           "notes",
}

// normalizeLabel maps an external column label to an attribute name. Unknown
// labels are transliterated (lowercase, whitespace to underscores) instead of
// being dropped, so no column is silently lost.
func normalizeLabel(label string) string {
	if field, ok := columnToField[label]; ok {
		return field
	}
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}

// normalizeRow rewrites a raw row's keys to attribute names and drops entries
// whose value is nil or an empty string, so a bulk update never overwrites an
// existing attribute with a blank.
func normalizeRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for label, value := range row {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		out[normalizeLabel(label)] = value
	}
	return out
}

// exportColumn pairs an ordered, human-labeled export column with the status
// field it renders.
type exportColumn struct {
	Label string
	Field string
}

// exportColumns is the fixed row shape produced by the export formatter, in
// order. Labels match the upstream sheet's Vietnamese vocabulary.
var exportColumns = []exportColumn{
	{"Mã tài sản", "asset_id"},
	{"Tên tiếng Việt", "name_vi"},
	{"Tên tiếng Anh", "name_en"},
	{"Loại", "type"},
	{"Model", "model"},
	{"Serial", "serial"},
	{"Mã kỹ thuật", "tech_code"},
	{"Ngày bắt đầu", "start_date"},
	{"Thời gian SD", "usage_period"},
	{"Ngày kết thúc", "end_date"},
	{"Khách hàng", "customer"},
	{"Nhà cung cấp", "supplier"},
	{"Nguồn", "source"},
	{"Bộ phận", "department"},
	{"Vị trí", "location"},
	{"Vị trí thực tế", "actual_location"},
	{"Trạng thái", "status"},
	{"Tình trạng kiểm kê", "checked_condition"},
	{"Đã kiểm kê", "is_checked"},
	{"Người kiểm", "inspector"},
	{"Thời gian kiểm", "scan_time"},
	{"Giá trị ban đầu", "initial_value"},
	{"Giá trị hiện tại", "current_value"},
	{"Ghi chú", "notes"},
}

// Yes/no tokens used when rendering the checked flag for export.
const (
	checkedToken   = "Có"
	uncheckedToken = "Chưa"
)

// templateRows are example rows returned by the template endpoint to guide
// external data producers. No business logic depends on them.
var templateRows = []map[string]any{
	{
		"Code":         "TS001",
		"NameVi":       "Máy tính để bàn Dell",
		"NameEn":       "Dell Desktop Computer",
		"Type":         "IT Equipment",
		"Model":        "Optiplex 7090",
		"Serial":       "DL2024001",
		"TechCode":     "TECH-001",
		"StartDate":    "2024-01-15",
		"UsagePeriod":  60,
		"EndDate":      "2029-01-15",
		"Customer":     "Nội bộ",
		"Supplier":     "Dell Vietnam",
		"Source":       "Mua mới",
		"Department":   "IT",
		"Location":     "Tầng 2 - Phòng 201",
		"Status":       "Active",
		"InitialValue": 15000000,
		"CurrentValue": 12000000,
		"Notes":        "Máy cấu hình cao cho developer",
	},
	{
		"Code":         "TS002",
		"NameVi":       "Bàn làm việc",
		"NameEn":       "Office Desk",
		"Type":         "Furniture",
		"Model":        "IKEA-BEKANT",
		"Serial":       "",
		"TechCode":     "",
		"StartDate":    "2023-06-01",
		"UsagePeriod":  120,
		"EndDate":      "2033-06-01",
		"Customer":     "Nội bộ",
		"Supplier":     "IKEA",
		"Source":       "Mua mới",
		"Department":   "Admin",
		"Location":     "Tầng 3 - Phòng 301",
		"Status":       "Active",
		"InitialValue": 5000000,
		"CurrentValue": 4000000,
		"Notes":        "Bàn điều chỉnh độ cao",
	},
	{
		"Code":         "TS003",
		"NameVi":       "Máy in laser",
		"NameEn":       "Laser Printer",
		"Type":         "IT Equipment",
		"Model":        "HP LaserJet Pro M404n",
		"Serial":       "HP2024003",
		"TechCode":     "TECH-003",
		"StartDate":    "2024-03-01",
		"UsagePeriod":  48,
		"EndDate":      "2028-03-01",
		"Customer":     "Nội bộ",
		"Supplier":     "HP Vietnam",
		"Source":       "Mua mới",
		"Department":   "Accounting",
		"Location":     "Tầng 2 - Phòng 205",
		"Status":       "Active",
		"InitialValue": 8000000,
		"CurrentValue": 7000000,
		"Notes":        "Máy in chung cho phòng kế toán",
	},
}

// templateHeaders is the column order used when the template is rendered as a
// workbook.
var templateHeaders = []string{
	"Code", "NameVi", "NameEn", "Type", "Model", "Serial", "TechCode",
	"StartDate", "UsagePeriod", "EndDate", "Customer", "Supplier", "Source",
	"Department", "Location", "Status", "InitialValue", "CurrentValue", "Notes",
}

var templateColumnDescriptions = map[string]string{
	"Code":         "Mã tài sản - Unique asset code (required)",
	"NameVi":       "Tên tiếng Việt",
	"NameEn":       "Tên tiếng Anh",
	"Type":         "Loại tài sản (IT Equipment, Furniture, etc.)",
	"Model":        "Model của thiết bị",
	"Serial":       "Số serial",
	"TechCode":     "Mã kỹ thuật",
	"StartDate":    "Ngày bắt đầu sử dụng (YYYY-MM-DD)",
	"UsagePeriod":  "Thời gian sử dụng (tháng)",
	"EndDate":      "Ngày kết thúc",
	"Customer":     "Khách hàng",
	"Supplier":     "Nhà cung cấp",
	"Source":       "Nguồn gốc",
	"Department":   "Bộ phận",
	"Location":     "Vị trí",
	"Status":       "Trạng thái (Active/Inactive)",
	"InitialValue": "Giá trị ban đầu",
	"CurrentValue": "Giá trị hiện tại",
	"Notes":        "Ghi chú",
}
