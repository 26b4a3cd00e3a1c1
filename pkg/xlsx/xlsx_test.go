package xlsx

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRows(t *testing.T) {
	headers := []string{"Code", "NameVi", "UsagePeriod"}
	rows := []map[string]any{
		{"Code": "TS001", "NameVi": "Máy in laser", "UsagePeriod": 48},
		{"Code": "TS002", "NameVi": "Bàn làm việc"},
	}

	var buf bytes.Buffer
	if err := EncodeRows(&buf, headers, rows); err != nil {
		t.Fatalf("EncodeRows: %v", err)
	}

	decoded, err := DecodeRows(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeRows: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d rows, want 2", len(decoded))
	}

	// Cells come back as strings regardless of the value written.
	if decoded[0]["Code"] != "TS001" {
		t.Fatalf("row 0 Code = %v", decoded[0]["Code"])
	}
	if decoded[0]["NameVi"] != "Máy in laser" {
		t.Fatalf("row 0 NameVi = %v", decoded[0]["NameVi"])
	}
	if decoded[0]["UsagePeriod"] != "48" {
		t.Fatalf("row 0 UsagePeriod = %v", decoded[0]["UsagePeriod"])
	}
	if _, ok := decoded[1]["UsagePeriod"]; ok {
		t.Fatal("missing cell should stay absent")
	}
}

func TestEncodeRowsRequiresHeaders(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeRows(&buf, nil, nil); err == nil {
		t.Fatal("expected error for empty headers")
	}
}

func TestDecodeRowsSkipsBlankLines(t *testing.T) {
	headers := []string{"Code"}
	rows := []map[string]any{
		{"Code": "TS001"},
		{"Code": ""},
		{"Code": "TS003"},
	}

	var buf bytes.Buffer
	if err := EncodeRows(&buf, headers, rows); err != nil {
		t.Fatalf("EncodeRows: %v", err)
	}

	decoded, err := DecodeRows(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeRows: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d rows, want 2 (blank row dropped)", len(decoded))
	}
}
