package export

import (
	"bytes"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
)

func TestAxis(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{0, 1, "A1"},
		{1, 2, "B2"},
		{25, 1, "Z1"},
		{26, 3, "AA3"},
		{27, 10, "AB10"},
	}
	for _, tt := range tests {
		if got := axis(tt.col, tt.row); got != tt.want {
			t.Errorf("axis(%d, %d) = %s, want %s", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	for _, h := range []string{"Patient Name", "patient_name", "PATIENT NAME", "PatientName"} {
		if normalizeHeader(h) != "patientname" {
			t.Errorf("normalizeHeader(%q) = %q", h, normalizeHeader(h))
		}
	}
}

func TestParseImportDate(t *testing.T) {
	for _, s := range []string{"2024-09-05", "09/05/2024", "9/5/2024"} {
		iso, ok := parseImportDate(s)
		if !ok || iso != "2024-09-05" {
			t.Errorf("parseImportDate(%q) = %q, %v", s, iso, ok)
		}
	}
	if _, ok := parseImportDate("September 5"); ok {
		t.Error("unparseable date should be rejected")
	}
}

func TestBillingSheetRoundTrip(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Patient Name")
	f.SetCellValue(sheet, "C1", "CPT Code")
	f.SetCellValue(sheet, "D1", "Amount")
	f.SetCellValue(sheet, "E1", "Mystery")

	f.SetCellValue(sheet, "A2", "09/05/2024")
	f.SetCellValue(sheet, "B2", "Maria Lopez")
	f.SetCellValue(sheet, "C2", "99213, 99214")
	f.SetCellValue(sheet, "D2", "125.50")
	f.SetCellValue(sheet, "E2", "ignored")

	f.SetCellValue(sheet, "A3", "not a date")
	f.SetCellValue(sheet, "B3", "Sam Porter")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	rows, err := ParseBillingSheet(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	first := rows[0]
	if first["service_date"] != "2024-09-05" {
		t.Errorf("service_date = %v", first["service_date"])
	}
	if first["patient_name"] != "Maria Lopez" {
		t.Errorf("patient_name = %v", first["patient_name"])
	}
	if first["procedure_codes"] != "99213, 99214" {
		t.Errorf("procedure_codes = %v", first["procedure_codes"])
	}
	if first["amount"] != 125.50 {
		t.Errorf("amount = %v", first["amount"])
	}
	if _, ok := first["mystery"]; ok {
		t.Error("unknown header should be skipped")
	}

	// unparseable date is dropped from its row, not fatal
	second := rows[1]
	if _, ok := second["service_date"]; ok {
		t.Errorf("bad date should be dropped: %v", second)
	}
	if second["patient_name"] != "Sam Porter" {
		t.Errorf("patient_name = %v", second["patient_name"])
	}
}

func TestWorkbook(t *testing.T) {
	f := Workbook(Sheet{
		Name:    "Billing",
		Headers: []string{"Date", "Patient", "Amount"},
		Rows: [][]interface{}{
			{"2024-09-05", "Maria Lopez", 125.5},
			{"2024-09-06", "Sam Porter", 80.0},
		},
	})
	rows := f.GetRows("Billing")
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][1] != "Patient" || rows[2][1] != "Sam Porter" {
		t.Errorf("rows = %v", rows)
	}
}
