// Package export reads and writes spreadsheet interchange files. Import maps
// a workbook's first sheet to billing-entry insert payloads by best-effort
// header matching; export renders a row set with one column per field.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/medbill/medbill/internal/gateway"
	"github.com/medbill/medbill/internal/grid"
)

// headerFields maps normalized header names to billing entry columns.
// Normalization lowercases and strips spaces and underscores, so "Patient
// Name", "patient" and "PATIENT_NAME" all land on patient_name.
var headerFields = map[string]string{
	"date":                 "service_date",
	"servicedate":          "service_date",
	"dateofservice":        "service_date",
	"patient":              "patient_name",
	"patientname":          "patient_name",
	"name":                 "patient_name",
	"insurance":            "insurance",
	"cpt":                  "procedure_codes",
	"cptcode":              "procedure_codes",
	"cptcodes":             "procedure_codes",
	"procedurecode":        "procedure_codes",
	"procedurecodes":       "procedure_codes",
	"claimstatus":          "claim_status",
	"appointmentstatus":    "appointment_status",
	"insurancepayment":     "insurance_payment",
	"insurancenotes":       "insurance_notes",
	"paymentamount":        "payment_amount",
	"patientpayment":       "payment_amount",
	"patientpaymentstatus": "patient_payment_status",
	"copay":                "copay",
	"coinsurance":          "coinsurance",
	"amount":               "amount",
	"charge":               "amount",
	"notes":                "notes",
}

var importDateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", "01-02-2006", "01-02-06"}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	return h
}

// ParseBillingSheet reads the first sheet of a workbook into insert payloads.
// Unrecognized headers are skipped; cells failing coercion are dropped from
// their row, never fail the import.
func ParseBillingSheet(r io.Reader) ([]gateway.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = f.GetSheetName(1)
	}
	rows := f.GetRows(sheet)
	if len(rows) < 2 {
		return nil, nil
	}

	fields := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		fields[i] = headerFields[normalizeHeader(h)]
	}

	cols := grid.BillingColumns()
	var out []gateway.Row
	for _, raw := range rows[1:] {
		row := gateway.Row{}
		for i, cell := range raw {
			if i >= len(fields) || fields[i] == "" || strings.TrimSpace(cell) == "" {
				continue
			}
			field := fields[i]
			spec, ok := cols.Spec(field)
			if !ok {
				row[field] = cell
				continue
			}
			if spec.Kind == grid.KindDate {
				if iso, ok := parseImportDate(cell); ok {
					row[field] = iso
				}
				continue
			}
			value, err := spec.Coerce(cell)
			if err != nil {
				continue
			}
			row[field] = value
		}
		if len(row) > 0 {
			out = append(out, row)
		}
	}
	return out, nil
}

func parseImportDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// Sheet is a rendered export: one header row plus data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Workbook renders a sheet into a new xlsx file.
func Workbook(s Sheet) *excelize.File {
	f := excelize.NewFile()
	f.NewSheet(s.Name)
	f.DeleteSheet("Sheet1")
	for i, h := range s.Headers {
		f.SetCellValue(s.Name, axis(i, 1), h)
	}
	for r, row := range s.Rows {
		for c, v := range row {
			f.SetCellValue(s.Name, axis(c, r+2), v)
		}
	}
	return f
}

// axis converts zero-based column and one-based row to an A1 reference.
func axis(col, row int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return fmt.Sprintf("%s%d", name, row)
}
