// Package grid binds an in-memory row collection to a remote table: per-cell
// commits with type coercion, column lock policy, placeholder suppression and
// merge-only reconciliation of the local cache.
package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the coercion behavior of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindDate
	KindMultiselect
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	case KindMultiselect:
		return "multiselect"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// ColumnSpec describes one editable column. Commits dispatch through a
// lookup table of these instead of trusting raw field names off the wire.
type ColumnSpec struct {
	Field   string
	Kind    Kind
	Options []string // fixed option list for enum and multiselect columns
}

// Coerce normalizes a raw edit value into the wire value for the column.
func (c ColumnSpec) Coerce(raw interface{}) (interface{}, error) {
	switch c.Kind {
	case KindNumeric:
		return coerceNumeric(raw), nil
	case KindDate:
		return coerceDate(raw)
	case KindMultiselect:
		return coerceMultiselect(raw), nil
	case KindEnum, KindText:
		return coerceText(raw), nil
	}
	return nil, fmt.Errorf("column %s: unknown kind %d", c.Field, c.Kind)
}

// coerceNumeric parses a float; anything unparseable stores as 0 rather than
// rejecting the write or leaving NaN on the wire.
func coerceNumeric(raw interface{}) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
	f, err := strconv.ParseFloat(fmt.Sprint(raw), 64)
	if err != nil {
		return 0
	}
	return f
}

// coerceDate validates the ISO calendar form. Display formats never reach
// the wire; an empty or unparseable value clears the cell, matching how the
// import path drops dates it cannot read.
func coerceDate(raw interface{}) (interface{}, error) {
	s := strings.TrimSpace(coerceText(raw))
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", nil
	}
	return s, nil
}

// coerceMultiselect serializes a value set as a comma-and-space-joined
// string. An empty set stores as the empty string, not null.
func coerceMultiselect(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case []string:
		return JoinValues(v)
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, fmt.Sprint(p))
		}
		return JoinValues(parts)
	case string:
		return JoinValues(SplitValues(v))
	}
	return fmt.Sprint(raw)
}

func coerceText(raw interface{}) string {
	if raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

// JoinValues is the storage encoding for multi-value cells: "A, B, C".
func JoinValues(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return strings.Join(cleaned, ", ")
}

// SplitValues inverts JoinValues: split on comma, trim, drop empties.
func SplitValues(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Columns is the per-table lookup of editable columns.
type Columns map[string]ColumnSpec

// Spec returns the column for a field, if any.
func (cols Columns) Spec(field string) (ColumnSpec, bool) {
	c, ok := cols[field]
	return c, ok
}

// BillingColumns describes the editable columns of the billing_entries grid.
func BillingColumns() Columns {
	return Columns{
		"service_date":          {Field: "service_date", Kind: KindDate},
		"patient_name":          {Field: "patient_name", Kind: KindText},
		"insurance":             {Field: "insurance", Kind: KindText},
		"procedure_codes":       {Field: "procedure_codes", Kind: KindMultiselect},
		"claim_status":          {Field: "claim_status", Kind: KindEnum, Options: []string{"Pending", "Approved", "Paid", "Rejected"}},
		"appointment_status":    {Field: "appointment_status", Kind: KindEnum},
		"insurance_payment":     {Field: "insurance_payment", Kind: KindNumeric},
		"insurance_notes":       {Field: "insurance_notes", Kind: KindText},
		"payment_amount":        {Field: "payment_amount", Kind: KindNumeric},
		"patient_payment_status": {Field: "patient_payment_status", Kind: KindEnum},
		"copay":                 {Field: "copay", Kind: KindNumeric},
		"coinsurance":           {Field: "coinsurance", Kind: KindNumeric},
		"amount":                {Field: "amount", Kind: KindNumeric},
		"notes":                 {Field: "notes", Kind: KindText},
	}
}

// ReceivableColumns describes the editable columns of the
// accounts_receivable grid.
func ReceivableColumns() Columns {
	return Columns{
		"patient_name":          {Field: "patient_name", Kind: KindText},
		"insurance_code":        {Field: "insurance_code", Kind: KindText},
		"copay":                 {Field: "copay", Kind: KindNumeric},
		"coinsurance":           {Field: "coinsurance", Kind: KindNumeric},
		"date_of_service":       {Field: "date_of_service", Kind: KindDate},
		"cpt_code":              {Field: "cpt_code", Kind: KindMultiselect},
		"appointment_status":    {Field: "appointment_status", Kind: KindEnum},
		"claim_status":          {Field: "claim_status", Kind: KindEnum},
		"submit_date":           {Field: "submit_date", Kind: KindDate},
		"insurance_payment":     {Field: "insurance_payment", Kind: KindNumeric},
		"insurance_pay_date":    {Field: "insurance_pay_date", Kind: KindDate},
		"patient_responsibility": {Field: "patient_responsibility", Kind: KindNumeric},
		"collected_from_patient": {Field: "collected_from_patient", Kind: KindNumeric},
		"patient_payment_status": {Field: "patient_payment_status", Kind: KindEnum},
		"total_pay":             {Field: "total_pay", Kind: KindNumeric},
		"ar_amount":             {Field: "ar_amount", Kind: KindNumeric},
		"notes":                 {Field: "notes", Kind: KindText},
	}
}
