package report

import (
	"context"
	"sort"

	"github.com/medbill/medbill/internal/gateway"
)

const invoiceTable = "invoices"

// PatientInvoiceSummary aggregates one patient's invoices. Derived marks
// summaries computed through the fallback path, where payment columns were
// absent and paid counts come from the invoice balance alone.
type PatientInvoiceSummary struct {
	PatientID    string  `json:"patient_id"`
	InvoiceCount int     `json:"invoice_count"`
	TotalBilled  float64 `json:"total_billed"`
	TotalPaid    float64 `json:"total_paid"`
	Outstanding  float64 `json:"outstanding"`
	PaidCount    int     `json:"paid_count"`
	UnpaidCount  int     `json:"unpaid_count"`
	Derived      bool    `json:"derived,omitempty"`
}

// PatientInvoiceReport aggregates invoices per patient. Deployments running
// an older schema lack the paid_amount column; that select fails with an
// undefined-column code and the report falls back to deriving counts from
// the balance alone. Any other failure is returned as-is.
func (s *Service) PatientInvoiceReport(ctx context.Context, clinicID string) ([]PatientInvoiceSummary, error) {
	filter := gateway.Filter{"clinic_id": clinicID}

	rows, err := s.gw.Select(ctx, invoiceTable, filter, "paid_amount DESC", 0)
	if err != nil {
		if !gateway.IsUndefinedColumn(err) {
			return nil, err
		}
		s.log.Warn().Str("clinic_id", clinicID).
			Msg("paid_amount column absent, deriving patient invoice report from balances")
		rows, err = s.gw.Select(ctx, invoiceTable, filter, "created_at DESC", 0)
		if err != nil {
			return nil, err
		}
		return patientInvoiceSummaries(rows, true), nil
	}
	return patientInvoiceSummaries(rows, false), nil
}

func patientInvoiceSummaries(rows []gateway.Row, derived bool) []PatientInvoiceSummary {
	byPatient := map[string]*PatientInvoiceSummary{}
	for _, row := range rows {
		patientID := strField(row, "patient_id")
		if patientID == "" {
			continue
		}
		sum, ok := byPatient[patientID]
		if !ok {
			sum = &PatientInvoiceSummary{PatientID: patientID, Derived: derived}
			byPatient[patientID] = sum
		}

		billed := floatField(row, "balance_due")
		sum.InvoiceCount++
		sum.TotalBilled += billed

		if derived {
			// Without payment columns every open balance counts as unpaid.
			sum.Outstanding += billed
			sum.UnpaidCount++
			continue
		}
		paid := floatField(row, "paid_amount")
		sum.TotalPaid += paid
		if paid >= billed && billed > 0 {
			sum.PaidCount++
		} else {
			sum.UnpaidCount++
			sum.Outstanding += billed - paid
		}
	}

	out := make([]PatientInvoiceSummary, 0, len(byPatient))
	for _, sum := range byPatient {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientID < out[j].PatientID })
	return out
}
