package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/domain/clinic"
	"github.com/medbill/medbill/internal/gateway"
	"github.com/medbill/medbill/internal/period"
)

// Service computes reporting aggregates from raw gateway rows so that the
// same bucketing rules apply regardless of which screen wrote the data.
type Service struct {
	gw        gateway.Client
	providers clinic.ProviderRepository
	payments  clinic.PaymentRepository
	log       zerolog.Logger
}

func NewService(gw gateway.Client, providers clinic.ProviderRepository, payments clinic.PaymentRepository, log zerolog.Logger) *Service {
	return &Service{gw: gw, providers: providers, payments: payments, log: log}
}

const billingTable = "billing_entries"

func floatField(row gateway.Row, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func strField(row gateway.Row, key string) string {
	s, _ := row[key].(string)
	return s
}

func recordFromBillingRow(row gateway.Row) period.Record {
	return period.Record{
		Date:          strField(row, "service_date"),
		Charged:       floatField(row, "amount"),
		InsurancePay:  floatField(row, "insurance_payment"),
		PatientPay:    floatField(row, "payment_amount"),
		Status:        strField(row, "claim_status"),
		PaymentStatus: strField(row, "patient_payment_status"),
	}
}

func (s *Service) billingRecords(ctx context.Context, clinicID string, extra gateway.Filter) ([]period.Record, error) {
	filter := gateway.Filter{"clinic_id": clinicID}
	for k, v := range extra {
		filter[k] = v
	}
	rows, err := s.gw.Select(ctx, billingTable, filter, "service_date DESC", 0)
	if err != nil {
		return nil, err
	}
	records := make([]period.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromBillingRow(row))
	}
	return records, nil
}

// MonthlySummaries buckets every billing row for a clinic by service month,
// most recent month first.
func (s *Service) MonthlySummaries(ctx context.Context, clinicID string) ([]period.MonthSummary, error) {
	records, err := s.billingRecords(ctx, clinicID, nil)
	if err != nil {
		return nil, err
	}
	return period.SummarizeByMonth(records), nil
}

// RangeSummary aggregates the billing rows whose service date falls in the
// range. Undated rows are excluded and counted.
func (s *Service) RangeSummary(ctx context.Context, clinicID string, r period.Range) (period.Totals, error) {
	records, err := s.billingRecords(ctx, clinicID, nil)
	if err != nil {
		return period.Totals{}, err
	}
	in := period.Filter(records, r)
	totals := period.Summarize(in)
	totals.ExcludedCount = len(records) - len(in)
	return totals, nil
}

func (s *Service) MonthSummary(ctx context.Context, clinicID string, key period.Key) (period.Totals, error) {
	return s.RangeSummary(ctx, clinicID, period.MonthRange(key.Year, key.Month))
}

func (s *Service) QuarterSummary(ctx context.Context, clinicID string, year, quarter int) (period.Totals, error) {
	if quarter < 1 || quarter > 4 {
		return period.Totals{}, fmt.Errorf("quarter must be 1..4")
	}
	return s.RangeSummary(ctx, clinicID, period.QuarterRange(year, quarter))
}

func (s *Service) YearSummary(ctx context.Context, clinicID string, year int) (period.Totals, error) {
	return s.RangeSummary(ctx, clinicID, period.YearRange(year))
}

// PayoutSnapshot aggregates one provider's billing rows for one month and
// books the payout as a provider_payments ledger line. The snapshot is a
// plain create; editing the resulting payment afterwards is allowed.
func (s *Service) PayoutSnapshot(ctx context.Context, providerID uuid.UUID, key period.Key) (*clinic.Payment, error) {
	provider, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("load provider: %w", err)
	}
	if provider.PayRate == nil {
		return nil, fmt.Errorf("provider %s has no pay_rate configured", provider.Name)
	}

	records, err := s.billingRecords(ctx, provider.ClinicID.String(), gateway.Filter{"provider_id": providerID.String()})
	if err != nil {
		return nil, err
	}
	totals := period.Summarize(period.Filter(records, period.MonthRange(key.Year, key.Month)))

	month := key.String()
	payment := &clinic.Payment{
		ProviderID:  providerID,
		ClinicID:    provider.ClinicID,
		Description: fmt.Sprintf("Payout for %s", key.Label()),
		Amount:      totals.TotalPay * *provider.PayRate / 100,
		Month:       &month,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("provider_id", providerID.String()).
		Str("month", month).
		Float64("amount", payment.Amount).
		Int("rows", totals.Count).
		Msg("provider payout booked")
	return payment, nil
}
