package billingentry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbill/medbill/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const entryCols = `id, clinic_id, provider_id, service_date, patient_name, insurance,
	procedure_codes, claim_status, appointment_status, insurance_payment, insurance_notes,
	payment_amount, patient_payment_status, copay, coinsurance, amount, notes,
	derived_month, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ClinicID, &e.ProviderID, &e.ServiceDate, &e.PatientName, &e.Insurance,
		&e.ProcedureCodes, &e.ClaimStatus, &e.AppointmentStatus, &e.InsurancePayment, &e.InsuranceNotes,
		&e.PaymentAmount, &e.PatientPaymentStatus, &e.Copay, &e.Coinsurance, &e.Amount, &e.Notes,
		&e.DerivedMonth, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO billing_entries (id, clinic_id, provider_id, service_date, patient_name,
			insurance, procedure_codes, claim_status, appointment_status, insurance_payment,
			insurance_notes, payment_amount, patient_payment_status, copay, coinsurance,
			amount, notes, derived_month)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		e.ID, e.ClinicID, e.ProviderID, e.ServiceDate, e.PatientName,
		e.Insurance, e.ProcedureCodes, e.ClaimStatus, e.AppointmentStatus, e.InsurancePayment,
		e.InsuranceNotes, e.PaymentAmount, e.PatientPaymentStatus, e.Copay, e.Coinsurance,
		e.Amount, e.Notes, e.DerivedMonth)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+entryCols+` FROM billing_entries WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, e *Entry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE billing_entries SET provider_id=$2, service_date=$3, patient_name=$4,
			insurance=$5, procedure_codes=$6, claim_status=$7, appointment_status=$8,
			insurance_payment=$9, insurance_notes=$10, payment_amount=$11,
			patient_payment_status=$12, copay=$13, coinsurance=$14, amount=$15,
			notes=$16, derived_month=$17, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.ProviderID, e.ServiceDate, e.PatientName,
		e.Insurance, e.ProcedureCodes, e.ClaimStatus, e.AppointmentStatus,
		e.InsurancePayment, e.InsuranceNotes, e.PaymentAmount,
		e.PatientPaymentStatus, e.Copay, e.Coinsurance, e.Amount,
		e.Notes, e.DerivedMonth)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM billing_entries WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID, f ListFilter, limit, offset int) ([]*Entry, int, error) {
	where := `WHERE clinic_id = $1`
	args := []interface{}{clinicID}
	if f.ProviderID != nil {
		args = append(args, *f.ProviderID)
		where += fmt.Sprintf(` AND provider_id = $%d`, len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(` AND service_date >= $%d`, len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(` AND service_date <= $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM billing_entries `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT `+entryCols+` FROM billing_entries %s ORDER BY service_date DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
