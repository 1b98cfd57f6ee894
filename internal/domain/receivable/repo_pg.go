package receivable

import (
	"context"

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

const arCols = `id, clinic_id, patient_name, insurance_code, copay, coinsurance,
	date_of_service, cpt_code, appointment_status, claim_status, submit_date,
	insurance_payment, insurance_pay_date, patient_responsibility, collected_from_patient,
	patient_payment_status, total_pay, ar_amount, notes, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ClinicID, &e.PatientName, &e.InsuranceCode, &e.Copay, &e.Coinsurance,
		&e.DateOfService, &e.CPTCode, &e.AppointmentStatus, &e.ClaimStatus, &e.SubmitDate,
		&e.InsurancePayment, &e.InsurancePayDate, &e.PatientResponsibility, &e.CollectedFromPatient,
		&e.PatientPaymentStatus, &e.TotalPay, &e.ARAmount, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO accounts_receivable (id, clinic_id, patient_name, insurance_code, copay,
			coinsurance, date_of_service, cpt_code, appointment_status, claim_status,
			submit_date, insurance_payment, insurance_pay_date, patient_responsibility,
			collected_from_patient, patient_payment_status, total_pay, ar_amount, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		e.ID, e.ClinicID, e.PatientName, e.InsuranceCode, e.Copay,
		e.Coinsurance, e.DateOfService, e.CPTCode, e.AppointmentStatus, e.ClaimStatus,
		e.SubmitDate, e.InsurancePayment, e.InsurancePayDate, e.PatientResponsibility,
		e.CollectedFromPatient, e.PatientPaymentStatus, e.TotalPay, e.ARAmount, e.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+arCols+` FROM accounts_receivable WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, e *Entry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE accounts_receivable SET patient_name=$2, insurance_code=$3, copay=$4,
			coinsurance=$5, date_of_service=$6, cpt_code=$7, appointment_status=$8,
			claim_status=$9, submit_date=$10, insurance_payment=$11, insurance_pay_date=$12,
			patient_responsibility=$13, collected_from_patient=$14, patient_payment_status=$15,
			total_pay=$16, ar_amount=$17, notes=$18, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.PatientName, e.InsuranceCode, e.Copay,
		e.Coinsurance, e.DateOfService, e.CPTCode, e.AppointmentStatus,
		e.ClaimStatus, e.SubmitDate, e.InsurancePayment, e.InsurancePayDate,
		e.PatientResponsibility, e.CollectedFromPatient, e.PatientPaymentStatus,
		e.TotalPay, e.ARAmount, e.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM accounts_receivable WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+arCols+` FROM accounts_receivable WHERE clinic_id = $1 ORDER BY date_of_service DESC NULLS LAST`,
		clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
