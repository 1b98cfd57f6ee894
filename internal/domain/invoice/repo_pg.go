package invoice

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

const invCols = `id, clinic_id, patient_id, period_month, insurance_payments,
	fee_percentage, balance_due, paid_amount, status, due_date, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.ClinicID, &inv.PatientID, &inv.PeriodMonth, &inv.InsurancePayments,
		&inv.FeePercentage, &inv.BalanceDue, &inv.PaidAmount, &inv.Status, &inv.DueDate, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoices (id, clinic_id, patient_id, period_month, insurance_payments,
			fee_percentage, balance_due, paid_amount, status, due_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		inv.ID, inv.ClinicID, inv.PatientID, inv.PeriodMonth, inv.InsurancePayments,
		inv.FeePercentage, inv.BalanceDue, inv.PaidAmount, inv.Status, inv.DueDate, inv.Notes)
	return err
}

// CreateWithItems inserts the invoice and its line items in one transaction.
func (r *repoPG) CreateWithItems(ctx context.Context, inv *Invoice, items []*Item) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.Create(ctx, inv); err != nil {
			return err
		}
		for _, item := range items {
			item.InvoiceID = inv.ID
			if err := r.AddItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+invCols+` FROM invoices WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, inv *Invoice) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE invoices SET patient_id=$2, period_month=$3, insurance_payments=$4,
			fee_percentage=$5, balance_due=$6, paid_amount=$7, status=$8, due_date=$9,
			notes=$10, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.PatientID, inv.PeriodMonth, inv.InsurancePayments,
		inv.FeePercentage, inv.BalanceDue, inv.PaidAmount, inv.Status, inv.DueDate, inv.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE clinic_id = $1`, clinicID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+invCols+` FROM invoices WHERE clinic_id = $1 ORDER BY period_month DESC, created_at DESC LIMIT $2 OFFSET $3`,
		clinicID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}

func (r *repoPG) AddItem(ctx context.Context, item *Item) error {
	item.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoice_items (id, invoice_id, description, amount)
		VALUES ($1,$2,$3,$4)`,
		item.ID, item.InvoiceID, item.Description, item.Amount)
	return err
}

func (r *repoPG) GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, invoice_id, description, amount, created_at FROM invoice_items WHERE invoice_id = $1 ORDER BY created_at`,
		invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Amount, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}
