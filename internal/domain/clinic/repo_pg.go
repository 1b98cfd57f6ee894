package clinic

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// -- Clinic --

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const clinicCols = `id, name, address, phone, fee_percentage, created_at, updated_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.FeePercentage, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Clinic) error {
	c.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO clinics (id, name, address, phone, fee_percentage) VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.Name, c.Address, c.Phone, c.FeePercentage)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return scanClinic(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+clinicCols+` FROM clinics WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Clinic) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE clinics SET name=$2, address=$3, phone=$4, fee_percentage=$5, updated_at=NOW() WHERE id = $1`,
		c.ID, c.Name, c.Address, c.Phone, c.FeePercentage)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context) ([]*Clinic, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+clinicCols+` FROM clinics ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// -- Provider --

type providerRepoPG struct{ pool *pgxpool.Pool }

func NewProviderRepoPG(pool *pgxpool.Pool) ProviderRepository { return &providerRepoPG{pool: pool} }

const providerCols = `id, clinic_id, name, specialty, pay_rate, created_at, updated_at`

func scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.ClinicID, &p.Name, &p.Specialty, &p.PayRate, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *providerRepoPG) Create(ctx context.Context, p *Provider) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO providers (id, clinic_id, name, specialty, pay_rate) VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.ClinicID, p.Name, p.Specialty, p.PayRate)
	return err
}

func (r *providerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return scanProvider(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+providerCols+` FROM providers WHERE id = $1`, id))
}

func (r *providerRepoPG) Update(ctx context.Context, p *Provider) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE providers SET name=$2, specialty=$3, pay_rate=$4, updated_at=NOW() WHERE id = $1`,
		p.ID, p.Name, p.Specialty, p.PayRate)
	return err
}

func (r *providerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM providers WHERE id = $1`, id)
	return err
}

func (r *providerRepoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Provider, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+providerCols+` FROM providers WHERE clinic_id = $1 ORDER BY name`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// -- Provider payments --

type paymentRepoPG struct{ pool *pgxpool.Pool }

func NewPaymentRepoPG(pool *pgxpool.Pool) PaymentRepository { return &paymentRepoPG{pool: pool} }

func (r *paymentRepoPG) Create(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO provider_payments (id, provider_id, clinic_id, description, amount, month, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.ProviderID, p.ClinicID, p.Description, p.Amount, p.Month, p.Notes)
	return err
}

func (r *paymentRepoPG) Update(ctx context.Context, p *Payment) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE provider_payments SET description=$2, amount=$3, month=$4, notes=$5 WHERE id = $1`,
		p.ID, p.Description, p.Amount, p.Month, p.Notes)
	return err
}

func (r *paymentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM provider_payments WHERE id = $1`, id)
	return err
}

func (r *paymentRepoPG) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*Payment, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, provider_id, clinic_id, description, amount, month, notes, created_at
		FROM provider_payments WHERE provider_id = $1 ORDER BY created_at DESC`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.ProviderID, &p.ClinicID, &p.Description, &p.Amount, &p.Month, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
