package timecard

import (
	"context"
	"fmt"
	"time"

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

const tcCols = `id, user_id, clinic_id, clock_in, clock_out, hourly_rate,
	total_hours, total_pay, notes, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.ClinicID, &e.ClockIn, &e.ClockOut, &e.HourlyRate,
		&e.TotalHours, &e.TotalPay, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO timecard_entries (id, user_id, clinic_id, clock_in, clock_out,
			hourly_rate, total_hours, total_pay, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		e.ID, e.UserID, e.ClinicID, e.ClockIn, e.ClockOut,
		e.HourlyRate, e.TotalHours, e.TotalPay, e.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+tcCols+` FROM timecard_entries WHERE id = $1`, id))
}

func (r *repoPG) GetOpenByUser(ctx context.Context, userID uuid.UUID) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx,
		`SELECT `+tcCols+` FROM timecard_entries WHERE user_id = $1 AND clock_out IS NULL`, userID))
}

func (r *repoPG) Update(ctx context.Context, e *Entry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE timecard_entries SET clock_in=$2, clock_out=$3, hourly_rate=$4,
			total_hours=$5, total_pay=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.ClockIn, e.ClockOut, e.HourlyRate, e.TotalHours, e.TotalPay, e.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM timecard_entries WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*Entry, error) {
	where := `WHERE user_id = $1`
	args := []interface{}{userID}
	if from != nil {
		args = append(args, *from)
		where += fmt.Sprintf(` AND clock_in >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += fmt.Sprintf(` AND clock_in <= $%d`, len(args))
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+tcCols+` FROM timecard_entries `+where+` ORDER BY clock_in DESC`, args...)
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
