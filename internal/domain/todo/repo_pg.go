package todo

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

const todoCols = `id, clinic_id, title, description, claim_ref, status, created_by, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var t Item
	err := row.Scan(&t.ID, &t.ClinicID, &t.Title, &t.Description, &t.ClaimRef, &t.Status,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *repoPG) Create(ctx context.Context, item *Item) error {
	item.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO todo_items (id, clinic_id, title, description, claim_ref, status, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		item.ID, item.ClinicID, item.Title, item.Description, item.ClaimRef, item.Status, item.CreatedBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return scanItem(r.conn(ctx).QueryRow(ctx, `SELECT `+todoCols+` FROM todo_items WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, item *Item) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE todo_items SET title=$2, description=$3, claim_ref=$4, status=$5, updated_at=NOW()
		WHERE id = $1`,
		item.ID, item.Title, item.Description, item.ClaimRef, item.Status)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM todo_items WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID, status string) ([]*Item, error) {
	query := `SELECT ` + todoCols + ` FROM todo_items WHERE clinic_id = $1`
	args := []interface{}{clinicID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *repoPG) AddNote(ctx context.Context, note *Note) error {
	note.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO todo_notes (id, todo_id, body, created_by) VALUES ($1,$2,$3,$4)`,
		note.ID, note.TodoID, note.Body, note.CreatedBy)
	return err
}

func (r *repoPG) GetNotes(ctx context.Context, todoID uuid.UUID) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, todo_id, body, created_by, created_at FROM todo_notes WHERE todo_id = $1 ORDER BY created_at`,
		todoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.TodoID, &n.Body, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}
