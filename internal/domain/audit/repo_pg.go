package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const logCols = `id, user_id, role, resource, clinic_id, action, ip_address,
	user_agent, path, method, request_id, status_code, created_at`

func scanLog(row pgx.Row) (*Log, error) {
	var l Log
	err := row.Scan(&l.ID, &l.UserID, &l.Role, &l.Resource, &l.ClinicID, &l.Action,
		&l.IPAddress, &l.UserAgent, &l.Path, &l.Method, &l.RequestID, &l.StatusCode,
		&l.CreatedAt)
	return &l, err
}

func (r *repoPG) Create(ctx context.Context, l *Log) error {
	l.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (id, user_id, role, resource, clinic_id, action,
			ip_address, user_agent, path, method, request_id, status_code)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		l.ID, l.UserID, l.Role, l.Resource, l.ClinicID, l.Action,
		l.IPAddress, l.UserAgent, l.Path, l.Method, l.RequestID, l.StatusCode)
	return err
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Log, int, error) {
	where := `WHERE 1=1`
	var args []interface{}
	add := func(clause, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where += fmt.Sprintf(` AND %s = $%d`, clause, len(args))
	}
	add("user_id", filter.UserID)
	add("resource", filter.Resource)
	add("action", filter.Action)
	add("clinic_id", filter.ClinicID)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT `+logCols+` FROM audit_logs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}
