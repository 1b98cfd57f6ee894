package gateway

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUndefinedColumn is the SQLSTATE postgres reports for a missing column.
const pgUndefinedColumn = "42703"

type pgClient struct {
	pool *pgxpool.Pool
}

// NewPG returns a Client backed by a pgx connection pool. Row identity is the
// "id" column on every table.
func NewPG(pool *pgxpool.Pool) Client {
	return &pgClient{pool: pool}
}

func (g *pgClient) wrap(table string, err error) error {
	if err == nil {
		return nil
	}
	code := CodeGeneric
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedColumn {
		code = CodeUndefinedColumn
	}
	if errors.Is(err, pgx.ErrNoRows) {
		code = CodeNotFound
	}
	return &Error{Code: code, Table: table, Message: err.Error(), Err: err}
}

// sortedKeys returns map keys in a stable order so generated SQL and its
// argument list line up.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildSelect(table string, filter Filter, orderBy string, limit int) (string, []interface{}) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT * FROM %s`, table)

	var args []interface{}
	if len(filter) > 0 {
		clauses := make([]string, 0, len(filter))
		for _, k := range sortedKeys(filter) {
			args = append(args, filter[k])
			clauses = append(clauses, fmt.Sprintf("%s = $%d", k, len(args)))
		}
		sb.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	if orderBy != "" {
		sb.WriteString(" ORDER BY " + orderBy)
	}
	if limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", limit)
	}
	return sb.String(), args
}

func buildInsert(table string, row Row) (string, []interface{}) {
	keys := sortedKeys(row)
	cols := make([]string, len(keys))
	params := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		cols[i] = k
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[k]
	}
	sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING *`,
		table, strings.Join(cols, ", "), strings.Join(params, ", "))
	return sql, args
}

func buildUpdate(table string, patch Row, matchID interface{}) (string, []interface{}) {
	keys := sortedKeys(patch)
	sets := make([]string, len(keys))
	args := make([]interface{}, 0, len(keys)+1)
	for i, k := range keys {
		args = append(args, patch[k])
		sets[i] = fmt.Sprintf("%s = $%d", k, len(args))
	}
	args = append(args, matchID)
	sql := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		table, strings.Join(sets, ", "), len(args))
	return sql, args
}

func buildUpsert(table string, row Row, conflictKeys []string) (string, []interface{}) {
	keys := sortedKeys(row)
	cols := make([]string, len(keys))
	params := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	conflict := make(map[string]bool, len(conflictKeys))
	for _, k := range conflictKeys {
		conflict[k] = true
	}
	var sets []string
	for i, k := range keys {
		cols[i] = k
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[k]
		if !conflict[k] {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", k, k))
		}
	}
	sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s`,
		table, strings.Join(cols, ", "), strings.Join(params, ", "),
		strings.Join(conflictKeys, ", "), strings.Join(sets, ", "))
	return sql, args
}

func rowsToMaps(rows pgx.Rows) ([]Row, error) {
	defer rows.Close()
	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (g *pgClient) Select(ctx context.Context, table string, filter Filter, orderBy string, limit int) ([]Row, error) {
	sql, args := buildSelect(table, filter, orderBy, limit)
	rows, err := g.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, g.wrap(table, err)
	}
	out, err := rowsToMaps(rows)
	if err != nil {
		return nil, g.wrap(table, err)
	}
	return out, nil
}

func (g *pgClient) Insert(ctx context.Context, table string, rows []Row) ([]Row, error) {
	inserted := make([]Row, 0, len(rows))
	for _, row := range rows {
		sql, args := buildInsert(table, row)
		res, err := g.pool.Query(ctx, sql, args...)
		if err != nil {
			return inserted, g.wrap(table, err)
		}
		stored, err := rowsToMaps(res)
		if err != nil {
			return inserted, g.wrap(table, err)
		}
		inserted = append(inserted, stored...)
	}
	return inserted, nil
}

func (g *pgClient) Update(ctx context.Context, table string, patch Row, matchID interface{}) error {
	if len(patch) == 0 {
		return nil
	}
	sql, args := buildUpdate(table, patch, matchID)
	tag, err := g.pool.Exec(ctx, sql, args...)
	if err != nil {
		return g.wrap(table, err)
	}
	if tag.RowsAffected() == 0 {
		return &Error{Code: CodeNotFound, Table: table, Message: fmt.Sprintf("no row with id %v", matchID)}
	}
	return nil
}

func (g *pgClient) Delete(ctx context.Context, table string, matchIDs []interface{}) error {
	if len(matchIDs) == 0 {
		return nil
	}
	_, err := g.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, table), matchIDs)
	return g.wrap(table, err)
}

func (g *pgClient) Upsert(ctx context.Context, table string, row Row, conflictKeys []string) error {
	sql, args := buildUpsert(table, row, conflictKeys)
	_, err := g.pool.Exec(ctx, sql, args...)
	return g.wrap(table, err)
}
