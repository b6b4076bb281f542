package simulation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedscds/pedscds/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type attemptRepoPG struct{ pool *pgxpool.Pool }

func NewAttemptRepoPG(pool *pgxpool.Pool) AttemptRepository { return &attemptRepoPG{pool: pool} }

func (r *attemptRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const attemptCols = `id, case_id, user_id, started_at, completed_at, score, passed, result`

func scanAttempt(row pgx.Row) (*Attempt, error) {
	var a Attempt
	var resultJSON []byte
	err := row.Scan(&a.ID, &a.CaseID, &a.UserID, &a.StartedAt, &a.CompletedAt,
		&a.Score, &a.Passed, &resultJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resultJSON, &a.Result); err != nil {
		return nil, fmt.Errorf("decode attempt result: %w", err)
	}
	return &a, nil
}

func (r *attemptRepoPG) Create(ctx context.Context, a *Attempt) error {
	a.ID = uuid.New()
	resultJSON, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("encode attempt result: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO simulation_attempt (id, case_id, user_id, started_at, completed_at, score, passed, result)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.CaseID, a.UserID, a.StartedAt, a.CompletedAt, a.Score, a.Passed, resultJSON)
	return err
}

func (r *attemptRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	return scanAttempt(r.conn(ctx).QueryRow(ctx,
		`SELECT `+attemptCols+` FROM simulation_attempt WHERE id = $1`, id))
}

func (r *attemptRepoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Attempt, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM simulation_attempt `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM simulation_attempt %s ORDER BY completed_at DESC LIMIT $%d OFFSET $%d`,
		attemptCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *attemptRepoPG) List(ctx context.Context, limit, offset int) ([]*Attempt, int, error) {
	return r.list(ctx, ``, nil, limit, offset)
}

func (r *attemptRepoPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Attempt, int, error) {
	return r.list(ctx, `WHERE user_id = $1`, []interface{}{userID}, limit, offset)
}

func (r *attemptRepoPG) ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*Attempt, int, error) {
	return r.list(ctx, `WHERE case_id = $1`, []interface{}{caseID}, limit, offset)
}
