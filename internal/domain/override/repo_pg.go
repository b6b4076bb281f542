package override

import (
	"context"
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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const recordCols = `id, session_id, clinician_id, clinician_role, engine_id, action_id,
	recommended_action, actual_action, reason, justification, severity, outcome, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.SessionID, &rec.ClinicianID, &rec.ClinicianRole,
		&rec.EngineID, &rec.ActionID, &rec.RecommendedAction, &rec.ActualAction,
		&rec.Reason, &rec.Justification, &rec.Severity, &rec.Outcome, &rec.CreatedAt)
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO override_record (id, session_id, clinician_id, clinician_role,
			engine_id, action_id, recommended_action, actual_action,
			reason, justification, severity, outcome)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.SessionID, rec.ClinicianID, rec.ClinicianRole,
		rec.EngineID, rec.ActionID, rec.RecommendedAction, rec.ActualAction,
		rec.Reason, rec.Justification, rec.Severity, rec.Outcome)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM override_record WHERE id = $1`, id))
}

// RecordOutcome is the only permitted mutation of an audit entry: the
// late-arriving clinical outcome. Everything else is append-only.
func (r *repoPG) RecordOutcome(ctx context.Context, id uuid.UUID, outcome string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE override_record SET outcome = $2 WHERE id = $1`, id, outcome)
	return err
}

func (r *repoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM override_record `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM override_record %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		recordCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	return r.list(ctx, ``, nil, limit, offset)
}

func (r *repoPG) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return r.list(ctx, `WHERE session_id = $1`, []interface{}{sessionID}, limit, offset)
}

func (r *repoPG) ListByClinician(ctx context.Context, clinicianID string, limit, offset int) ([]*Record, int, error) {
	return r.list(ctx, `WHERE clinician_id = $1`, []interface{}{clinicianID}, limit, offset)
}

func (r *repoPG) All(ctx context.Context) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` FROM override_record ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}
