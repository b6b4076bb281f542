package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedscds/pedscds/internal/domain/assessment"
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

const sessionCols = `id, patient_label, weight_kg, age_years, age_months,
	current_phase, interventions, created_at, updated_at`

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	var interventionsJSON []byte
	err := row.Scan(&s.ID, &s.PatientLabel, &s.Profile.WeightKg, &s.Profile.AgeYears,
		&s.Profile.AgeMonths, &s.CurrentPhase, &interventionsJSON, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Interventions = map[string]int{}
	if len(interventionsJSON) > 0 {
		if err := json.Unmarshal(interventionsJSON, &s.Interventions); err != nil {
			return nil, fmt.Errorf("decode interventions: %w", err)
		}
	}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *Session) error {
	s.ID = uuid.New()
	interventionsJSON, err := json.Marshal(s.Interventions)
	if err != nil {
		return fmt.Errorf("encode interventions: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO clinical_session (id, patient_label, weight_kg, age_years, age_months,
			current_phase, interventions)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.PatientLabel, s.Profile.WeightKg, s.Profile.AgeYears, s.Profile.AgeMonths,
		s.CurrentPhase, interventionsJSON)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	s, err := scanSession(r.conn(ctx).QueryRow(ctx,
		`SELECT `+sessionCols+` FROM clinical_session WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	stored, err := r.loadActivations(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := r.loadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	s.State = RestoreState(stored, history)
	return s, nil
}

func (r *repoPG) loadActivations(ctx context.Context, sessionID uuid.UUID) ([]StoredActivation, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT engine_id, triggered_at, completed_action_ids, active
		FROM session_activation WHERE session_id = $1 ORDER BY triggered_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StoredActivation
	for rows.Next() {
		var sa StoredActivation
		if err := rows.Scan(&sa.EngineID, &sa.TriggeredAt, &sa.CompletedActionIDs, &sa.Active); err != nil {
			return nil, err
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

func (r *repoPG) loadHistory(ctx context.Context, sessionID uuid.UUID) ([]assessment.Snapshot, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT payload FROM session_snapshot
		WHERE session_id = $1 ORDER BY recorded_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []assessment.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var snap assessment.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Save rewrites the session row and its activation tuples in one
// transaction; the delete-and-reinsert of activations must not survive a
// partial failure.
func (r *repoPG) Save(ctx context.Context, s *Session) error {
	if db.TxFromContext(ctx) != nil {
		return r.save(ctx, s)
	}
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		return r.save(ctx, s)
	})
}

func (r *repoPG) save(ctx context.Context, s *Session) error {
	interventionsJSON, err := json.Marshal(s.Interventions)
	if err != nil {
		return fmt.Errorf("encode interventions: %w", err)
	}
	if _, err := r.conn(ctx).Exec(ctx, `
		UPDATE clinical_session
		SET patient_label=$2, weight_kg=$3, age_years=$4, age_months=$5,
			current_phase=$6, interventions=$7, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.PatientLabel, s.Profile.WeightKg, s.Profile.AgeYears, s.Profile.AgeMonths,
		s.CurrentPhase, interventionsJSON); err != nil {
		return err
	}

	if _, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM session_activation WHERE session_id = $1`, s.ID); err != nil {
		return err
	}
	for _, sa := range StoreActivations(s.State) {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO session_activation (id, session_id, engine_id, triggered_at, completed_action_ids, active)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.New(), s.ID, sa.EngineID, sa.TriggeredAt, sa.CompletedActionIDs, sa.Active); err != nil {
			return err
		}
	}

	for _, snap := range s.State.History {
		payload, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO session_snapshot (id, session_id, recorded_at, payload)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO NOTHING`,
			snap.ID, s.ID, snap.RecordedAt, payload); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM clinical_session`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+sessionCols+` FROM clinical_session ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}
