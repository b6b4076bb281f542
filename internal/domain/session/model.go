package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedscds/pedscds/internal/domain/assessment"
	"github.com/pedscds/pedscds/internal/domain/engine"
)

// Session is one clinical encounter: the owner of an engine-manager state,
// the patient's demographics and the assessment phase cursor. All engine
// state transitions for the encounter flow through this aggregate; the
// session is created empty and discarded when abandoned, with no external
// resources to release.
type Session struct {
	ID           uuid.UUID          `db:"id" json:"id"`
	PatientLabel string             `db:"patient_label" json:"patient_label"`
	Profile      assessment.Profile `json:"profile"`
	CurrentPhase string             `db:"current_phase" json:"current_phase"`
	// Interventions counts completed actions per phase; the reassessment
	// router reads it as the intervention count for the current phase.
	Interventions map[string]int `db:"interventions" json:"interventions"`
	State         engine.State   `json:"state"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// LatestSnapshot returns the most recent assessment in the session's
// history, or nil before any assessment.
func (s *Session) LatestSnapshot() *assessment.Snapshot {
	if len(s.State.History) == 0 {
		return nil
	}
	snap := s.State.History[len(s.State.History)-1]
	return &snap
}

// StoredActivation is the persisted shape of one activation: the tuple
// sufficient to reconstruct it against the static catalog. The cursor is
// derived from the completed count on load.
type StoredActivation struct {
	EngineID           string    `db:"engine_id" json:"engine_id"`
	TriggeredAt        time.Time `db:"triggered_at" json:"triggered_at"`
	CompletedActionIDs []string  `db:"completed_action_ids" json:"completed_action_ids"`
	Active             bool      `db:"active" json:"active"`
}

// StoreActivations flattens a state's activations for persistence.
func StoreActivations(st engine.State) []StoredActivation {
	out := make([]StoredActivation, 0, len(st.Active)+len(st.Completed))
	for _, a := range st.Active {
		out = append(out, StoredActivation{
			EngineID:           a.EngineID,
			TriggeredAt:        a.TriggeredAt,
			CompletedActionIDs: a.CompletedActionIDs,
			Active:             true,
		})
	}
	for _, a := range st.Completed {
		out = append(out, StoredActivation{
			EngineID:           a.EngineID,
			TriggeredAt:        a.TriggeredAt,
			CompletedActionIDs: a.CompletedActionIDs,
			Active:             false,
		})
	}
	return out
}

// RestoreState reconstructs an engine-manager state from stored tuples and
// history. Stored ids no longer present in the catalog are dropped.
func RestoreState(stored []StoredActivation, history []assessment.Snapshot) engine.State {
	st := engine.NewState()
	for _, sa := range stored {
		def := engine.Lookup(sa.EngineID)
		if def == nil {
			continue
		}
		cursor := len(sa.CompletedActionIDs)
		if last := len(def.Actions) - 1; cursor > last {
			cursor = last
		}
		ids := sa.CompletedActionIDs
		if ids == nil {
			ids = []string{}
		}
		a := engine.Activation{
			EngineID:           sa.EngineID,
			TriggeredAt:        sa.TriggeredAt,
			CompletedActionIDs: ids,
			Cursor:             cursor,
		}
		if sa.Active {
			st.Active = append(st.Active, a)
		} else {
			st.Completed = append(st.Completed, a)
		}
	}
	st.History = append(st.History, history...)
	return st
}
