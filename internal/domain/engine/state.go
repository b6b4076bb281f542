package engine

import (
	"sort"
	"time"

	"github.com/pedscds/pedscds/internal/domain/assessment"
)

// Activation is one tracked instance of a triggered engine. The cursor
// never exceeds len(actions)-1 and the completed set stays a subset of the
// definition's action ids. An activation is complete once every action id
// is in the completed set, at which point it leaves the active collection.
type Activation struct {
	EngineID           string               `json:"engine_id"`
	TriggeredAt        time.Time            `json:"triggered_at"`
	TriggeringSnapshot *assessment.Snapshot `json:"triggering_snapshot,omitempty"`
	CompletedActionIDs []string             `json:"completed_action_ids"`
	Cursor             int                  `json:"cursor"`
}

// Definition returns the catalog entry backing this activation.
func (a Activation) Definition() *Definition {
	return Lookup(a.EngineID)
}

func (a Activation) completed(actionID string) bool {
	for _, id := range a.CompletedActionIDs {
		if id == actionID {
			return true
		}
	}
	return false
}

// Complete reports whether every catalog action for this engine has been
// completed.
func (a Activation) Complete() bool {
	def := a.Definition()
	if def == nil {
		return false
	}
	return len(a.CompletedActionIDs) == len(def.Actions)
}

// State is the full engine-manager state for one clinical session. It is a
// plain value: every transition returns a new State and never mutates its
// receiver, so the state can be persisted and replayed without hidden
// mutation.
type State struct {
	Active    []Activation          `json:"active"`
	Completed []Activation          `json:"completed"`
	History   []assessment.Snapshot `json:"history"`
}

// NewState returns an empty engine-manager state.
func NewState() State {
	return State{}
}

func (s State) clone() State {
	out := State{
		Active:    make([]Activation, len(s.Active)),
		Completed: make([]Activation, len(s.Completed)),
		History:   make([]assessment.Snapshot, len(s.History)),
	}
	copy(out.Active, s.Active)
	copy(out.Completed, s.Completed)
	copy(out.History, s.History)
	return out
}

func (s State) activeIndex(engineID string) int {
	for i := range s.Active {
		if s.Active[i].EngineID == engineID {
			return i
		}
	}
	return -1
}

func (s State) completedIndex(engineID string) int {
	for i := range s.Completed {
		if s.Completed[i].EngineID == engineID {
			return i
		}
	}
	return -1
}

// ActiveActivation returns the active activation for the engine, or nil.
func (s State) ActiveActivation(engineID string) *Activation {
	if i := s.activeIndex(engineID); i >= 0 {
		a := s.Active[i]
		return &a
	}
	return nil
}

// Evaluate runs every catalog trigger against the snapshot and activates
// each satisfied engine that is not already active. Triggering is
// idempotent by engine id: a satisfied trigger for an already-active
// engine changes nothing. An assessment that no longer satisfies an active
// engine's trigger does not deactivate it; resolving a condition is a
// clinician decision made through Deactivate, never inferred here.
func Evaluate(s State, snap assessment.Snapshot, now time.Time) State {
	out := s.clone()
	for i := range catalog {
		def := &catalog[i]
		if !def.Trigger(&snap) {
			continue
		}
		if out.activeIndex(def.ID) >= 0 {
			continue
		}
		trig := snap
		out.Active = append(out.Active, Activation{
			EngineID:           def.ID,
			TriggeredAt:        now,
			TriggeringSnapshot: &trig,
			CompletedActionIDs: []string{},
			Cursor:             0,
		})
	}
	out.History = append(out.History, snap)
	return out
}

// CompleteAction marks an action done on an active engine. The add is
// idempotent; action ids outside the engine's definition are ignored. When
// the completed set covers every action, the activation moves to the
// completed collection and becomes immutable.
func CompleteAction(s State, engineID, actionID string) State {
	idx := s.activeIndex(engineID)
	if idx < 0 {
		return s
	}
	def := Lookup(engineID)
	if def == nil {
		return s
	}
	valid := false
	for _, act := range def.Actions {
		if act.ID == actionID {
			valid = true
			break
		}
	}
	if !valid {
		return s
	}

	out := s.clone()
	a := out.Active[idx]
	if !a.completed(actionID) {
		ids := make([]string, len(a.CompletedActionIDs), len(a.CompletedActionIDs)+1)
		copy(ids, a.CompletedActionIDs)
		a.CompletedActionIDs = append(ids, actionID)
	}
	if last := len(def.Actions) - 1; a.Cursor < last {
		a.Cursor++
	}

	if len(a.CompletedActionIDs) == len(def.Actions) {
		out.Active = append(out.Active[:idx], out.Active[idx+1:]...)
		out.Completed = append(out.Completed, a)
		return out
	}
	out.Active[idx] = a
	return out
}

// Deactivate moves an active engine to the completed collection with its
// progress preserved. It models a clinician declaring the condition
// resolved or not applicable.
func Deactivate(s State, engineID string) State {
	idx := s.activeIndex(engineID)
	if idx < 0 {
		return s
	}
	out := s.clone()
	a := out.Active[idx]
	out.Active = append(out.Active[:idx], out.Active[idx+1:]...)
	out.Completed = append(out.Completed, a)
	return out
}

// Reactivate starts a fresh course of care for a previously completed or
// deactivated engine: progress is reset, the cursor returns to zero and
// the trigger timestamp is new. It never resumes prior progress.
func Reactivate(s State, engineID string, snap assessment.Snapshot, now time.Time) State {
	idx := s.completedIndex(engineID)
	if idx < 0 || s.activeIndex(engineID) >= 0 {
		return s
	}
	out := s.clone()
	out.Completed = append(out.Completed[:idx], out.Completed[idx+1:]...)
	trig := snap
	out.Active = append(out.Active, Activation{
		EngineID:           engineID,
		TriggeredAt:        now,
		TriggeringSnapshot: &trig,
		CompletedActionIDs: []string{},
		Cursor:             0,
	})
	return out
}

// PriorityQueue returns the active activations in display order: all
// critical engines before all urgent ones, ties broken by ascending
// trigger time. The sort is stable and governs presentation only.
func PriorityQueue(s State) []Activation {
	out := make([]Activation, len(s.Active))
	copy(out, s.Active)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Definition(), out[j].Definition()
		si, sj := SeverityUrgent, SeverityUrgent
		if di != nil {
			si = di.Severity
		}
		if dj != nil {
			sj = dj.Severity
		}
		if si != sj {
			return si == SeverityCritical
		}
		return out[i].TriggeredAt.Before(out[j].TriggeredAt)
	})
	return out
}
