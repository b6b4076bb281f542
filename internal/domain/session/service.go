package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pedscds/pedscds/internal/domain/assessment"
	"github.com/pedscds/pedscds/internal/domain/engine"
	"github.com/pedscds/pedscds/internal/domain/reassessment"
	"github.com/pedscds/pedscds/internal/domain/safety"
	"github.com/pedscds/pedscds/internal/platform/metrics"
)

var validPhases = map[string]bool{
	engine.PhaseAirway:      true,
	engine.PhaseBreathing:   true,
	engine.PhaseCirculation: true,
	engine.PhaseDisability:  true,
	engine.PhaseExposure:    true,
}

// Service drives clinical sessions: each mutating operation loads the
// session, applies a pure engine-state transition and saves the result.
// All evaluation is synchronous; the session's state is owned exclusively
// by its encounter and needs no locking at this layer.
type Service struct {
	repo Repository
	mtx  *metrics.Metrics
	now  func() time.Time
}

func NewService(repo Repository, mtx *metrics.Metrics) *Service {
	return &Service{repo: repo, mtx: mtx, now: time.Now}
}

// CreateRequest opens a new clinical session.
type CreateRequest struct {
	PatientLabel string             `json:"patient_label"`
	Profile      assessment.Profile `json:"profile"`
}

// Create opens an empty session in the airway phase.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Session, error) {
	if req.Profile.WeightKg <= 0 {
		return nil, fmt.Errorf("profile.weight_kg must be positive")
	}
	if req.Profile.AgeYears < 0 || req.Profile.AgeMonths < 0 {
		return nil, fmt.Errorf("profile age must not be negative")
	}
	sess := &Session{
		PatientLabel:  req.PatientLabel,
		Profile:       req.Profile,
		CurrentPhase:  engine.PhaseAirway,
		Interventions: map[string]int{},
		State:         engine.NewState(),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session with its reconstructed engine state.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of sessions, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// EvaluationResult reports what an assessment changed.
type EvaluationResult struct {
	Session     *Session                `json:"session"`
	NewlyActive []engine.ActivationView `json:"newly_active"`
	Queue       []engine.ActivationView `json:"queue"`
}

// SubmitAssessment records a snapshot and runs every catalog trigger
// against it. Engines whose triggers are no longer satisfied stay active;
// only an explicit DeactivateEngine resolves them.
func (s *Service) SubmitAssessment(ctx context.Context, id uuid.UUID, snap assessment.Snapshot) (*EvaluationResult, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	snap.ID = uuid.New()
	if snap.RecordedAt.IsZero() {
		snap.RecordedAt = s.now()
	}
	snap.Profile = sess.Profile

	before := make(map[string]bool, len(sess.State.Active))
	for _, a := range sess.State.Active {
		before[a.EngineID] = true
	}

	sess.State = engine.Evaluate(sess.State, snap, s.now())

	var newly []engine.Activation
	for _, a := range sess.State.Active {
		if !before[a.EngineID] {
			newly = append(newly, a)
			s.mtx.EngineTriggered(a.EngineID)
		}
	}

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &EvaluationResult{
		Session:     sess,
		NewlyActive: engine.Views(newly),
		Queue:       engine.Views(engine.PriorityQueue(sess.State)),
	}, nil
}

// CompleteAction marks one action done and counts it as an intervention
// for the action's phase.
func (s *Service) CompleteAction(ctx context.Context, id uuid.UUID, engineID, actionID string) (*Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.State.ActiveActivation(engineID) == nil {
		return nil, fmt.Errorf("engine %s is not active in this session", engineID)
	}

	sess.State = engine.CompleteAction(sess.State, engineID, actionID)

	if def := engine.Lookup(engineID); def != nil {
		for _, act := range def.Actions {
			if act.ID == actionID {
				if sess.Interventions == nil {
					sess.Interventions = map[string]int{}
				}
				sess.Interventions[act.Phase]++
				break
			}
		}
	}

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// DeactivateEngine records the clinician's decision that a condition is
// resolved or not applicable.
func (s *Service) DeactivateEngine(ctx context.Context, id uuid.UUID, engineID string) (*Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.State.ActiveActivation(engineID) == nil {
		return nil, fmt.Errorf("engine %s is not active in this session", engineID)
	}
	sess.State = engine.Deactivate(sess.State, engineID)
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ReactivateEngine starts a fresh course of care for a previously
// completed or deactivated engine, keyed on the latest assessment.
func (s *Service) ReactivateEngine(ctx context.Context, id uuid.UUID, engineID string) (*Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	latest := sess.LatestSnapshot()
	if latest == nil {
		return nil, fmt.Errorf("cannot reactivate before any assessment")
	}
	next := engine.Reactivate(sess.State, engineID, *latest, s.now())
	if next.ActiveActivation(engineID) == nil {
		return nil, fmt.Errorf("engine %s has no completed activation to reactivate", engineID)
	}
	sess.State = next
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Queue returns the active engines in display priority order.
func (s *Service) Queue(ctx context.Context, id uuid.UUID) ([]engine.ActivationView, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return engine.Views(engine.PriorityQueue(sess.State)), nil
}

// PhaseResult reports a phase-advance request's outcome. A blocked
// transition is not an error: the blocking rule comes back for the caller
// to surface, and the phase does not change.
type PhaseResult struct {
	Allowed      bool         `json:"allowed"`
	CurrentPhase string       `json:"current_phase"`
	Violation    *safety.Rule `json:"violation,omitempty"`
}

// AdvancePhase attempts to move the session into nextPhase, gated by the
// safety rule table against the latest assessment.
func (s *Service) AdvancePhase(ctx context.Context, id uuid.UUID, nextPhase string) (*PhaseResult, error) {
	if !validPhases[nextPhase] {
		return nil, fmt.Errorf("invalid phase: %s", nextPhase)
	}
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rule := safety.CheckViolation(sess.CurrentPhase, nextPhase, sess.LatestSnapshot()); rule != nil {
		s.mtx.SafetyBlocked(rule.ID)
		return &PhaseResult{Allowed: false, CurrentPhase: sess.CurrentPhase, Violation: rule}, nil
	}

	sess.CurrentPhase = nextPhase
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &PhaseResult{Allowed: true, CurrentPhase: sess.CurrentPhase}, nil
}

// Reassess routes a qualitative reassessment response for the current
// phase using the session's intervention count for that phase.
func (s *Service) Reassess(ctx context.Context, id uuid.UUID, response string) (*reassessment.Directive, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count := sess.Interventions[sess.CurrentPhase]
	if count < 1 {
		count = 1
	}
	d := reassessment.Route(response, sess.CurrentPhase, count)
	return &d, nil
}
