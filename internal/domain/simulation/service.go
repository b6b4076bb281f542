package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pedscds/pedscds/internal/platform/metrics"
)

// Service exposes the case library and scores completed runs. Scoring
// itself is the pure Score reduction; the service adds persistence of
// attempts.
type Service struct {
	attempts AttemptRepository
	mtx      *metrics.Metrics
	now      func() time.Time
}

func NewService(attempts AttemptRepository, mtx *metrics.Metrics) *Service {
	return &Service{attempts: attempts, mtx: mtx, now: time.Now}
}

// Cases lists the authored case library.
func (s *Service) Cases(_ context.Context) []Case {
	return Cases()
}

// GetCase returns one case by id.
func (s *Service) GetCase(_ context.Context, id string) (*Case, error) {
	c := LookupCase(id)
	if c == nil {
		return nil, fmt.Errorf("unknown case: %s", id)
	}
	return c, nil
}

// ScoreRequest carries a completed run's action log.
type ScoreRequest struct {
	CaseID    string            `json:"case_id"`
	UserID    string            `json:"user_id"`
	StartedAt time.Time         `json:"started_at"`
	Performed []PerformedAction `json:"performed"`
}

// ScoreRun scores a completed run and records the attempt.
func (s *Service) ScoreRun(ctx context.Context, req ScoreRequest) (*Attempt, error) {
	if req.CaseID == "" {
		return nil, fmt.Errorf("case_id is required")
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if req.StartedAt.IsZero() {
		return nil, fmt.Errorf("started_at is required")
	}
	c := LookupCase(req.CaseID)
	if c == nil {
		return nil, fmt.Errorf("unknown case: %s", req.CaseID)
	}

	result := Score(c, req.StartedAt, req.Performed)
	attempt := &Attempt{
		CaseID:      c.ID,
		UserID:      req.UserID,
		StartedAt:   req.StartedAt,
		CompletedAt: s.now(),
		Score:       result.PercentageScore,
		Passed:      result.Passed,
		Result:      result,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}
	s.mtx.SimulationScored(c.ID, result.Passed)
	return attempt, nil
}

// GetAttempt returns one stored attempt.
func (s *Service) GetAttempt(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	return s.attempts.GetByID(ctx, id)
}

// ListAttempts returns a page of stored attempts, newest first.
func (s *Service) ListAttempts(ctx context.Context, limit, offset int) ([]*Attempt, int, error) {
	return s.attempts.List(ctx, limit, offset)
}

// ListAttemptsByUser returns a page of one user's attempts.
func (s *Service) ListAttemptsByUser(ctx context.Context, userID string, limit, offset int) ([]*Attempt, int, error) {
	return s.attempts.ListByUser(ctx, userID, limit, offset)
}

// ListAttemptsByCase returns a page of attempts at one case.
func (s *Service) ListAttemptsByCase(ctx context.Context, caseID string, limit, offset int) ([]*Attempt, int, error) {
	return s.attempts.ListByCase(ctx, caseID, limit, offset)
}
