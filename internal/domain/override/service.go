package override

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pedscds/pedscds/internal/platform/metrics"
)

// Service governs override submission and audit aggregation. Validation
// failures come back as a string list, never as an error: the caller
// decides whether they block submission. The error return is reserved for
// permission denial and storage failures.
type Service struct {
	repo Repository
	mtx  *metrics.Metrics
}

func NewService(repo Repository, mtx *metrics.Metrics) *Service {
	return &Service{repo: repo, mtx: mtx}
}

// SubmitRequest carries one override event.
type SubmitRequest struct {
	SessionID         uuid.UUID `json:"session_id"`
	ClinicianID       string    `json:"clinician_id"`
	ClinicianRole     string    `json:"clinician_role"`
	EngineID          string    `json:"engine_id"`
	ActionID          string    `json:"action_id"`
	RecommendedAction string    `json:"recommended_action"`
	ActualAction      string    `json:"actual_action"`
	Reason            string    `json:"reason"`
	Justification     string    `json:"justification"`
}

// SubmitResult reports the stored record plus governance metadata.
type SubmitResult struct {
	Record        *Record  `json:"record,omitempty"`
	Severity      string   `json:"severity"`
	NeedsApproval bool     `json:"needs_approval"`
	Violations    []string `json:"violations,omitempty"`
}

// Submit classifies the override's severity, resolves the clinician's
// permission, validates the justification and records the audit entry.
// Validation violations do not error; they block recording and are
// returned for the caller to surface.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if req.ClinicianID == "" {
		return nil, fmt.Errorf("clinician_id is required")
	}
	if req.EngineID == "" {
		return nil, fmt.Errorf("engine_id is required")
	}
	if req.ActionID == "" {
		return nil, fmt.Errorf("action_id is required")
	}

	severity := ClassifySeverity(req.EngineID, req.ActionID)
	perm := ResolvePermission(req.ClinicianRole)
	if !perm.Allows(severity) {
		return nil, fmt.Errorf("role %q may not override %s severity actions", req.ClinicianRole, severity)
	}

	result := &SubmitResult{
		Severity:      severity,
		NeedsApproval: perm.NeedsApproval(severity),
	}

	if violations := ValidateReason(req.Reason, req.Justification, severity); len(violations) > 0 {
		result.Violations = violations
		return result, nil
	}

	rec := &Record{
		SessionID:         req.SessionID,
		ClinicianID:       req.ClinicianID,
		ClinicianRole:     req.ClinicianRole,
		EngineID:          req.EngineID,
		ActionID:          req.ActionID,
		RecommendedAction: req.RecommendedAction,
		ActualAction:      req.ActualAction,
		Reason:            req.Reason,
		Justification:     req.Justification,
		Severity:          severity,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.mtx.OverrideRecorded(severity)
	result.Record = rec
	return result, nil
}

// RecordOutcome attaches the eventual clinical outcome to an override.
func (s *Service) RecordOutcome(ctx context.Context, id uuid.UUID, outcome string) error {
	switch outcome {
	case OutcomeImproved, OutcomeStable, OutcomeDeteriorated, OutcomeUnknown:
	default:
		return fmt.Errorf("invalid outcome: %s", outcome)
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.RecordOutcome(ctx, id, outcome)
}

// Get returns one audit record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of the audit trail, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListBySession returns a page of overrides for one clinical session.
func (s *Service) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.repo.ListBySession(ctx, sessionID, limit, offset)
}

// ListByClinician returns a page of overrides by one clinician.
func (s *Service) ListByClinician(ctx context.Context, clinicianID string, limit, offset int) ([]*Record, int, error) {
	return s.repo.ListByClinician(ctx, clinicianID, limit, offset)
}

// QualitySummary is the audit-derived governance view.
type QualitySummary struct {
	TotalOverrides  int     `json:"total_overrides"`
	CriticalCount   int     `json:"critical_count"`
	HighCount       int     `json:"high_count"`
	ImprovementRate float64 `json:"improvement_rate"`
	QualityScore    float64 `json:"quality_score"`
}

// Quality computes the aggregate quality score over the full audit trail.
func (s *Service) Quality(ctx context.Context) (*QualitySummary, error) {
	records, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	trail := AuditTrail{Records: records}
	return &QualitySummary{
		TotalOverrides:  len(records),
		CriticalCount:   trail.CountBySeverity(SeverityCritical),
		HighCount:       trail.CountBySeverity(SeverityHigh),
		ImprovementRate: trail.ImprovementRate(),
		QualityScore:    QualityScore(trail),
	}, nil
}
