package override

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	records map[uuid.UUID]*Record
	order   []uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*Record)}
}

func (m *mockRepo) Create(_ context.Context, r *Record) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	m.records[r.ID] = r
	m.order = append(m.order, r.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func (m *mockRepo) RecordOutcome(_ context.Context, id uuid.UUID, outcome string) error {
	r, ok := m.records[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	r.Outcome = &outcome
	return nil
}

func (m *mockRepo) all() []*Record {
	out := make([]*Record, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id])
	}
	return out
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Record, int, error) {
	all := m.all()
	return all, len(all), nil
}

func (m *mockRepo) ListBySession(_ context.Context, sessionID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var out []*Record
	for _, r := range m.all() {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByClinician(_ context.Context, clinicianID string, limit, offset int) ([]*Record, int, error) {
	var out []*Record
	for _, r := range m.all() {
		if r.ClinicianID == clinicianID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) All(_ context.Context) ([]*Record, error) {
	return m.all(), nil
}

func submitReq() SubmitRequest {
	return SubmitRequest{
		SessionID:         uuid.New(),
		ClinicianID:       "dr-lang",
		ClinicianRole:     RoleConsultant,
		EngineID:          "septic-shock",
		ActionID:          "ss-antibiotics",
		RecommendedAction: "Give ceftriaxone 50 mg/kg IV",
		ActualAction:      "Give meropenem 20 mg/kg IV",
		Reason:            ReasonAllergyContraind,
		Justification:     "Documented ceftriaxone allergy with prior anaphylaxis; substituting carbapenem per allergy pathway.",
	}
}

func TestService_Submit(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	res, err := svc.Submit(context.Background(), submitReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Severity != SeverityCritical {
		t.Errorf("severity = %s, want critical", res.Severity)
	}
	if res.NeedsApproval {
		t.Error("consultant must not need approval at critical severity")
	}
	if res.Record == nil || res.Record.ID == uuid.Nil {
		t.Fatal("expected a stored record")
	}
	if len(res.Violations) != 0 {
		t.Errorf("unexpected violations: %v", res.Violations)
	}
}

func TestService_Submit_PermissionDenied(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	req := submitReq()
	req.ClinicianRole = RoleNurse
	if _, err := svc.Submit(context.Background(), req); err == nil {
		t.Fatal("nurse overriding a critical action must be rejected")
	}
}

func TestService_Submit_SeniorDoctorNeedsApproval(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	req := submitReq()
	req.ClinicianRole = RoleSeniorDoctor
	res, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NeedsApproval {
		t.Error("senior doctor at critical severity must need approval")
	}
	if res.Record == nil {
		t.Error("approval requirement must not block recording")
	}
}

func TestService_Submit_ViolationsBlockRecording(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	req := submitReq()
	req.Justification = "short note"
	res, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("validation failures are not errors: %v", err)
	}
	if len(res.Violations) == 0 {
		t.Fatal("expected violations for a short critical justification")
	}
	if res.Record != nil {
		t.Error("violating submissions must not be recorded")
	}
	if len(repo.records) != 0 {
		t.Error("repository must stay empty after a blocked submission")
	}
}

func TestService_Submit_RequiredFields(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	for _, mutate := range []func(*SubmitRequest){
		func(r *SubmitRequest) { r.ClinicianID = "" },
		func(r *SubmitRequest) { r.EngineID = "" },
		func(r *SubmitRequest) { r.ActionID = "" },
	} {
		req := submitReq()
		mutate(&req)
		if _, err := svc.Submit(context.Background(), req); err == nil {
			t.Errorf("expected error for missing field in %+v", req)
		}
	}
}

func TestService_RecordOutcome(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	res, err := svc.Submit(context.Background(), submitReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RecordOutcome(context.Background(), res.Record.ID, OutcomeImproved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.records[res.Record.ID]
	if stored.Outcome == nil || *stored.Outcome != OutcomeImproved {
		t.Errorf("outcome not recorded: %+v", stored.Outcome)
	}

	if err := svc.RecordOutcome(context.Background(), res.Record.ID, "cured"); err == nil {
		t.Error("invalid outcome value must be rejected")
	}
	if err := svc.RecordOutcome(context.Background(), uuid.New(), OutcomeStable); err == nil {
		t.Error("unknown record id must error")
	}
}

func TestService_Quality(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, submitReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	low := submitReq()
	low.EngineID = "croup-severe"
	low.ActionID = "cr-keep-calm"
	low.Reason = ReasonClinicalJudgment
	low.Justification = "Parent already administering effective home regimen."
	if _, err := svc.Submit(ctx, low); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RecordOutcome(ctx, first.Record.ID, OutcomeImproved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, err := svc.Quality(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.TotalOverrides != 2 {
		t.Errorf("TotalOverrides = %d, want 2", q.TotalOverrides)
	}
	if q.CriticalCount != 1 || q.HighCount != 0 {
		t.Errorf("severity counts = %d critical, %d high", q.CriticalCount, q.HighCount)
	}
	if q.ImprovementRate != 1 {
		t.Errorf("ImprovementRate = %v, want 1", q.ImprovementRate)
	}
	// 100 - 2 (one critical) + 10 (improvement above 70%) clamped to 100.
	if q.QualityScore != 100 {
		t.Errorf("QualityScore = %v, want 100", q.QualityScore)
	}
}

func TestService_ListFilters(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	req := submitReq()
	if _, err := svc.Submit(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := submitReq()
	other.ClinicianID = "dr-osei"
	if _, err := svc.Submit(ctx, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bySession, total, err := svc.ListBySession(ctx, req.SessionID, 20, 0)
	if err != nil || total != 1 || len(bySession) != 1 {
		t.Errorf("ListBySession: %d records, total %d, err %v", len(bySession), total, err)
	}
	byClin, total, err := svc.ListByClinician(ctx, "dr-osei", 20, 0)
	if err != nil || total != 1 || len(byClin) != 1 {
		t.Errorf("ListByClinician: %d records, total %d, err %v", len(byClin), total, err)
	}
}
