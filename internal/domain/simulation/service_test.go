package simulation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockAttemptRepo struct {
	attempts map[uuid.UUID]*Attempt
	order    []uuid.UUID
}

func newMockAttemptRepo() *mockAttemptRepo {
	return &mockAttemptRepo{attempts: make(map[uuid.UUID]*Attempt)}
}

func (m *mockAttemptRepo) Create(_ context.Context, a *Attempt) error {
	a.ID = uuid.New()
	m.attempts[a.ID] = a
	m.order = append(m.order, a.ID)
	return nil
}

func (m *mockAttemptRepo) GetByID(_ context.Context, id uuid.UUID) (*Attempt, error) {
	a, ok := m.attempts[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockAttemptRepo) all() []*Attempt {
	out := make([]*Attempt, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.attempts[id])
	}
	return out
}

func (m *mockAttemptRepo) List(_ context.Context, limit, offset int) ([]*Attempt, int, error) {
	all := m.all()
	return all, len(all), nil
}

func (m *mockAttemptRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*Attempt, int, error) {
	var out []*Attempt
	for _, a := range m.all() {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (m *mockAttemptRepo) ListByCase(_ context.Context, caseID string, limit, offset int) ([]*Attempt, int, error) {
	var out []*Attempt
	for _, a := range m.all() {
		if a.CaseID == caseID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func TestService_Cases(t *testing.T) {
	svc := NewService(newMockAttemptRepo(), nil)

	cases := svc.Cases(context.Background())
	if len(cases) == 0 {
		t.Fatal("expected a non-empty case library")
	}

	c, err := svc.GetCase(context.Background(), "anaphylaxis_intermediate")
	if err != nil || c.Title == "" {
		t.Errorf("GetCase: %+v, %v", c, err)
	}

	if _, err := svc.GetCase(context.Background(), "no-such-case"); err == nil {
		t.Error("unknown case id must error")
	}
}

func TestService_ScoreRun(t *testing.T) {
	repo := newMockAttemptRepo()
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return simStart.Add(10 * time.Minute) }

	c := LookupCase("cardiac_arrest_beginner")
	attempt, err := svc.ScoreRun(context.Background(), ScoreRequest{
		CaseID:    c.ID,
		UserID:    "trainee-7",
		StartedAt: simStart,
		Performed: performAll(c, 5*time.Second),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempt.ID == uuid.Nil {
		t.Error("attempt must be persisted with an id")
	}
	if attempt.Score != 100 || !attempt.Passed {
		t.Errorf("score = %v passed = %v, want 100/true", attempt.Score, attempt.Passed)
	}
	if !attempt.CompletedAt.Equal(simStart.Add(10 * time.Minute)) {
		t.Errorf("CompletedAt = %v", attempt.CompletedAt)
	}
	if attempt.Result.CaseID != c.ID {
		t.Errorf("stored result case = %s", attempt.Result.CaseID)
	}
	if len(repo.attempts) != 1 {
		t.Errorf("repository holds %d attempts, want 1", len(repo.attempts))
	}
}

func TestService_ScoreRun_Validation(t *testing.T) {
	svc := NewService(newMockAttemptRepo(), nil)
	ctx := context.Background()

	base := ScoreRequest{
		CaseID:    "cardiac_arrest_beginner",
		UserID:    "trainee-7",
		StartedAt: simStart,
	}

	for name, mutate := range map[string]func(*ScoreRequest){
		"missing case":    func(r *ScoreRequest) { r.CaseID = "" },
		"missing user":    func(r *ScoreRequest) { r.UserID = "" },
		"missing start":   func(r *ScoreRequest) { r.StartedAt = time.Time{} },
		"unknown case id": func(r *ScoreRequest) { r.CaseID = "bogus" },
	} {
		req := base
		mutate(&req)
		if _, err := svc.ScoreRun(ctx, req); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestService_Attempts(t *testing.T) {
	repo := newMockAttemptRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	c := LookupCase("cardiac_arrest_beginner")
	first, err := svc.ScoreRun(ctx, ScoreRequest{
		CaseID: c.ID, UserID: "trainee-7", StartedAt: simStart,
		Performed: performAll(c, 5*time.Second),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ScoreRun(ctx, ScoreRequest{
		CaseID: c.ID, UserID: "trainee-9", StartedAt: simStart,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetAttempt(ctx, first.ID)
	if err != nil || got.UserID != "trainee-7" {
		t.Errorf("GetAttempt: %+v, %v", got, err)
	}

	byUser, total, err := svc.ListAttemptsByUser(ctx, "trainee-9", 20, 0)
	if err != nil || total != 1 || byUser[0].Passed {
		t.Errorf("ListAttemptsByUser: total %d err %v", total, err)
	}

	byCase, total, err := svc.ListAttemptsByCase(ctx, c.ID, 20, 0)
	if err != nil || total != 2 {
		t.Errorf("ListAttemptsByCase: %d, %v", len(byCase), err)
	}
}
