package simulation

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedscds/pedscds/internal/domain/assessment"
)

// Event types scripted into a case timeline.
const (
	EventVitalsChange = "vitals_change"
	EventComplication = "complication"
	EventPrompt       = "prompt"
	EventResolution   = "resolution"
)

// timeBonusWindow is the elapsed time under which a correct action earns
// its authored time bonus.
const timeBonusWindow = 60 * time.Second

// Event is one scripted timeline entry in a case.
type Event struct {
	OffsetSeconds  int    `json:"offset_seconds"`
	Type           string `json:"type"`
	Description    string `json:"description"`
	ExpectedAction string `json:"expected_action,omitempty"`
	// CriticalWindowSeconds bounds the response time for the expected
	// action; zero means no window.
	CriticalWindowSeconds int `json:"critical_window_seconds,omitempty"`
}

// ScoredAction is one correct action in a case's expected-action key.
type ScoredAction struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	TimeBonus int    `json:"time_bonus,omitempty"`
}

// DistractorAction is an incorrect action carrying a point penalty.
type DistractorAction struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Penalty int    `json:"penalty"` // positive number of points deducted
}

// Case is immutable authored simulation content.
type Case struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Difficulty     string              `json:"difficulty"`
	Profile        assessment.Profile  `json:"profile"`
	InitialVitals  assessment.Snapshot `json:"initial_vitals"`
	Briefing       string              `json:"briefing"`
	Events         []Event             `json:"events"`
	CorrectActions []ScoredAction      `json:"correct_actions"`
	Distractors    []DistractorAction  `json:"distractors"`
	PassingScore   float64             `json:"passing_score"`
}

// MaxScore is the sum of all correct actions' points plus their time
// bonuses. Distractors never raise the ceiling.
func (c *Case) MaxScore() int {
	total := 0
	for _, a := range c.CorrectActions {
		total += a.Points + a.TimeBonus
	}
	return total
}

// PerformedAction is one timestamped action from the player's log.
type PerformedAction struct {
	ActionID  string    `json:"action_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the end-of-session score, computed once from the full action
// log.
type Result struct {
	CaseID              string   `json:"case_id"`
	TotalScore          int      `json:"total_score"`
	MaxScore            int      `json:"max_score"`
	PercentageScore     float64  `json:"percentage_score"`
	Passed              bool     `json:"passed"`
	MissedActions       []string `json:"missed_actions"`
	CriticalErrors      []string `json:"critical_errors"`
	TimeToFirstAction   float64  `json:"time_to_first_action_seconds"`
	AverageResponseTime float64  `json:"average_response_time_seconds"`
	Feedback            []string `json:"feedback"`
}

// Attempt is one stored simulation run.
type Attempt struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CaseID      string    `db:"case_id" json:"case_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	StartedAt   time.Time `db:"started_at" json:"started_at"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
	Score       float64   `db:"score" json:"score"`
	Passed      bool      `db:"passed" json:"passed"`
	Result      Result    `db:"result" json:"result"`
}

// Timer tracks elapsed time for one simulation session. It is owned by the
// session that created it; there is no process-wide timer registry.
type Timer struct {
	startedAt time.Time
	now       func() time.Time
}

// NewTimer starts a session timer. A nil now function uses the wall clock.
func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{startedAt: now(), now: now}
}

// StartedAt returns the timer's start instant.
func (t *Timer) StartedAt() time.Time { return t.startedAt }

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration { return t.now().Sub(t.startedAt) }

// DueEvents returns the case events scheduled at or before the elapsed
// time, in timeline order. The caller drives ticking; the core only reads
// elapsed time.
func DueEvents(c *Case, elapsed time.Duration) []Event {
	var due []Event
	for _, ev := range c.Events {
		if time.Duration(ev.OffsetSeconds)*time.Second <= elapsed {
			due = append(due, ev)
		}
	}
	return due
}
