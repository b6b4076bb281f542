// Package safety implements the hard-stop guardrails that gate phase
// progression. A rule is keyed by the phase being entered; the checker
// surfaces at most one blocking rule per transition request, by table
// order. It is a gate, not a planner.
package safety

import (
	"github.com/pedscds/pedscds/internal/domain/assessment"
	"github.com/pedscds/pedscds/internal/domain/engine"
)

// Rule is one hard-stop safety gate.
type Rule struct {
	ID          string `json:"id"`
	TargetPhase string `json:"target_phase"`
	Condition   string `json:"condition"`
	Message     string `json:"message"`
	Remedial    string `json:"remedial"`

	violated func(*assessment.Snapshot) bool
}

var rules = []Rule{
	{
		ID:          "airway-not-secured",
		TargetPhase: engine.PhaseBreathing,
		Condition:   "Airway is obstructed",
		Message:     "Cannot proceed to breathing assessment with an obstructed airway.",
		Remedial:    "Open the airway: position, suction, airway adjunct or advanced airway.",
		violated: func(s *assessment.Snapshot) bool {
			return s.AirwayIs(assessment.AirwayObstructed)
		},
	},
	{
		ID:          "apnea-unmanaged",
		TargetPhase: engine.PhaseCirculation,
		Condition:   "No respiratory effort",
		Message:     "Cannot proceed to circulation with apnea unmanaged.",
		Remedial:    "Begin bag-mask ventilation with 100% oxygen.",
		violated: func(s *assessment.Snapshot) bool {
			return s.Apneic()
		},
	},
	{
		ID:          "oxygenation-critical",
		TargetPhase: engine.PhaseCirculation,
		Condition:   "SpO2 below 85%",
		Message:     "Cannot proceed to circulation with critical hypoxemia.",
		Remedial:    "Escalate oxygen delivery and support ventilation before moving on.",
		violated: func(s *assessment.Snapshot) bool {
			return s.SpO2Below(85)
		},
	},
	{
		ID:          "no-pulse-detected",
		TargetPhase: engine.PhaseDisability,
		Condition:   "No pulse",
		Message:     "Cannot proceed to disability assessment without a pulse.",
		Remedial:    "Start CPR immediately and follow the cardiac arrest sequence.",
		violated: func(s *assessment.Snapshot) bool {
			return s.Pulseless()
		},
	},
	{
		ID:          "shock-untreated",
		TargetPhase: engine.PhaseExposure,
		Condition:   "Age-adjusted hypotension",
		Message:     "Cannot proceed to exposure with untreated hypotensive shock.",
		Remedial:    "Give a fluid bolus and reassess perfusion before continuing.",
		violated: func(s *assessment.Snapshot) bool {
			return s.Hypotensive()
		},
	},
	{
		ID:          "active-seizure",
		TargetPhase: engine.PhaseExposure,
		Condition:   "Active seizure",
		Message:     "Cannot proceed to exposure during active seizure activity.",
		Remedial:    "Abort the seizure per the status epilepticus sequence first.",
		violated: func(s *assessment.Snapshot) bool {
			return s.SeizureIs(assessment.SeizureActive)
		},
	},
}

// Rules returns the fixed rule table, in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// CheckViolation evaluates the transition from currentPhase into nextPhase
// against the snapshot and returns the first violated rule targeting
// nextPhase, or nil when the transition is safe. currentPhase does not
// influence rule selection; gating keys on the phase being entered.
func CheckViolation(currentPhase, nextPhase string, snap *assessment.Snapshot) *Rule {
	if snap == nil {
		return nil
	}
	for i := range rules {
		if rules[i].TargetPhase != nextPhase {
			continue
		}
		if rules[i].violated(snap) {
			r := rules[i]
			return &r
		}
	}
	return nil
}
