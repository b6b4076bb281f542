package engine

import "fmt"

// Body-system phases, in resuscitation order.
const (
	PhaseAirway      = "airway"
	PhaseBreathing   = "breathing"
	PhaseCirculation = "circulation"
	PhaseDisability  = "disability"
	PhaseExposure    = "exposure"
)

// Severity levels for engines and action urgency.
const (
	SeverityCritical = "critical"
	SeverityUrgent   = "urgent"
)

// Dosing describes a weight-scaled dose: dose = rate x weight, clamped to
// an optional maximum. It is a presentational derivation, not control flow.
type Dosing struct {
	RatePerKg float64 `json:"rate_per_kg"`
	Unit      string  `json:"unit"`
	Route     string  `json:"route"`
	MaxDose   float64 `json:"max_dose,omitempty"` // 0 = no maximum
}

// Compute returns the weight-scaled dose clamped to MaxDose when set.
func (d Dosing) Compute(weightKg float64) float64 {
	dose := d.RatePerKg * weightKg
	if d.MaxDose > 0 && dose > d.MaxDose {
		dose = d.MaxDose
	}
	return dose
}

// Format renders the computed dose with unit and route, e.g.
// "300 mg IV" or "0.15 mg IM".
func (d Dosing) Format(weightKg float64) string {
	return fmt.Sprintf("%g %s %s", d.Compute(weightKg), d.Unit, d.Route)
}

// Action is one ordered step in an engine's care bundle.
type Action struct {
	ID              string   `json:"id"`
	Sequence        int      `json:"sequence"`
	Title           string   `json:"title"`
	Rationale       string   `json:"rationale"`
	ExpectedOutcome string   `json:"expected_outcome"`
	Urgency         string   `json:"urgency"`
	Phase           string   `json:"phase"`
	Dosing          *Dosing  `json:"dosing,omitempty"`
	Prerequisites   []string `json:"prerequisites,omitempty"`
}
