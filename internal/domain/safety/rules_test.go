package safety

import (
	"testing"

	"github.com/pedscds/pedscds/internal/domain/assessment"
	"github.com/pedscds/pedscds/internal/domain/engine"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func TestCheckViolation_ObstructedAirwayBlocksBreathing(t *testing.T) {
	snap := &assessment.Snapshot{AirwayPatency: strp(assessment.AirwayObstructed)}

	rule := CheckViolation(engine.PhaseAirway, engine.PhaseBreathing, snap)
	if rule == nil || rule.ID != "airway-not-secured" {
		t.Fatalf("expected airway-not-secured, got %+v", rule)
	}
	if rule.Remedial == "" || rule.Message == "" {
		t.Error("blocking rule must carry a message and remedial guidance")
	}
}

func TestCheckViolation_PatentAirwayAllowsBreathing(t *testing.T) {
	snap := &assessment.Snapshot{AirwayPatency: strp(assessment.AirwayPatent)}
	if rule := CheckViolation(engine.PhaseAirway, engine.PhaseBreathing, snap); rule != nil {
		t.Errorf("patent airway must not block breathing, got %+v", rule)
	}
}

func TestCheckViolation_KeyedOnTargetPhase(t *testing.T) {
	// An obstructed airway blocks entry to breathing but not to other
	// phases; the airway rule targets breathing only.
	snap := &assessment.Snapshot{AirwayPatency: strp(assessment.AirwayObstructed)}
	if rule := CheckViolation(engine.PhaseAirway, engine.PhaseDisability, snap); rule != nil {
		t.Errorf("airway rule must only gate the breathing phase, got %+v", rule)
	}
}

func TestCheckViolation_FirstViolatedRuleWins(t *testing.T) {
	// Apnea and critical hypoxemia both gate circulation; table order puts
	// apnea-unmanaged first.
	snap := &assessment.Snapshot{
		RespiratoryRate: intp(0),
		SpO2:            intp(70),
	}
	rule := CheckViolation(engine.PhaseBreathing, engine.PhaseCirculation, snap)
	if rule == nil || rule.ID != "apnea-unmanaged" {
		t.Errorf("expected apnea-unmanaged by table order, got %+v", rule)
	}
}

func TestCheckViolation_PerPhaseGates(t *testing.T) {
	tests := []struct {
		name      string
		nextPhase string
		snap      assessment.Snapshot
		wantRule  string
	}{
		{"hypoxemia gates circulation", engine.PhaseCirculation,
			assessment.Snapshot{SpO2: intp(80)}, "oxygenation-critical"},
		{"spo2 85 passes", engine.PhaseCirculation,
			assessment.Snapshot{SpO2: intp(85)}, ""},
		{"pulselessness gates disability", engine.PhaseDisability,
			assessment.Snapshot{HeartRate: intp(0)}, "no-pulse-detected"},
		{"hypotension gates exposure", engine.PhaseExposure,
			assessment.Snapshot{SystolicBP: intp(60), Profile: assessment.Profile{AgeYears: 3}}, "shock-untreated"},
		{"active seizure gates exposure", engine.PhaseExposure,
			assessment.Snapshot{SeizureActivity: strp(assessment.SeizureActive)}, "active-seizure"},
		{"postictal passes exposure", engine.PhaseExposure,
			assessment.Snapshot{SeizureActivity: strp(assessment.SeizurePostictal)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := CheckViolation(engine.PhaseAirway, tt.nextPhase, &tt.snap)
			switch {
			case tt.wantRule == "" && rule != nil:
				t.Errorf("expected no violation, got %s", rule.ID)
			case tt.wantRule != "" && (rule == nil || rule.ID != tt.wantRule):
				t.Errorf("expected %s, got %+v", tt.wantRule, rule)
			}
		})
	}
}

func TestCheckViolation_NilSnapshot(t *testing.T) {
	if rule := CheckViolation(engine.PhaseAirway, engine.PhaseBreathing, nil); rule != nil {
		t.Errorf("no assessment yet means nothing to gate on, got %+v", rule)
	}
}

func TestCheckViolation_EmptySnapshot(t *testing.T) {
	snap := &assessment.Snapshot{}
	for _, phase := range []string{
		engine.PhaseBreathing, engine.PhaseCirculation,
		engine.PhaseDisability, engine.PhaseExposure,
	} {
		if rule := CheckViolation(engine.PhaseAirway, phase, snap); rule != nil {
			t.Errorf("absent findings must never violate, phase %s got %s", phase, rule.ID)
		}
	}
}

func TestRules_TableIntegrity(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Rules() {
		if r.ID == "" || r.TargetPhase == "" || r.Message == "" || r.Remedial == "" {
			t.Errorf("incomplete rule: %+v", r)
		}
		if seen[r.ID] {
			t.Errorf("duplicate rule id %s", r.ID)
		}
		seen[r.ID] = true
		if r.TargetPhase == engine.PhaseAirway {
			t.Errorf("rule %s targets the first phase; nothing precedes airway", r.ID)
		}
	}
}
