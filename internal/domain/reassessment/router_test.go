package reassessment

import (
	"strings"
	"testing"
)

func TestRoute_Better(t *testing.T) {
	d := Route(ResponseBetter, "breathing", 1)
	if d.Type != TypeContinue || d.Urgency != UrgencyRoutine {
		t.Errorf("better must continue at routine urgency, got %+v", d)
	}
	found := false
	for _, step := range d.NextSteps {
		if strings.Contains(step, "breathing") {
			found = true
		}
	}
	if !found {
		t.Error("continue directive must reference the current phase")
	}
}

func TestRoute_WorseAlwaysEmergency(t *testing.T) {
	for _, count := range []int{1, 2, 3, 10} {
		d := Route(ResponseWorse, "circulation", count)
		if d.Type != TypeEmergency {
			t.Errorf("worse with %d interventions routed to %s, want emergency", count, d.Type)
		}
		if d.Urgency != UrgencyCritical {
			t.Errorf("worse must be critical urgency, got %s", d.Urgency)
		}
	}
}

func TestRoute_SameEscalatesByCount(t *testing.T) {
	tests := []struct {
		count        int
		wantFragment string
	}{
		{1, "alternative"},
		{2, "senior"},
		{3, "immediately"},
		{7, "immediately"},
	}
	for _, tt := range tests {
		d := Route(ResponseSame, "circulation", tt.count)
		if d.Type != TypeEscalate || d.Urgency != UrgencyUrgent {
			t.Fatalf("same/%d: got type %s urgency %s", tt.count, d.Type, d.Urgency)
		}
		joined := strings.ToLower(d.Guidance + " " + strings.Join(d.NextSteps, " "))
		if !strings.Contains(joined, tt.wantFragment) {
			t.Errorf("same/%d: directive %q missing %q", tt.count, joined, tt.wantFragment)
		}
	}
}

func TestRoute_UnableFlagsBarrier(t *testing.T) {
	d := Route(ResponseUnable, "disability", 2)
	if d.Type != TypeReassess || d.Urgency != UrgencyUrgent {
		t.Errorf("unable must route to reassess at urgent, got %+v", d)
	}
}

func TestRoute_UnknownResponseTreatedAsUnable(t *testing.T) {
	d := Route("confused-input", "airway", 1)
	if d.Type != TypeReassess {
		t.Errorf("unknown response must route like unable, got %s", d.Type)
	}
}

// Route is total: every response/count combination yields a directive
// with a type, title, guidance, steps and urgency.
func TestRoute_Totality(t *testing.T) {
	responses := []string{ResponseBetter, ResponseSame, ResponseWorse, ResponseUnable, ""}
	for _, resp := range responses {
		for _, count := range []int{1, 2, 3, 4} {
			d := Route(resp, "circulation", count)
			if d.Type == "" || d.Title == "" || d.Guidance == "" ||
				len(d.NextSteps) == 0 || d.Urgency == "" {
				t.Errorf("incomplete directive for response %q count %d: %+v", resp, count, d)
			}
		}
	}
}
