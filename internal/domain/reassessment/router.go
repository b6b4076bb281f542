// Package reassessment routes a qualitative reassessment response plus the
// number of interventions tried so far to an escalation directive. Route is
// a total function: every response value, including unknown ones, maps to
// a directive rather than an error.
package reassessment

import "fmt"

// Reassessment responses.
const (
	ResponseBetter = "better"
	ResponseSame   = "same"
	ResponseWorse  = "worse"
	ResponseUnable = "unable"
)

// Directive types.
const (
	TypeContinue  = "continue"
	TypeEscalate  = "escalate"
	TypeEmergency = "emergency"
	TypeReassess  = "reassess"
)

// Urgency levels.
const (
	UrgencyRoutine  = "routine"
	UrgencyUrgent   = "urgent"
	UrgencyCritical = "critical"
)

// Directive is the routed escalation decision.
type Directive struct {
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Guidance  string   `json:"guidance"`
	NextSteps []string `json:"next_steps"`
	Urgency   string   `json:"urgency"`
}

// Route maps a reassessment response and intervention count to a
// directive. A deteriorating patient always routes to the emergency
// directive regardless of how many interventions have been tried. An
// unrecognized response is treated like "unable": it flags an assessment
// barrier without assuming deterioration.
func Route(response, phase string, interventionCount int) Directive {
	switch response {
	case ResponseBetter:
		return Directive{
			Type:     TypeContinue,
			Title:    "Condition improving",
			Guidance: "Current management is working. Continue the plan and move to the next phase.",
			NextSteps: []string{
				"Document the improvement and the intervention that produced it",
				fmt.Sprintf("Proceed from %s to the next assessment phase", phase),
				"Keep the current monitoring frequency until stable",
			},
			Urgency: UrgencyRoutine,
		}

	case ResponseWorse:
		return Directive{
			Type:     TypeEmergency,
			Title:    "Condition deteriorating",
			Guidance: "Deterioration despite intervention. Escalate to emergency management now.",
			NextSteps: []string{
				"Activate the rapid response or resuscitation team",
				"Prepare advanced airway equipment and ICU transfer",
				"Consider CPR readiness if perfusion is failing",
				"Senior clinician to bedside immediately",
			},
			Urgency: UrgencyCritical,
		}

	case ResponseSame:
		d := Directive{
			Type:    TypeEscalate,
			Title:   "No response to intervention",
			Urgency: UrgencyUrgent,
		}
		switch {
		case interventionCount <= 1:
			d.Guidance = "First-line intervention has not changed the picture. Try an alternative before escalating."
			d.NextSteps = []string{
				fmt.Sprintf("Try an alternative intervention for the %s phase", phase),
				"Recheck that the first intervention was delivered correctly",
				"Shorten the reassessment interval",
			}
		case interventionCount == 2:
			d.Guidance = "Two interventions without response. Involve senior help and consider a higher level of care."
			d.NextSteps = []string{
				"Notify the senior clinician on duty",
				"Consider transfer to a higher level of care",
				"Re-examine for a missed cause in the current phase",
			}
		default:
			d.Guidance = "Multiple failed interventions. Escalate immediately and rethink the working diagnosis."
			d.NextSteps = []string{
				"Escalate to emergency or ICU team immediately",
				"Reconsider alternative diagnoses for this presentation",
				"Repeat a full structured reassessment from the airway down",
			}
		}
		return d

	default: // ResponseUnable and anything unrecognized
		return Directive{
			Type:     TypeReassess,
			Title:    "Unable to assess response",
			Guidance: "Assessment is obstructed. Remove the barrier and increase monitoring; do not assume deterioration.",
			NextSteps: []string{
				"Identify and address the barrier to assessment",
				"Increase monitoring frequency until assessable",
				"Use objective monitors where the exam is unavailable",
			},
			Urgency: UrgencyUrgent,
		}
	}
}
