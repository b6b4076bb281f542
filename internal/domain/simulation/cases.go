package simulation

import (
	"time"

	"github.com/pedscds/pedscds/internal/domain/assessment"
)

// Cases returns the authored case library.
func Cases() []Case {
	return caseLibrary
}

// LookupCase returns the case with the given id, or nil.
func LookupCase(id string) *Case {
	for i := range caseLibrary {
		if caseLibrary[i].ID == id {
			return &caseLibrary[i]
		}
	}
	return nil
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }

var caseLibrary = []Case{
	{
		ID:         "cardiac_arrest_beginner",
		Title:      "Witnessed Collapse in the Waiting Room",
		Difficulty: "beginner",
		Profile:    assessment.Profile{WeightKg: 20, AgeYears: 5},
		InitialVitals: assessment.Snapshot{
			RecordedAt:      time.Time{},
			HeartRate:       intp(0),
			RespiratoryRate: intp(0),
			SpO2:            intp(60),
			Consciousness:   strp(assessment.ConsciousnessUnresponsive),
			SkinColor:       strp(assessment.SkinCyanotic),
			Profile:         assessment.Profile{WeightKg: 20, AgeYears: 5},
		},
		Briefing: "A 5-year-old collapses in the waiting room. No bystander CPR in progress.",
		Events: []Event{
			{OffsetSeconds: 0, Type: EventPrompt, Description: "Child is motionless on the floor.",
				ExpectedAction: "check-responsiveness", CriticalWindowSeconds: 15},
			{OffsetSeconds: 20, Type: EventPrompt, Description: "No pulse palpable after 10 seconds.",
				ExpectedAction: "start-compressions", CriticalWindowSeconds: 30},
			{OffsetSeconds: 60, Type: EventVitalsChange, Description: "Monitor shows ventricular fibrillation.",
				ExpectedAction: "attach-defibrillator"},
			{OffsetSeconds: 120, Type: EventComplication, Description: "Rhythm unchanged after first cycle.",
				ExpectedAction: "give-epinephrine"},
			{OffsetSeconds: 180, Type: EventResolution, Description: "ROSC after second rhythm check."},
		},
		CorrectActions: []ScoredAction{
			{ID: "check-responsiveness", Name: "Check responsiveness", Points: 10, TimeBonus: 5},
			{ID: "call-for-help", Name: "Call for help and the resuscitation team", Points: 10, TimeBonus: 5},
			{ID: "open-airway", Name: "Open the airway", Points: 10},
			{ID: "check-breathing-pulse", Name: "Check breathing and pulse", Points: 10, TimeBonus: 5},
			{ID: "start-compressions", Name: "Start chest compressions", Points: 15, TimeBonus: 10},
			{ID: "bag-mask-ventilation", Name: "Bag-mask ventilation with oxygen", Points: 10},
			{ID: "attach-defibrillator", Name: "Attach defibrillator and assess rhythm", Points: 10, TimeBonus: 5},
			{ID: "give-epinephrine", Name: "Give weight-based epinephrine", Points: 15},
			{ID: "reassess-rhythm", Name: "Reassess rhythm at 2 minutes", Points: 10},
		},
		Distractors: []DistractorAction{
			{ID: "check-pupils-first", Name: "Detailed pupil exam before CPR", Penalty: 5},
			{ID: "fetch-history", Name: "Leave to take a full history", Penalty: 5},
			{ID: "delayed-intubation", Name: "Delay compressions for intubation", Penalty: 10},
			{ID: "atropine-first-line", Name: "Give atropine as first-line arrest drug", Penalty: 10},
		},
		PassingScore: 70,
	},
	{
		ID:         "anaphylaxis_intermediate",
		Title:      "Peanut Exposure at a Birthday Party",
		Difficulty: "intermediate",
		Profile:    assessment.Profile{WeightKg: 15, AgeYears: 3, AgeMonths: 6},
		InitialVitals: assessment.Snapshot{
			HeartRate:       intp(165),
			RespiratoryRate: intp(45),
			SpO2:            intp(90),
			SystolicBP:      intp(68),
			RashType:        strp(assessment.RashUrticarial),
			AirwayPatency:   strp(assessment.AirwayPartiallyObstructed),
			Profile:         assessment.Profile{WeightKg: 15, AgeYears: 3, AgeMonths: 6},
		},
		Briefing: "A 3-year-old with known peanut allergy arrives with hives, stridor and poor perfusion.",
		Events: []Event{
			{OffsetSeconds: 0, Type: EventPrompt, Description: "Widespread urticaria, audible stridor.",
				ExpectedAction: "im-epinephrine", CriticalWindowSeconds: 60},
			{OffsetSeconds: 90, Type: EventVitalsChange, Description: "BP falling despite first epinephrine.",
				ExpectedAction: "fluid-bolus"},
			{OffsetSeconds: 300, Type: EventComplication, Description: "Stridor recurs at 5 minutes.",
				ExpectedAction: "repeat-epinephrine"},
			{OffsetSeconds: 420, Type: EventResolution, Description: "Airway and perfusion stabilize."},
		},
		CorrectActions: []ScoredAction{
			{ID: "recognize-anaphylaxis", Name: "Recognize anaphylaxis", Points: 10, TimeBonus: 5},
			{ID: "im-epinephrine", Name: "Intramuscular epinephrine", Points: 20, TimeBonus: 10},
			{ID: "remove-allergen", Name: "Remove the allergen", Points: 5},
			{ID: "high-flow-oxygen", Name: "High-flow oxygen, legs raised", Points: 10},
			{ID: "fluid-bolus", Name: "Isotonic fluid bolus 20 mL/kg", Points: 15},
			{ID: "repeat-epinephrine", Name: "Repeat epinephrine at 5 minutes", Points: 15},
		},
		Distractors: []DistractorAction{
			{ID: "oral-antihistamine-only", Name: "Treat with oral antihistamine alone", Penalty: 10},
			{ID: "wait-and-see", Name: "Observe without treatment", Penalty: 15},
			{ID: "epi-iv-push", Name: "IV push epinephrine at arrest dose", Penalty: 10},
		},
		PassingScore: 75,
	},
	{
		ID:         "septic_shock_advanced",
		Title:      "Febrile Infant with Mottled Skin",
		Difficulty: "advanced",
		Profile:    assessment.Profile{WeightKg: 8, AgeMonths: 9},
		InitialVitals: assessment.Snapshot{
			HeartRate:       intp(195),
			RespiratoryRate: intp(65),
			Temperature:     floatp(39.4),
			CapillaryRefill: floatp(4),
			SkinColor:       strp(assessment.SkinMottled),
			Profile:         assessment.Profile{WeightKg: 8, AgeMonths: 9},
		},
		Briefing: "A 9-month-old with two days of fever arrives lethargic with mottled skin and a capillary refill of 4 seconds.",
		Events: []Event{
			{OffsetSeconds: 0, Type: EventPrompt, Description: "Lethargic infant, cool peripheries.",
				ExpectedAction: "recognize-shock", CriticalWindowSeconds: 60},
			{OffsetSeconds: 120, Type: EventComplication, Description: "Two failed IV attempts.",
				ExpectedAction: "io-access"},
			{OffsetSeconds: 240, Type: EventVitalsChange, Description: "Perfusion unchanged after first bolus.",
				ExpectedAction: "second-bolus"},
			{OffsetSeconds: 480, Type: EventComplication, Description: "Fluid-refractory shock.",
				ExpectedAction: "start-vasoactive"},
		},
		CorrectActions: []ScoredAction{
			{ID: "recognize-shock", Name: "Recognize compensated septic shock", Points: 10, TimeBonus: 5},
			{ID: "high-flow-oxygen", Name: "High-flow oxygen", Points: 5},
			{ID: "io-access", Name: "Move to IO access after failed IVs", Points: 15},
			{ID: "first-bolus", Name: "First 20 mL/kg bolus", Points: 15, TimeBonus: 5},
			{ID: "early-antibiotics", Name: "Antibiotics within the first hour", Points: 15},
			{ID: "second-bolus", Name: "Reassess and repeat bolus", Points: 10},
			{ID: "start-vasoactive", Name: "Start vasoactive infusion", Points: 15},
			{ID: "recheck-glucose", Name: "Check glucose in the sick infant", Points: 5},
		},
		Distractors: []DistractorAction{
			{ID: "antipyretic-only", Name: "Treat the fever and discharge", Penalty: 15},
			{ID: "delay-abx-for-lp", Name: "Delay antibiotics for lumbar puncture", Penalty: 10},
			{ID: "hypotonic-bolus", Name: "Bolus with hypotonic fluid", Penalty: 10},
		},
		PassingScore: 80,
	},
}
