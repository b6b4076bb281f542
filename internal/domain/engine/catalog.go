package engine

import (
	"github.com/pedscds/pedscds/internal/domain/assessment"
)

// Definition is one immutable catalog entry: an emergency condition with a
// trigger predicate over an assessment snapshot, an ordered care bundle and
// a monitoring checklist. Severity is a static attribute of the condition,
// never computed from the snapshot.
type Definition struct {
	ID         string                          `json:"id"`
	Name       string                          `json:"name"`
	Severity   string                          `json:"severity"`
	Trigger    func(*assessment.Snapshot) bool `json:"-"`
	Actions    []Action                        `json:"actions"`
	Monitoring []string                        `json:"monitoring"`
}

// Catalog returns the fixed, hand-authored engine catalog. Trigger
// evaluation is pure and total: absent snapshot fields never satisfy a
// sub-condition. Multiple engines may be satisfied by one snapshot; the
// catalog imposes no suppression between them.
func Catalog() []Definition {
	return catalog
}

// Lookup returns the definition with the given id, or nil.
func Lookup(id string) *Definition {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i]
		}
	}
	return nil
}

var catalog = []Definition{
	{
		ID:       "cardiac-arrest",
		Name:     "Cardiac Arrest",
		Severity: SeverityCritical,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.Pulseless() ||
				(s.ConsciousnessIs(assessment.ConsciousnessUnresponsive) && s.Apneic())
		},
		Actions: []Action{
			{
				ID: "ca-start-compressions", Sequence: 1,
				Title:           "Start high-quality chest compressions",
				Rationale:       "Circulation must be restored mechanically before any drug or airway step.",
				ExpectedOutcome: "Palpable compression pulse, ETCO2 above 10 mmHg",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
			},
			{
				ID: "ca-bag-mask", Sequence: 2,
				Title:           "Ventilate with bag-mask and 100% oxygen",
				Rationale:       "Pediatric arrest is most often hypoxic in origin.",
				ExpectedOutcome: "Visible chest rise at 15:2 compression ratio",
				Urgency:         SeverityCritical, Phase: PhaseBreathing,
				Prerequisites: []string{"ca-start-compressions"},
			},
			{
				ID: "ca-attach-monitor", Sequence: 3,
				Title:           "Attach defibrillator and assess rhythm",
				Rationale:       "Shockable rhythms need defibrillation within minutes.",
				ExpectedOutcome: "Rhythm classified as shockable or non-shockable",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
			},
			{
				ID: "ca-epinephrine", Sequence: 4,
				Title:           "Give epinephrine",
				Rationale:       "Alpha-adrenergic vasoconstriction raises coronary perfusion pressure.",
				ExpectedOutcome: "Improved diastolic pressure during compressions",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Dosing:        &Dosing{RatePerKg: 0.01, Unit: "mg", Route: "IV/IO", MaxDose: 1},
				Prerequisites: []string{"ca-attach-monitor"},
			},
			{
				ID: "ca-reassess-rhythm", Sequence: 5,
				Title:           "Reassess rhythm every 2 minutes",
				Rationale:       "Cycle-based reassessment catches ROSC and rhythm changes.",
				ExpectedOutcome: "ROSC or continued structured CPR cycles",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
			},
		},
		Monitoring: []string{
			"Continuous ECG", "End-tidal CO2", "Compression depth and rate",
			"Pulse check at rhythm checks",
		},
	},
	{
		ID:       "septic-shock",
		Name:     "Septic Shock",
		Severity: SeverityCritical,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.TemperatureAbnormal() && s.SIRSCount() >= 2 && s.PerfusionAbnormal()
		},
		Actions: []Action{
			{
				ID: "ss-oxygen", Sequence: 1,
				Title:           "Apply high-flow oxygen",
				Rationale:       "Maximize oxygen delivery while perfusion is compromised.",
				ExpectedOutcome: "SpO2 94% or above",
				Urgency:         SeverityCritical, Phase: PhaseBreathing,
			},
			{
				ID: "ss-iv-access", Sequence: 2,
				Title:           "Establish IV or IO access",
				Rationale:       "Fluids and antibiotics both need vascular access within minutes.",
				ExpectedOutcome: "Two working lines, or one IO if IV fails twice",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
			},
			{
				ID: "ss-fluid-bolus", Sequence: 3,
				Title:           "Give isotonic fluid bolus",
				Rationale:       "Rapid volume expansion restores preload in distributive shock.",
				ExpectedOutcome: "Capillary refill under 3 seconds, improving heart rate",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Dosing:        &Dosing{RatePerKg: 20, Unit: "mL", Route: "IV/IO over 15 min", MaxDose: 1000},
				Prerequisites: []string{"ss-iv-access"},
			},
			{
				ID: "ss-antibiotics", Sequence: 4,
				Title:           "Give broad-spectrum antibiotics",
				Rationale:       "Each hour of antibiotic delay raises sepsis mortality.",
				ExpectedOutcome: "First dose within 60 minutes of recognition",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Dosing:        &Dosing{RatePerKg: 50, Unit: "mg", Route: "IV ceftriaxone", MaxDose: 2000},
				Prerequisites: []string{"ss-iv-access"},
			},
			{
				ID: "ss-reassess-perfusion", Sequence: 5,
				Title:           "Reassess perfusion after each bolus",
				Rationale:       "Fluid-refractory shock needs vasoactive support, not more fluid.",
				ExpectedOutcome: "Decision point: repeat bolus or start vasoactives",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Prerequisites: []string{"ss-fluid-bolus"},
			},
			{
				ID: "ss-vasoactive", Sequence: 6,
				Title:           "Start vasoactive infusion if fluid-refractory",
				Rationale:       "Persistent hypotension after 40-60 mL/kg indicates refractory shock.",
				ExpectedOutcome: "Mean arterial pressure above age-adjusted floor",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Dosing:        &Dosing{RatePerKg: 0.1, Unit: "mcg/kg/min", Route: "IV epinephrine infusion"},
				Prerequisites: []string{"ss-reassess-perfusion"},
			},
		},
		Monitoring: []string{
			"Heart rate and blood pressure every 5 minutes", "Capillary refill",
			"Urine output", "Lactate trend", "Mental status",
		},
	},
	{
		ID:       "respiratory-failure",
		Name:     "Respiratory Failure",
		Severity: SeverityCritical,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.SpO2Below(90) ||
				(s.AirwayIs(assessment.AirwayPartiallyObstructed) && s.Tachypneic()) ||
				(s.Apneic() && s.AlteredConsciousness())
		},
		Actions: []Action{
			{
				ID: "rf-position-airway", Sequence: 1,
				Title:           "Position airway and suction if needed",
				Rationale:       "Positioning alone resolves many pediatric airway compromises.",
				ExpectedOutcome: "Clear air entry, improved work of breathing",
				Urgency:         SeverityCritical, Phase: PhaseAirway,
			},
			{
				ID: "rf-high-flow-o2", Sequence: 2,
				Title:           "Apply high-flow oxygen",
				Rationale:       "Hypoxemia is the immediate threat to end organs.",
				ExpectedOutcome: "SpO2 rising above 94%",
				Urgency:         SeverityCritical, Phase: PhaseBreathing,
			},
			{
				ID: "rf-bag-mask", Sequence: 3,
				Title:           "Begin bag-mask ventilation if inadequate effort",
				Rationale:       "Assisted ventilation bridges to a definitive airway.",
				ExpectedOutcome: "Chest rise, SpO2 above 90%",
				Urgency:         SeverityCritical, Phase: PhaseBreathing,
				Prerequisites: []string{"rf-position-airway"},
			},
			{
				ID: "rf-prepare-intubation", Sequence: 4,
				Title:           "Prepare for advanced airway",
				Rationale:       "Failed non-invasive support needs a secured airway.",
				ExpectedOutcome: "Equipment, drugs and roles ready before induction",
				Urgency:         SeverityCritical, Phase: PhaseAirway,
				Prerequisites: []string{"rf-bag-mask"},
			},
		},
		Monitoring: []string{
			"Continuous SpO2", "Respiratory rate and effort", "Mental status",
			"Blood gas if available",
		},
	},
	{
		ID:       "anaphylaxis",
		Name:     "Anaphylaxis",
		Severity: SeverityCritical,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.RashIs(assessment.RashUrticarial) &&
				(s.Hypotensive() || s.SpO2Below(92) ||
					s.AirwayIs(assessment.AirwayPartiallyObstructed, assessment.AirwayObstructed))
		},
		Actions: []Action{
			{
				ID: "ana-epinephrine-im", Sequence: 1,
				Title:           "Give intramuscular epinephrine",
				Rationale:       "Epinephrine is the only first-line therapy; delay drives mortality.",
				ExpectedOutcome: "Improved airway swelling and blood pressure within 5 minutes",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Dosing: &Dosing{RatePerKg: 0.01, Unit: "mg", Route: "IM anterolateral thigh", MaxDose: 0.5},
			},
			{
				ID: "ana-remove-trigger", Sequence: 2,
				Title:           "Remove or stop the triggering agent",
				Rationale:       "Ongoing antigen exposure sustains the reaction.",
				ExpectedOutcome: "No continued exposure",
				Urgency:         SeverityCritical, Phase: PhaseExposure,
			},
			{
				ID: "ana-oxygen-position", Sequence: 3,
				Title:           "High-flow oxygen, position supine with legs raised",
				Rationale:       "Distributive shock responds to preload augmentation.",
				ExpectedOutcome: "SpO2 94% or above, improving perfusion",
				Urgency:         SeverityCritical, Phase: PhaseBreathing,
			},
			{
				ID: "ana-fluid-bolus", Sequence: 4,
				Title:           "Isotonic fluid bolus for persistent hypotension",
				Rationale:       "Capillary leak in anaphylaxis can shift a third of circulating volume.",
				ExpectedOutcome: "Systolic pressure above the age-adjusted floor",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Dosing:        &Dosing{RatePerKg: 20, Unit: "mL", Route: "IV/IO", MaxDose: 1000},
				Prerequisites: []string{"ana-epinephrine-im"},
			},
			{
				ID: "ana-repeat-epi", Sequence: 5,
				Title:           "Repeat epinephrine at 5 minutes if not improving",
				Rationale:       "Up to a third of reactions need more than one dose.",
				ExpectedOutcome: "Sustained airway patency and perfusion",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Dosing:        &Dosing{RatePerKg: 0.01, Unit: "mg", Route: "IM anterolateral thigh", MaxDose: 0.5},
				Prerequisites: []string{"ana-epinephrine-im"},
			},
		},
		Monitoring: []string{
			"Airway swelling", "Continuous SpO2", "Blood pressure every 5 minutes",
			"Biphasic recurrence for 4-6 hours",
		},
	},
	{
		ID:       "meningococcal-sepsis",
		Name:     "Meningococcal Sepsis",
		Severity: SeverityCritical,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.RashIs(assessment.RashPetechial, assessment.RashPurpuric) && s.FeverAtLeast(38)
		},
		Actions: []Action{
			{
				ID: "ms-isolate", Sequence: 1,
				Title:           "Droplet precautions and isolation",
				Rationale:       "Meningococcus transmits by droplet; protect staff and patients.",
				ExpectedOutcome: "Precautions in place before prolonged contact",
				Urgency:         SeverityCritical, Phase: PhaseExposure,
			},
			{
				ID: "ms-antibiotics", Sequence: 2,
				Title:           "Give ceftriaxone immediately",
				Rationale:       "Do not wait for lumbar puncture or cultures in purpuric fever.",
				ExpectedOutcome: "Antibiotics within 30 minutes of recognition",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Dosing: &Dosing{RatePerKg: 50, Unit: "mg", Route: "IV", MaxDose: 2000},
			},
			{
				ID: "ms-fluid-bolus", Sequence: 3,
				Title:           "Isotonic fluid bolus for shock",
				Rationale:       "Meningococcemia causes profound capillary leak.",
				ExpectedOutcome: "Improving perfusion markers",
				Urgency:         SeverityCritical, Phase: PhaseCirculation,
				Dosing: &Dosing{RatePerKg: 20, Unit: "mL", Route: "IV/IO", MaxDose: 1000},
			},
			{
				ID: "ms-monitor-purpura", Sequence: 4,
				Title:           "Mark and monitor purpura spread",
				Rationale:       "Lesion progression tracks disease tempo.",
				ExpectedOutcome: "Documented lesion margins with timestamps",
				Urgency:         SeverityUrgent, Phase: PhaseExposure,
			},
		},
		Monitoring: []string{
			"Rash progression", "Perfusion and blood pressure", "Coagulation profile",
			"Contact prophylaxis for exposures",
		},
	},
	{
		ID:       "status-epilepticus",
		Name:     "Status Epilepticus",
		Severity: SeverityCritical,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.SeizureIs(assessment.SeizureActive)
		},
		Actions: []Action{
			{
				ID: "se-protect-position", Sequence: 1,
				Title:           "Protect from injury, position on side",
				Rationale:       "Aspiration and trauma are the immediate hazards.",
				ExpectedOutcome: "Patent airway, no injury",
				Urgency:         SeverityCritical, Phase: PhaseAirway,
			},
			{
				ID: "se-oxygen", Sequence: 2,
				Title:           "Apply oxygen and suction secretions",
				Rationale:       "Convulsive seizures impair ventilation.",
				ExpectedOutcome: "SpO2 above 92%",
				Urgency:         SeverityCritical, Phase: PhaseBreathing,
			},
			{
				ID: "se-check-glucose", Sequence: 3,
				Title:           "Check blood glucose",
				Rationale:       "Hypoglycemic seizures terminate with dextrose, not benzodiazepines.",
				ExpectedOutcome: "Glucose documented; dextrose if below 60 mg/dL",
				Urgency:         SeverityCritical, Phase: PhaseDisability,
			},
			{
				ID: "se-benzodiazepine", Sequence: 4,
				Title:           "Give benzodiazepine",
				Rationale:       "First-line abortive therapy at 5 minutes of seizure activity.",
				ExpectedOutcome: "Seizure termination within 5 minutes",
				Urgency:         SeverityCritical, Phase: PhaseDisability,
				Dosing:        &Dosing{RatePerKg: 0.1, Unit: "mg", Route: "IV midazolam", MaxDose: 10},
				Prerequisites: []string{"se-check-glucose"},
			},
			{
				ID: "se-second-line", Sequence: 5,
				Title:           "Load second-line antiepileptic if still seizing",
				Rationale:       "Benzodiazepine-refractory seizures need a loading agent.",
				ExpectedOutcome: "Seizure termination; airway plan if it fails",
				Urgency:         SeverityCritical, Phase: PhaseDisability,
				Dosing:        &Dosing{RatePerKg: 20, Unit: "mg", Route: "IV levetiracetam", MaxDose: 3000},
				Prerequisites: []string{"se-benzodiazepine"},
			},
		},
		Monitoring: []string{
			"Seizure duration", "Airway and SpO2", "Repeat glucose",
			"Respiratory depression after benzodiazepines",
		},
	},
	{
		ID:       "dka",
		Name:     "Diabetic Ketoacidosis",
		Severity: SeverityUrgent,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.GlucoseAbove(250) && s.Tachypneic()
		},
		Actions: []Action{
			{
				ID: "dka-confirm-labs", Sequence: 1,
				Title:           "Confirm with blood gas and ketones",
				Rationale:       "Treatment intensity depends on pH and ketone level.",
				ExpectedOutcome: "pH, bicarbonate and ketones documented",
				Urgency:         SeverityUrgent, Phase: PhaseDisability,
			},
			{
				ID: "dka-slow-fluids", Sequence: 2,
				Title:           "Start cautious isotonic rehydration",
				Rationale:       "Rapid osmotic shifts risk cerebral edema in children.",
				ExpectedOutcome: "Deficit replaced over 48 hours, not rapidly",
				Urgency:         SeverityUrgent, Phase: PhaseCirculation,
				Dosing: &Dosing{RatePerKg: 10, Unit: "mL", Route: "IV over 60 min", MaxDose: 500},
			},
			{
				ID: "dka-insulin-infusion", Sequence: 3,
				Title:           "Start insulin infusion after the first hour of fluids",
				Rationale:       "Early insulin before volume repletion worsens shock and edema risk.",
				ExpectedOutcome: "Glucose falling 50-100 mg/dL per hour",
				Urgency:         SeverityUrgent, Phase: PhaseCirculation,
				Dosing:        &Dosing{RatePerKg: 0.1, Unit: "units/kg/hr", Route: "IV infusion"},
				Prerequisites: []string{"dka-slow-fluids"},
			},
			{
				ID: "dka-neuro-checks", Sequence: 4,
				Title:           "Hourly neurologic checks",
				Rationale:       "Cerebral edema is the main cause of DKA death in children.",
				ExpectedOutcome: "Early detection of headache, bradycardia or altered mentation",
				Urgency:         SeverityUrgent, Phase: PhaseDisability,
			},
		},
		Monitoring: []string{
			"Hourly glucose", "Electrolytes every 2-4 hours", "Neurologic status",
			"Fluid balance",
		},
	},
	{
		ID:       "severe-dehydration",
		Name:     "Severe Dehydration",
		Severity: SeverityUrgent,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.CapillaryRefillAtLeast(3) && s.Tachycardic() && !s.TemperatureAbnormal()
		},
		Actions: []Action{
			{
				ID: "sd-iv-access", Sequence: 1,
				Title:           "Establish IV access",
				Rationale:       "Severe dehydration with poor perfusion needs parenteral fluids.",
				ExpectedOutcome: "Working line within two attempts",
				Urgency:         SeverityUrgent, Phase: PhaseCirculation,
			},
			{
				ID: "sd-fluid-bolus", Sequence: 2,
				Title:           "Give isotonic fluid bolus",
				Rationale:       "Restore circulating volume before maintenance calculation.",
				ExpectedOutcome: "Capillary refill under 3 seconds",
				Urgency:         SeverityUrgent, Phase: PhaseCirculation,
				Dosing:        &Dosing{RatePerKg: 20, Unit: "mL", Route: "IV over 20 min", MaxDose: 1000},
				Prerequisites: []string{"sd-iv-access"},
			},
			{
				ID: "sd-check-glucose", Sequence: 3,
				Title:           "Check glucose and electrolytes",
				Rationale:       "Gastroenteritis-driven dehydration often hides hypoglycemia.",
				ExpectedOutcome: "Glucose and sodium documented",
				Urgency:         SeverityUrgent, Phase: PhaseDisability,
			},
			{
				ID: "sd-reassess", Sequence: 4,
				Title:           "Reassess hydration after bolus",
				Rationale:       "Ongoing losses may need repeat bolus or escalation.",
				ExpectedOutcome: "Documented reassessment and plan",
				Urgency:         SeverityUrgent, Phase: PhaseCirculation,
				Prerequisites: []string{"sd-fluid-bolus"},
			},
		},
		Monitoring: []string{
			"Heart rate trend", "Capillary refill", "Urine output", "Ongoing losses",
		},
	},
	{
		ID:       "hypoglycemia",
		Name:     "Symptomatic Hypoglycemia",
		Severity: SeverityUrgent,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.GlucoseBelow(60) && s.AlteredConsciousness()
		},
		Actions: []Action{
			{
				ID: "hg-dextrose", Sequence: 1,
				Title:           "Give IV dextrose",
				Rationale:       "Neuroglycopenia causes permanent injury within minutes.",
				ExpectedOutcome: "Glucose above 70 mg/dL, improving consciousness",
				Urgency:         SeverityCritical, Phase: PhaseDisability,
				Dosing: &Dosing{RatePerKg: 2.5, Unit: "mL", Route: "IV D10W", MaxDose: 250},
			},
			{
				ID: "hg-recheck", Sequence: 2,
				Title:           "Recheck glucose at 10 minutes",
				Rationale:       "Rebound hypoglycemia is common after a single bolus.",
				ExpectedOutcome: "Two consecutive readings above 70 mg/dL",
				Urgency:         SeverityUrgent, Phase: PhaseDisability,
				Prerequisites: []string{"hg-dextrose"},
			},
			{
				ID: "hg-maintenance", Sequence: 3,
				Title:           "Start dextrose-containing maintenance fluids",
				Rationale:       "Sustained supply prevents recurrence while the cause is found.",
				ExpectedOutcome: "Stable glucose on infusion",
				Urgency:         SeverityUrgent, Phase: PhaseCirculation,
				Prerequisites: []string{"hg-recheck"},
			},
		},
		Monitoring: []string{
			"Glucose every 15-30 minutes", "Mental status", "Seizure activity",
		},
	},
	{
		ID:       "croup-severe",
		Name:     "Severe Croup",
		Severity: SeverityUrgent,
		Trigger: func(s *assessment.Snapshot) bool {
			return s.AirwayIs(assessment.AirwayPartiallyObstructed) &&
				s.FeverAtLeast(37.5) && !s.RashIs(assessment.RashUrticarial)
		},
		Actions: []Action{
			{
				ID: "cr-keep-calm", Sequence: 1,
				Title:           "Keep the child calm, parent holding",
				Rationale:       "Agitation worsens dynamic upper airway obstruction.",
				ExpectedOutcome: "Reduced stridor at rest",
				Urgency:         SeverityUrgent, Phase: PhaseAirway,
			},
			{
				ID: "cr-nebulized-epi", Sequence: 2,
				Title:           "Give nebulized epinephrine",
				Rationale:       "Topical vasoconstriction shrinks subglottic edema within minutes.",
				ExpectedOutcome: "Reduced stridor and retractions",
				Urgency:         SeverityUrgent, Phase: PhaseBreathing,
				Dosing: &Dosing{RatePerKg: 0.5, Unit: "mL", Route: "nebulized 1:1000", MaxDose: 5},
			},
			{
				ID: "cr-dexamethasone", Sequence: 3,
				Title:           "Give dexamethasone",
				Rationale:       "Steroids shorten the course and prevent rebound after epinephrine.",
				ExpectedOutcome: "Sustained improvement at 2-hour observation",
				Urgency:         SeverityUrgent, Phase: PhaseBreathing,
				Dosing: &Dosing{RatePerKg: 0.6, Unit: "mg", Route: "PO/IM", MaxDose: 16},
			},
			{
				ID: "cr-observe", Sequence: 4,
				Title:           "Observe 2-4 hours after epinephrine",
				Rationale:       "Rebound obstruction appears as the epinephrine wears off.",
				ExpectedOutcome: "No stridor at rest before disposition",
				Urgency:         SeverityUrgent, Phase: PhaseBreathing,
				Prerequisites: []string{"cr-nebulized-epi"},
			},
		},
		Monitoring: []string{
			"Stridor at rest", "Work of breathing", "SpO2", "Westley score trend",
		},
	},
}
