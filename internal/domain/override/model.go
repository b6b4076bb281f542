package override

import (
	"time"

	"github.com/google/uuid"
)

// Clinician roles known to the permission table.
const (
	RoleSeniorDoctor = "senior_doctor"
	RoleConsultant   = "consultant"
	RoleSpecialist   = "specialist"
	RoleJuniorDoctor = "junior_doctor"
	RoleNurse        = "nurse"
)

// Severity tiers, ordered low to critical.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Reason categories with keyword requirements on the justification text.
const (
	ReasonClinicalJudgment     = "clinical_judgment"
	ReasonAllergyContraind     = "allergy_contraindication"
	ReasonResourceUnavailable  = "resource_unavailable"
	ReasonFacilityProtocol     = "facility_protocol"
	ReasonPatientFamilyRequest = "patient_family_request"
	ReasonAlternativePreferred = "alternative_preferred"
)

// Outcome categories recorded after the fact.
const (
	OutcomeImproved     = "improved"
	OutcomeStable       = "stable"
	OutcomeDeteriorated = "deteriorated"
	OutcomeUnknown      = "unknown"
)

// Record is one immutable audit entry for a clinician override of a
// recommended action. Created once per override event, never mutated
// except for the late-arriving outcome, and never deleted.
type Record struct {
	ID                uuid.UUID `db:"id" json:"id"`
	SessionID         uuid.UUID `db:"session_id" json:"session_id"`
	ClinicianID       string    `db:"clinician_id" json:"clinician_id"`
	ClinicianRole     string    `db:"clinician_role" json:"clinician_role"`
	EngineID          string    `db:"engine_id" json:"engine_id"`
	ActionID          string    `db:"action_id" json:"action_id"`
	RecommendedAction string    `db:"recommended_action" json:"recommended_action"`
	ActualAction      string    `db:"actual_action" json:"actual_action"`
	Reason            string    `db:"reason" json:"reason"`
	Justification     string    `db:"justification" json:"justification"`
	Severity          string    `db:"severity" json:"severity"`
	Outcome           *string   `db:"outcome" json:"outcome,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// AuditTrail aggregates the recorded overrides for quality scoring.
type AuditTrail struct {
	Records []*Record `json:"records"`
}

// CountBySeverity returns the number of records at the given tier.
func (t AuditTrail) CountBySeverity(severity string) int {
	n := 0
	for _, r := range t.Records {
		if r.Severity == severity {
			n++
		}
	}
	return n
}

// ImprovementRate returns the fraction of records with a recorded outcome
// of improved, over all records with any recorded outcome. No outcomes
// yields zero.
func (t AuditTrail) ImprovementRate() float64 {
	recorded, improved := 0, 0
	for _, r := range t.Records {
		if r.Outcome == nil {
			continue
		}
		recorded++
		if *r.Outcome == OutcomeImproved {
			improved++
		}
	}
	if recorded == 0 {
		return 0
	}
	return float64(improved) / float64(recorded)
}
