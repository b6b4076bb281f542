package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Airway patency categories.
const (
	AirwayPatent              = "patent"
	AirwayPartiallyObstructed = "partially_obstructed"
	AirwayObstructed          = "obstructed"
)

// AVPU consciousness levels.
const (
	ConsciousnessAlert        = "alert"
	ConsciousnessVoice        = "voice"
	ConsciousnessPain         = "pain"
	ConsciousnessUnresponsive = "unresponsive"
)

// Skin color categories.
const (
	SkinNormal   = "normal"
	SkinPale     = "pale"
	SkinMottled  = "mottled"
	SkinCyanotic = "cyanotic"
	SkinFlushed  = "flushed"
)

// Seizure activity categories.
const (
	SeizureNone      = "none"
	SeizureActive    = "active"
	SeizurePostictal = "postictal"
)

// Rash categories.
const (
	RashNone          = "none"
	RashPetechial     = "petechial"
	RashPurpuric      = "purpuric"
	RashUrticarial    = "urticarial"
	RashMaculopapular = "maculopapular"
)

// Profile holds the demographics every weight- or age-scaled
// computation reads.
type Profile struct {
	WeightKg  float64 `db:"weight_kg" json:"weight_kg"`
	AgeYears  int     `db:"age_years" json:"age_years"`
	AgeMonths int     `db:"age_months" json:"age_months"`
}

// Age returns the age in fractional years.
func (p Profile) Age() float64 {
	return float64(p.AgeYears) + float64(p.AgeMonths)/12.0
}

// Snapshot is an immutable point-in-time record of vitals, exam findings
// and demographics. All clinical fields are optional; an absent field never
// satisfies a trigger sub-condition. The core never mutates a snapshot
// after it is recorded.
type Snapshot struct {
	ID         uuid.UUID `db:"id" json:"id"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`

	// Vitals
	HeartRate       *int     `db:"heart_rate" json:"heart_rate,omitempty"`
	RespiratoryRate *int     `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	SpO2            *int     `db:"spo2" json:"spo2,omitempty"`
	SystolicBP      *int     `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP     *int     `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	Temperature     *float64 `db:"temperature" json:"temperature,omitempty"`
	CapillaryRefill *float64 `db:"capillary_refill" json:"capillary_refill,omitempty"`
	Glucose         *float64 `db:"glucose" json:"glucose,omitempty"`
	Lactate         *float64 `db:"lactate" json:"lactate,omitempty"`

	// Exam findings
	AirwayPatency   *string `db:"airway_patency" json:"airway_patency,omitempty"`
	Consciousness   *string `db:"consciousness" json:"consciousness,omitempty"`
	SkinColor       *string `db:"skin_color" json:"skin_color,omitempty"`
	SeizureActivity *string `db:"seizure_activity" json:"seizure_activity,omitempty"`
	RashType        *string `db:"rash_type" json:"rash_type,omitempty"`

	// Demographics
	Profile Profile `json:"profile"`
}

// Tachycardic reports whether the heart rate exceeds the age-adjusted
// tachycardia cutoff. Absent heart rate is never tachycardic.
func (s *Snapshot) Tachycardic() bool {
	if s.HeartRate == nil {
		return false
	}
	return float64(*s.HeartRate) > TachycardiaThreshold(s.Profile.Age())
}

// Tachypneic reports whether the respiratory rate exceeds the age-adjusted
// tachypnea cutoff.
func (s *Snapshot) Tachypneic() bool {
	if s.RespiratoryRate == nil {
		return false
	}
	return float64(*s.RespiratoryRate) > TachypneaThreshold(s.Profile.Age())
}

// Hypotensive reports whether the systolic blood pressure is below the
// age-adjusted hypotension cutoff.
func (s *Snapshot) Hypotensive() bool {
	if s.SystolicBP == nil {
		return false
	}
	return float64(*s.SystolicBP) < HypotensionThreshold(s.Profile.Age())
}

// Pulseless reports a recorded heart rate of zero. An absent heart rate is
// not pulseless; it is unknown.
func (s *Snapshot) Pulseless() bool {
	return s.HeartRate != nil && *s.HeartRate == 0
}

// Apneic reports a recorded respiratory rate of zero.
func (s *Snapshot) Apneic() bool {
	return s.RespiratoryRate != nil && *s.RespiratoryRate == 0
}

// TemperatureAbnormal reports fever at or above 38.5 C or hypothermia
// below 36.0 C, the SIRS temperature criterion.
func (s *Snapshot) TemperatureAbnormal() bool {
	if s.Temperature == nil {
		return false
	}
	return *s.Temperature >= 38.5 || *s.Temperature < 36.0
}

// FeverAtLeast reports a recorded temperature at or above c degrees Celsius.
func (s *Snapshot) FeverAtLeast(c float64) bool {
	return s.Temperature != nil && *s.Temperature >= c
}

// SpO2Below reports a recorded oxygen saturation strictly below pct.
func (s *Snapshot) SpO2Below(pct int) bool {
	return s.SpO2 != nil && *s.SpO2 < pct
}

// CapillaryRefillAtLeast reports a recorded capillary refill of at least
// sec seconds.
func (s *Snapshot) CapillaryRefillAtLeast(sec float64) bool {
	return s.CapillaryRefill != nil && *s.CapillaryRefill >= sec
}

// GlucoseAbove reports a recorded glucose strictly above mgdl.
func (s *Snapshot) GlucoseAbove(mgdl float64) bool {
	return s.Glucose != nil && *s.Glucose > mgdl
}

// GlucoseBelow reports a recorded glucose strictly below mgdl.
func (s *Snapshot) GlucoseBelow(mgdl float64) bool {
	return s.Glucose != nil && *s.Glucose < mgdl
}

// LactateAtLeast reports a recorded lactate of at least mmol.
func (s *Snapshot) LactateAtLeast(mmol float64) bool {
	return s.Lactate != nil && *s.Lactate >= mmol
}

// AirwayIs reports whether the recorded airway patency matches any of the
// given categories.
func (s *Snapshot) AirwayIs(categories ...string) bool {
	if s.AirwayPatency == nil {
		return false
	}
	for _, c := range categories {
		if *s.AirwayPatency == c {
			return true
		}
	}
	return false
}

// ConsciousnessIs reports whether the recorded AVPU level matches any of
// the given levels.
func (s *Snapshot) ConsciousnessIs(levels ...string) bool {
	if s.Consciousness == nil {
		return false
	}
	for _, l := range levels {
		if *s.Consciousness == l {
			return true
		}
	}
	return false
}

// AlteredConsciousness reports any recorded AVPU level below alert.
func (s *Snapshot) AlteredConsciousness() bool {
	return s.ConsciousnessIs(ConsciousnessVoice, ConsciousnessPain, ConsciousnessUnresponsive)
}

// SkinIs reports whether the recorded skin color matches any of the given
// categories.
func (s *Snapshot) SkinIs(categories ...string) bool {
	if s.SkinColor == nil {
		return false
	}
	for _, c := range categories {
		if *s.SkinColor == c {
			return true
		}
	}
	return false
}

// SeizureIs reports whether the recorded seizure activity matches the
// given category.
func (s *Snapshot) SeizureIs(category string) bool {
	return s.SeizureActivity != nil && *s.SeizureActivity == category
}

// RashIs reports whether the recorded rash matches any of the given
// categories.
func (s *Snapshot) RashIs(categories ...string) bool {
	if s.RashType == nil {
		return false
	}
	for _, c := range categories {
		if *s.RashType == c {
			return true
		}
	}
	return false
}

// PerfusionAbnormal reports any recorded perfusion abnormality: delayed
// capillary refill, age-adjusted hypotension, or mottled/pale/cyanotic skin.
func (s *Snapshot) PerfusionAbnormal() bool {
	return s.CapillaryRefillAtLeast(3) ||
		s.Hypotensive() ||
		s.SkinIs(SkinMottled, SkinPale, SkinCyanotic)
}

// SIRSCount counts the systemic inflammatory response criteria satisfied
// by the snapshot: abnormal temperature, age-adjusted tachycardia and
// age-adjusted tachypnea.
func (s *Snapshot) SIRSCount() int {
	n := 0
	if s.TemperatureAbnormal() {
		n++
	}
	if s.Tachycardic() {
		n++
	}
	if s.Tachypneic() {
		n++
	}
	return n
}
