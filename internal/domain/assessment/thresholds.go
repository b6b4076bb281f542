package assessment

// Age-adjusted vital sign cutoffs. Each is a piecewise function of age in
// fractional years, following PALS reference bands. Dosing and thresholds
// scale with demographics; none of these functions read anything but age.

// TachycardiaThreshold returns the heart rate above which a child of the
// given age is tachycardic.
func TachycardiaThreshold(ageYears float64) float64 {
	switch {
	case ageYears < 1:
		return 180
	case ageYears < 3:
		return 160
	case ageYears < 6:
		return 140
	case ageYears < 12:
		return 120
	default:
		return 100
	}
}

// BradycardiaThreshold returns the heart rate below which a child of the
// given age is bradycardic.
func BradycardiaThreshold(ageYears float64) float64 {
	if ageYears < 1 {
		return 100
	}
	return 60
}

// TachypneaThreshold returns the respiratory rate above which a child of
// the given age is tachypneic.
func TachypneaThreshold(ageYears float64) float64 {
	switch {
	case ageYears < 1:
		return 60
	case ageYears < 3:
		return 40
	case ageYears < 6:
		return 34
	case ageYears < 12:
		return 30
	default:
		return 25
	}
}

// HypotensionThreshold returns the systolic blood pressure below which a
// child of the given age is hypotensive. For ages 1-9 this is the PALS
// 70 + 2 x age formula.
func HypotensionThreshold(ageYears float64) float64 {
	switch {
	case ageYears < 1:
		return 70
	case ageYears < 10:
		return 70 + 2*ageYears
	default:
		return 90
	}
}
