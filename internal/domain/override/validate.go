package override

import (
	"fmt"
	"strings"
)

// minJustificationLen applies to high and critical severity overrides.
const minJustificationLen = 50

// reasonKeywords lists reason categories whose justification text must
// mention a specific keyword.
var reasonKeywords = map[string]string{
	ReasonAllergyContraind:    "allergy",
	ReasonResourceUnavailable: "resource",
	ReasonFacilityProtocol:    "protocol",
}

// ValidateReason checks an override's reason category and free-text
// justification against the given severity. It returns every violation as
// a human-readable string and never errors; callers decide whether the
// violations block submission.
func ValidateReason(reason, details, severity string) []string {
	var errs []string

	if severity == SeverityHigh || severity == SeverityCritical {
		if len(strings.TrimSpace(details)) < minJustificationLen {
			errs = append(errs, fmt.Sprintf(
				"%s severity overrides require a justification of at least %d characters",
				severity, minJustificationLen))
		}
	}

	if keyword, ok := reasonKeywords[reason]; ok {
		if !strings.Contains(strings.ToLower(details), keyword) {
			errs = append(errs, fmt.Sprintf(
				"reason %q requires the justification to mention %q", reason, keyword))
		}
	}

	return errs
}
