package override

// Static severity membership lists. Classification checks the critical
// lists first, then high, then medium; anything unlisted is low.

var criticalEngines = map[string]bool{
	"cardiac-arrest":       true,
	"septic-shock":         true,
	"anaphylaxis":          true,
	"meningococcal-sepsis": true,
}

var criticalActions = map[string]bool{
	"ca-start-compressions": true,
	"ca-epinephrine":        true,
	"ana-epinephrine-im":    true,
	"ss-antibiotics":        true,
	"ms-antibiotics":        true,
}

var highEngines = map[string]bool{
	"respiratory-failure": true,
	"status-epilepticus":  true,
}

var highActions = map[string]bool{
	"se-benzodiazepine": true,
	"rf-bag-mask":       true,
	"ss-fluid-bolus":    true,
	"hg-dextrose":       true,
}

var mediumEngines = map[string]bool{
	"dka":                true,
	"severe-dehydration": true,
	"hypoglycemia":       true,
}

var mediumActions = map[string]bool{
	"dka-insulin-infusion": true,
	"sd-fluid-bolus":       true,
	"cr-nebulized-epi":     true,
}

// ClassifySeverity maps an engine/action pair onto a severity tier via the
// static membership lists. Unlisted ids degrade to low; no combination
// errors.
func ClassifySeverity(engineID, actionID string) string {
	switch {
	case criticalEngines[engineID] || criticalActions[actionID]:
		return SeverityCritical
	case highEngines[engineID] || highActions[actionID]:
		return SeverityHigh
	case mediumEngines[engineID] || mediumActions[actionID]:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
