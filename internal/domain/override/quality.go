package override

// Quality score coefficients. These are a weighted heuristic tuned by
// clinical governance, not derived from data; treat them as configuration.
const (
	baseScore         = 100.0
	volumeFreeAllow   = 50
	volumePenalty     = 0.2
	criticalPenalty   = 2.0
	highPenalty       = 1.0
	strongBonusRate   = 0.70
	strongBonus       = 10.0
	moderateBonusRate = 0.50
	moderateBonus     = 5.0
)

// QualityScore reduces an audit trail to a 0-100 governance score:
// a volume penalty for every override beyond the 50th, per-record
// penalties for critical and high overrides, and a bonus when the
// recorded outcome improvement rate is high.
func QualityScore(trail AuditTrail) float64 {
	score := baseScore

	if n := len(trail.Records); n > volumeFreeAllow {
		score -= float64(n-volumeFreeAllow) * volumePenalty
	}

	score -= float64(trail.CountBySeverity(SeverityCritical)) * criticalPenalty
	score -= float64(trail.CountBySeverity(SeverityHigh)) * highPenalty

	switch rate := trail.ImprovementRate(); {
	case rate > strongBonusRate:
		score += strongBonus
	case rate > moderateBonusRate:
		score += moderateBonus
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
