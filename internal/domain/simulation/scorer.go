package simulation

import (
	"fmt"
	"time"
)

// Score replays a timed action log against a case's expected-action key.
// It is a pure reduction over the full log: every correct action performed
// is credited (plus its time bonus when performed inside the bonus
// window), every missed correct action is named, and every performed
// distractor deducts its penalty and is recorded as a critical error.
func Score(c *Case, start time.Time, performed []PerformedAction) Result {
	firstAt := make(map[string]time.Time, len(performed))
	for _, p := range performed {
		if _, ok := firstAt[p.ActionID]; !ok {
			firstAt[p.ActionID] = p.Timestamp
		}
	}

	result := Result{
		CaseID:         c.ID,
		MaxScore:       c.MaxScore(),
		MissedActions:  []string{},
		CriticalErrors: []string{},
		Feedback:       []string{},
	}

	for _, a := range c.CorrectActions {
		ts, done := firstAt[a.ID]
		if !done {
			result.MissedActions = append(result.MissedActions, a.Name)
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("Missed: %s (%d points)", a.Name, a.Points))
			continue
		}
		result.TotalScore += a.Points
		if a.TimeBonus > 0 && ts.Sub(start) < timeBonusWindow {
			result.TotalScore += a.TimeBonus
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("%s: +%d, time bonus +%d", a.Name, a.Points, a.TimeBonus))
		} else {
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("%s: +%d", a.Name, a.Points))
		}
	}

	for _, d := range c.Distractors {
		if _, done := firstAt[d.ID]; !done {
			continue
		}
		result.TotalScore -= d.Penalty
		result.CriticalErrors = append(result.CriticalErrors, d.Name)
		result.Feedback = append(result.Feedback,
			fmt.Sprintf("Incorrect: %s (-%d points)", d.Name, d.Penalty))
	}

	if result.MaxScore > 0 {
		result.PercentageScore = float64(result.TotalScore) / float64(result.MaxScore) * 100
	}
	if result.PercentageScore < 0 {
		result.PercentageScore = 0
	}
	if result.PercentageScore > 100 {
		result.PercentageScore = 100
	}
	result.Passed = result.PercentageScore >= c.PassingScore

	if len(performed) > 0 {
		var sum time.Duration
		first := performed[0].Timestamp
		for _, p := range performed {
			if p.Timestamp.Before(first) {
				first = p.Timestamp
			}
			sum += p.Timestamp.Sub(start)
		}
		result.TimeToFirstAction = first.Sub(start).Seconds()
		result.AverageResponseTime = (sum / time.Duration(len(performed))).Seconds()
	}

	return result
}
