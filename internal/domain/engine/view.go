package engine

// ActivationView is the presentation shape the API exposes for one
// activation: identity, severity, progress and the current/next steps.
type ActivationView struct {
	EngineID        string  `json:"engine_id"`
	EngineName      string  `json:"engine_name"`
	Severity        string  `json:"severity"`
	CompletedCount  int     `json:"completed_count"`
	TotalActions    int     `json:"total_actions"`
	ProgressPercent float64 `json:"progress_percent"`
	CurrentAction   *Action `json:"current_action,omitempty"`
	NextAction      *Action `json:"next_action,omitempty"`
}

// View projects an activation onto its presentation shape. Unknown engine
// ids produce a minimal view rather than an error.
func View(a Activation) ActivationView {
	v := ActivationView{EngineID: a.EngineID}
	def := a.Definition()
	if def == nil {
		return v
	}
	v.EngineName = def.Name
	v.Severity = def.Severity
	v.CompletedCount = len(a.CompletedActionIDs)
	v.TotalActions = len(def.Actions)
	if v.TotalActions > 0 {
		v.ProgressPercent = float64(v.CompletedCount) / float64(v.TotalActions) * 100
	}
	if a.Cursor >= 0 && a.Cursor < len(def.Actions) {
		cur := def.Actions[a.Cursor]
		v.CurrentAction = &cur
	}
	if next := a.Cursor + 1; next < len(def.Actions) {
		n := def.Actions[next]
		v.NextAction = &n
	}
	return v
}

// Views projects a slice of activations, preserving order.
func Views(as []Activation) []ActivationView {
	out := make([]ActivationView, 0, len(as))
	for _, a := range as {
		out = append(out, View(a))
	}
	return out
}
