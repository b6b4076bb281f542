package engine

import (
	"testing"
	"time"

	"github.com/pedscds/pedscds/internal/domain/assessment"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func arrestSnapshot() assessment.Snapshot {
	return assessment.Snapshot{
		HeartRate: intp(0),
		Profile:   assessment.Profile{WeightKg: 20, AgeYears: 5},
	}
}

func seizureSnapshot() assessment.Snapshot {
	return assessment.Snapshot{
		SeizureActivity: strp(assessment.SeizureActive),
		Profile:         assessment.Profile{WeightKg: 14, AgeYears: 3},
	}
}

func TestEvaluate_ActivatesAndRecordsHistory(t *testing.T) {
	st := Evaluate(NewState(), arrestSnapshot(), t0)

	if len(st.Active) != 1 || st.Active[0].EngineID != "cardiac-arrest" {
		t.Fatalf("expected cardiac-arrest active, got %+v", st.Active)
	}
	a := st.Active[0]
	if !a.TriggeredAt.Equal(t0) {
		t.Errorf("TriggeredAt = %v, want %v", a.TriggeredAt, t0)
	}
	if a.TriggeringSnapshot == nil || !a.TriggeringSnapshot.Pulseless() {
		t.Error("activation must capture the triggering snapshot")
	}
	if a.Cursor != 0 || len(a.CompletedActionIDs) != 0 {
		t.Errorf("new activation must start with no progress, got %+v", a)
	}
	if len(st.History) != 1 {
		t.Errorf("history length = %d, want 1", len(st.History))
	}
}

func TestEvaluate_IdempotentByEngineID(t *testing.T) {
	st := Evaluate(NewState(), arrestSnapshot(), t0)
	st = CompleteAction(st, "cardiac-arrest", "ca-start-compressions")

	st = Evaluate(st, arrestSnapshot(), t0.Add(time.Minute))

	if len(st.Active) != 1 {
		t.Fatalf("re-trigger must not duplicate: %d active", len(st.Active))
	}
	a := st.Active[0]
	if len(a.CompletedActionIDs) != 1 || a.CompletedActionIDs[0] != "ca-start-compressions" {
		t.Errorf("re-trigger must preserve progress, got %v", a.CompletedActionIDs)
	}
	if !a.TriggeredAt.Equal(t0) {
		t.Errorf("re-trigger must preserve the original trigger time, got %v", a.TriggeredAt)
	}
	if len(st.History) != 2 {
		t.Errorf("every evaluation appends to history, got %d entries", len(st.History))
	}
}

func TestEvaluate_NoAutomaticDeactivation(t *testing.T) {
	st := Evaluate(NewState(), seizureSnapshot(), t0)
	if len(st.Active) != 1 {
		t.Fatalf("expected status-epilepticus active")
	}

	// Seizure stops on the next assessment; the engine stays active.
	resolved := assessment.Snapshot{
		SeizureActivity: strp(assessment.SeizurePostictal),
		Profile:         assessment.Profile{WeightKg: 14, AgeYears: 3},
	}
	st = Evaluate(st, resolved, t0.Add(5*time.Minute))

	if st.ActiveActivation("status-epilepticus") == nil {
		t.Error("an assessment that no longer satisfies the trigger must not deactivate the engine")
	}
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	orig := Evaluate(NewState(), arrestSnapshot(), t0)
	activeBefore := len(orig.Active)
	historyBefore := len(orig.History)

	_ = Evaluate(orig, seizureSnapshot(), t0.Add(time.Minute))
	_ = CompleteAction(orig, "cardiac-arrest", "ca-start-compressions")
	_ = Deactivate(orig, "cardiac-arrest")

	if len(orig.Active) != activeBefore || len(orig.History) != historyBefore {
		t.Error("transitions must not mutate their input state")
	}
	if len(orig.Active[0].CompletedActionIDs) != 0 {
		t.Error("CompleteAction mutated the input state's activation")
	}
}

func TestCompleteAction_ProgressAndCompletion(t *testing.T) {
	st := Evaluate(NewState(), arrestSnapshot(), t0)
	def := Lookup("cardiac-arrest")

	for i, act := range def.Actions {
		st = CompleteAction(st, "cardiac-arrest", act.ID)
		if i < len(def.Actions)-1 {
			a := st.ActiveActivation("cardiac-arrest")
			if a == nil {
				t.Fatalf("engine left active set before completion at step %d", i)
			}
			if len(a.CompletedActionIDs) != i+1 {
				t.Errorf("step %d: completed count = %d", i, len(a.CompletedActionIDs))
			}
		}
	}

	if st.ActiveActivation("cardiac-arrest") != nil {
		t.Error("fully completed engine must leave the active set")
	}
	if len(st.Completed) != 1 || !st.Completed[0].Complete() {
		t.Errorf("expected one complete activation in completed set, got %+v", st.Completed)
	}
}

func TestCompleteAction_IdempotentAndCursorCapped(t *testing.T) {
	st := Evaluate(NewState(), arrestSnapshot(), t0)

	st = CompleteAction(st, "cardiac-arrest", "ca-start-compressions")
	st = CompleteAction(st, "cardiac-arrest", "ca-start-compressions")
	st = CompleteAction(st, "cardiac-arrest", "ca-start-compressions")

	a := st.ActiveActivation("cardiac-arrest")
	if len(a.CompletedActionIDs) != 1 {
		t.Errorf("repeat completion must be idempotent, got %v", a.CompletedActionIDs)
	}

	// Repeats still advance the cursor, but never past the last action.
	last := len(Lookup("cardiac-arrest").Actions) - 1
	for i := 0; i < 20; i++ {
		st = CompleteAction(st, "cardiac-arrest", "ca-bag-mask")
	}
	a = st.ActiveActivation("cardiac-arrest")
	if a.Cursor > last {
		t.Errorf("cursor %d exceeds last index %d", a.Cursor, last)
	}
}

func TestCompleteAction_InvalidInputsIgnored(t *testing.T) {
	st := Evaluate(NewState(), arrestSnapshot(), t0)

	before := st
	st = CompleteAction(st, "cardiac-arrest", "not-an-action")
	if len(st.ActiveActivation("cardiac-arrest").CompletedActionIDs) != 0 {
		t.Error("unknown action id must be ignored")
	}

	st = CompleteAction(before, "septic-shock", "ss-oxygen")
	if st.ActiveActivation("cardiac-arrest") == nil || len(st.Active) != 1 {
		t.Error("completing on an inactive engine must change nothing")
	}
}

func TestDeactivate_PreservesProgress(t *testing.T) {
	st := Evaluate(NewState(), arrestSnapshot(), t0)
	st = CompleteAction(st, "cardiac-arrest", "ca-start-compressions")
	st = CompleteAction(st, "cardiac-arrest", "ca-bag-mask")

	st = Deactivate(st, "cardiac-arrest")

	if st.ActiveActivation("cardiac-arrest") != nil {
		t.Fatal("deactivated engine must leave the active set")
	}
	if len(st.Completed) != 1 {
		t.Fatalf("expected one completed activation, got %d", len(st.Completed))
	}
	if got := len(st.Completed[0].CompletedActionIDs); got != 2 {
		t.Errorf("deactivation must preserve progress, got %d completed actions", got)
	}
}

func TestReactivate_ResetsProgress(t *testing.T) {
	st := Evaluate(NewState(), arrestSnapshot(), t0)
	st = CompleteAction(st, "cardiac-arrest", "ca-start-compressions")
	st = Deactivate(st, "cardiac-arrest")

	later := t0.Add(30 * time.Minute)
	st = Reactivate(st, "cardiac-arrest", arrestSnapshot(), later)

	a := st.ActiveActivation("cardiac-arrest")
	if a == nil {
		t.Fatal("expected cardiac-arrest active after reactivation")
	}
	if len(a.CompletedActionIDs) != 0 || a.Cursor != 0 {
		t.Errorf("reactivation must reset progress, got %+v", a)
	}
	if !a.TriggeredAt.Equal(later) {
		t.Errorf("reactivation must use a fresh trigger time, got %v", a.TriggeredAt)
	}
	if len(st.Completed) != 0 {
		t.Errorf("reactivated engine must leave the completed set, got %d", len(st.Completed))
	}
}

func TestReactivate_OnlyFromCompleted(t *testing.T) {
	st := Evaluate(NewState(), arrestSnapshot(), t0)

	// Active engine: no-op.
	next := Reactivate(st, "cardiac-arrest", arrestSnapshot(), t0.Add(time.Minute))
	if len(next.Active) != 1 || len(next.Completed) != 0 {
		t.Error("reactivating an active engine must change nothing")
	}

	// Never-triggered engine: no-op.
	next = Reactivate(st, "septic-shock", arrestSnapshot(), t0.Add(time.Minute))
	if next.ActiveActivation("septic-shock") != nil {
		t.Error("reactivating a never-triggered engine must change nothing")
	}
}

func TestPriorityQueue_Ordering(t *testing.T) {
	st := NewState()

	// Urgent engine triggers first, critical engines after it.
	dehydrated := assessment.Snapshot{
		CapillaryRefill: floatp(4),
		HeartRate:       intp(170),
		Profile:         assessment.Profile{WeightKg: 12, AgeYears: 2},
	}
	st = Evaluate(st, dehydrated, t0)
	if st.ActiveActivation("severe-dehydration") == nil {
		t.Fatal("expected severe-dehydration active")
	}

	st = Evaluate(st, seizureSnapshot(), t0.Add(time.Minute))
	st = Evaluate(st, arrestSnapshot(), t0.Add(2*time.Minute))

	q := PriorityQueue(st)
	if len(q) != 3 {
		t.Fatalf("queue length = %d, want 3", len(q))
	}
	if q[0].EngineID != "status-epilepticus" || q[1].EngineID != "cardiac-arrest" {
		t.Errorf("critical engines must come first in trigger order, got %s, %s",
			q[0].EngineID, q[1].EngineID)
	}
	if q[2].EngineID != "severe-dehydration" {
		t.Errorf("urgent engine must come last, got %s", q[2].EngineID)
	}
}

func TestView_Progress(t *testing.T) {
	st := Evaluate(NewState(), arrestSnapshot(), t0)
	st = CompleteAction(st, "cardiac-arrest", "ca-start-compressions")

	v := View(*st.ActiveActivation("cardiac-arrest"))
	if v.EngineName != "Cardiac Arrest" || v.Severity != SeverityCritical {
		t.Errorf("unexpected identity: %+v", v)
	}
	if v.CompletedCount != 1 || v.TotalActions != 5 {
		t.Errorf("progress = %d/%d, want 1/5", v.CompletedCount, v.TotalActions)
	}
	if v.ProgressPercent != 20 {
		t.Errorf("ProgressPercent = %v, want 20", v.ProgressPercent)
	}
	if v.CurrentAction == nil || v.CurrentAction.ID != "ca-bag-mask" {
		t.Errorf("CurrentAction = %+v, want ca-bag-mask", v.CurrentAction)
	}
	if v.NextAction == nil || v.NextAction.ID != "ca-attach-monitor" {
		t.Errorf("NextAction = %+v, want ca-attach-monitor", v.NextAction)
	}
}

func TestView_UnknownEngine(t *testing.T) {
	v := View(Activation{EngineID: "gone"})
	if v.EngineID != "gone" || v.EngineName != "" || v.TotalActions != 0 {
		t.Errorf("unknown engine must yield a minimal view, got %+v", v)
	}
}
