package interview

import "testing"

func TestNewState(t *testing.T) {
	t.Parallel()

	state := NewState("Dana", "Backend Engineer", "Senior", "resume text")

	if state.ID == "" {
		t.Fatal("expected a session id")
	}

	if state.Stage != StageTechnical {
		t.Fatalf("expected initial stage technical, got %s", state.Stage)
	}

	if state.IsComplete || state.Evaluation != nil || state.CurrentQuestion != "" {
		t.Fatalf("unexpected initial state: %+v", state)
	}

	if state.TechnicalAsked+state.HRAsked+state.ManagerAsked != 0 {
		t.Fatal("expected zeroed counters")
	}

	other := NewState("Dana", "Backend Engineer", "Senior", "")
	if other.ID == state.ID {
		t.Fatal("expected unique session ids")
	}
}

func TestAsked(t *testing.T) {
	t.Parallel()

	state := NewState("Dana", "Backend Engineer", "Senior", "")
	state.TechnicalAsked = 3
	state.HRAsked = 2
	state.ManagerAsked = 1

	tests := []struct {
		stage    Stage
		expected int
	}{
		{StageTechnical, 3},
		{StageHR, 2},
		{StageManager, 1},
		{StageEvaluation, 0},
		{StageComplete, 0},
	}

	for _, tt := range tests {
		if got := state.Asked(tt.stage); got != tt.expected {
			t.Fatalf("Asked(%s) = %d, expected %d", tt.stage, got, tt.expected)
		}
	}
}
