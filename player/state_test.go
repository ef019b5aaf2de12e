package player

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Idle, "Idle"},
		{Loading, "Loading"},
		{Ready, "Ready"},
		{Playing, "Playing"},
		{Paused, "Paused"},
		{Ended, "Ended"},
		{Error, "Error"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestState_Predicates(t *testing.T) {
	tests := []struct {
		state     State
		hasSource bool
		canPlay   bool
		canPause  bool
		canSeek   bool
	}{
		{Idle, false, false, false, false},
		{Loading, false, false, false, false},
		{Ready, true, true, false, true},
		{Playing, true, false, true, true},
		{Paused, true, true, false, true},
		{Ended, true, true, false, true},
		{Error, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.HasSource(); got != tt.hasSource {
				t.Errorf("HasSource() = %v, want %v", got, tt.hasSource)
			}
			if got := tt.state.CanPlay(); got != tt.canPlay {
				t.Errorf("CanPlay() = %v, want %v", got, tt.canPlay)
			}
			if got := tt.state.CanPause(); got != tt.canPause {
				t.Errorf("CanPause() = %v, want %v", got, tt.canPause)
			}
			if got := tt.state.CanSeek(); got != tt.canSeek {
				t.Errorf("CanSeek() = %v, want %v", got, tt.canSeek)
			}
		})
	}
}
