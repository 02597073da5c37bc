package model

import "testing"

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, false},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, false},
		{"cancelled to cancelled", StatusCancelled, StatusCancelled, false},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"completed to confirmed", StatusCompleted, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestTerminalStates(t *testing.T) {
	if StatusPending.IsTerminal() || StatusConfirmed.IsTerminal() {
		t.Error("pending and confirmed must not be terminal")
	}
	if !StatusCancelled.IsTerminal() || !StatusCompleted.IsTerminal() {
		t.Error("cancelled and completed must be terminal")
	}
}

func TestActiveStatuses(t *testing.T) {
	if !StatusPending.IsActive() || !StatusConfirmed.IsActive() {
		t.Error("pending and confirmed must occupy their interval")
	}
	if StatusCancelled.IsActive() || StatusCompleted.IsActive() {
		t.Error("cancelled and completed must never block availability")
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "confirmed", "cancelled", "completed"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "PENDING", "done", "active"} {
		if _, err := ParseStatus(invalid); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", invalid)
		}
	}
}
