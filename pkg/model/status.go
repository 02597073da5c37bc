package model

import "fmt"

// Status is the closed set of booking lifecycle states. A booking enters the
// system as Pending and only ever moves along the transition table below.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// transitions is the authoritative state machine. Cancelled and Completed are
// terminal. Pending may complete directly when it elapses unconfirmed.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the state machine admits s -> target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s admits no further transition.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsActive reports whether a booking in this status occupies its interval
// for availability purposes.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses are the statuses that block overlapping bookings.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}
