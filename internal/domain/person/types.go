// Package person implements the Person aggregate lifecycle machine:
// Invited → Active → Suspended → Deactivated → Departed
// (terminal).
package person

import (
	"time"

	"keyforge/internal/ids"
)

// Status is the closed set of lifecycle states a Person passes through.
type Status int

const (
	Invited Status = iota
	Active
	Suspended
	Deactivated
	Departed
)

func (s Status) String() string {
	switch s {
	case Invited:
		return "Invited"
	case Active:
		return "Active"
	case Suspended:
		return "Suspended"
	case Deactivated:
		return "Deactivated"
	case Departed:
		return "Departed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Departed
}

// State is the Person aggregate's current state.
type State struct {
	PersonID      ids.PersonID
	Status        Status
	Name          string
	Email         string
	InvitedAt     time.Time
	ActivatedAt   time.Time
	SuspendedAt   time.Time
	DeactivatedAt time.Time
	DepartedAt    time.Time
	Reason        string
}

// NewInvited constructs the initial Invited state.
func NewInvited(id ids.PersonID, name, email string, at time.Time) State {
	return State{PersonID: id, Status: Invited, Name: name, Email: email, InvitedAt: at}
}
