// Package natsuser implements the NatsUser aggregate lifecycle machine:
// Planned → Active → Rotating → Active (self-loop) |
// Revoked → Archived (terminal).
//
// A NatsUser is the leaf credential of the messaging-domain trust chain:
// signed by its parent NatsAccount, it is what a connecting client or
// service actually presents.
package natsuser

import (
	"time"

	"keyforge/internal/ids"
)

// Status is the closed set of lifecycle states a NatsUser passes through.
type Status int

const (
	Planned Status = iota
	Active
	Rotating
	Revoked
	Archived
)

func (s Status) String() string {
	switch s {
	case Planned:
		return "Planned"
	case Active:
		return "Active"
	case Rotating:
		return "Rotating"
	case Revoked:
		return "Revoked"
	case Archived:
		return "Archived"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Archived
}

// State is the NatsUser aggregate's current state.
type State struct {
	UserID      ids.NatsUserID
	AccountID   ids.NatsAccountID
	Status      Status
	KeyID       ids.KeyID
	PlannedAt   time.Time
	ActivatedAt time.Time
	RotatedAt   time.Time
	RevokedAt   time.Time
	ArchivedAt  time.Time
	Reason      string
}

// NewPlanned constructs the initial Planned state under the given account.
func NewPlanned(id ids.NatsUserID, accountID ids.NatsAccountID, keyID ids.KeyID, at time.Time) State {
	return State{UserID: id, AccountID: accountID, Status: Planned, KeyID: keyID, PlannedAt: at}
}
