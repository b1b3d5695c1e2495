// Package relationship implements the Relationship aggregate lifecycle
// machine: Proposed → Active → (Suspended ⇄ Active) →
// Terminated (terminal) | Expired (terminal), with an Amended self-loop on
// Active for data-preserving changes to a relationship's terms.
//
// Delegation (the DelegationGranted/DelegationRevoked events) is
// modeled as a sub-ledger on top of an Active or Suspended relationship
// rather than its own top-level state: granting or revoking delegated
// authority never itself changes the relationship's lifecycle status.
package relationship

import (
	"time"

	"keyforge/internal/ids"
)

// Status is the closed set of lifecycle states a Relationship passes
// through.
type Status int

const (
	Proposed Status = iota
	Active
	Suspended
	Amended
	Terminated
	Expired
)

func (s Status) String() string {
	switch s {
	case Proposed:
		return "Proposed"
	case Active:
		return "Active"
	case Suspended:
		return "Suspended"
	case Amended:
		return "Amended"
	case Terminated:
		return "Terminated"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Terminated || s == Expired
}

// Delegation records one grant of delegated authority within the scope of
// a relationship.
type Delegation struct {
	DelegateID ids.PersonID
	Scope      string
	GrantedAt  time.Time
	RevokedAt  time.Time
	Active     bool
}

// State is the Relationship aggregate's current state.
type State struct {
	RelationshipID ids.RelationshipID
	Status         Status
	FromPersonID   ids.PersonID
	ToOrgID        ids.OrgID
	Kind           string
	ProposedAt     time.Time
	ActivatedAt    time.Time
	SuspendedAt    time.Time
	AmendedAt      time.Time
	TerminatedAt   time.Time
	ExpiredAt      time.Time
	Reason         string
	Changes        string
	Delegations    []Delegation
}

// NewProposed constructs the initial Proposed state.
func NewProposed(id ids.RelationshipID, from ids.PersonID, to ids.OrgID, kind string, at time.Time) State {
	return State{
		RelationshipID: id,
		Status:         Proposed,
		FromPersonID:   from,
		ToOrgID:        to,
		Kind:           kind,
		ProposedAt:     at,
	}
}
