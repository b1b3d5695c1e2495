// Package location implements the Location aggregate lifecycle machine:
// Proposed → Active → Deprecated → Decommissioned
// (terminal).
//
// The four location subtypes (Physical, Virtual,
// Logical, Hybrid) are a concern of internal/acl's form validation and
// translation, not of this lifecycle machine; Kind here only records which
// subtype produced the aggregate, for display and export purposes.
package location

import (
	"time"

	"keyforge/internal/ids"
)

// Kind is the location subtype validated by internal/acl.
type Kind int

const (
	Physical Kind = iota
	Virtual
	Logical
	Hybrid
)

func (k Kind) String() string {
	switch k {
	case Physical:
		return "Physical"
	case Virtual:
		return "Virtual"
	case Logical:
		return "Logical"
	case Hybrid:
		return "Hybrid"
	default:
		return "Unknown"
	}
}

// Status is the closed set of lifecycle states a Location passes through.
type Status int

const (
	Proposed Status = iota
	Active
	Deprecated
	Decommissioned
)

func (s Status) String() string {
	switch s {
	case Proposed:
		return "Proposed"
	case Active:
		return "Active"
	case Deprecated:
		return "Deprecated"
	case Decommissioned:
		return "Decommissioned"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Decommissioned
}

// State is the Location aggregate's current state.
type State struct {
	LocationID       ids.LocationID
	Status           Status
	Kind             Kind
	Name             string
	ProposedAt       time.Time
	ActivatedAt      time.Time
	DeprecatedAt     time.Time
	DecommissionedAt time.Time
	Reason           string
}

// NewProposed constructs the initial Proposed state.
func NewProposed(id ids.LocationID, kind Kind, name string, at time.Time) State {
	return State{LocationID: id, Status: Proposed, Kind: kind, Name: name, ProposedAt: at}
}
