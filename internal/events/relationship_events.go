package events

import (
	"time"

	"keyforge/internal/ids"
)

// RelationshipProposed records a candidate relationship between two
// published identifiers in the organization graph.
type RelationshipProposed struct {
	eventMarker
	RelationshipID   ids.RelationshipID
	FromPersonID     ids.PersonID
	ToOrgID          ids.OrgID
	RelationshipKind string
	ProposedAt       time.Time
}

func (RelationshipProposed) Kind() string { return "relationship.proposed" }

// RelationshipActivated records a proposed relationship entering force.
type RelationshipActivated struct {
	eventMarker
	RelationshipID ids.RelationshipID
	ActivatedAt    time.Time
}

func (RelationshipActivated) Kind() string { return "relationship.activated" }

// RelationshipSuspended records a temporary hold on a relationship.
type RelationshipSuspended struct {
	eventMarker
	RelationshipID ids.RelationshipID
	Reason         string
	SuspendedAt    time.Time
}

func (RelationshipSuspended) Kind() string { return "relationship.suspended" }

// RelationshipAmended records a data-preserving change to a relationship's
// terms.
type RelationshipAmended struct {
	eventMarker
	RelationshipID ids.RelationshipID
	Changes        string
	AmendedAt      time.Time
}

func (RelationshipAmended) Kind() string { return "relationship.amended" }

// RelationshipTerminated records terminal, operator-initiated closure.
type RelationshipTerminated struct {
	eventMarker
	RelationshipID ids.RelationshipID
	Reason         string
	TerminatedAt   time.Time
}

func (RelationshipTerminated) Kind() string { return "relationship.terminated" }

// RelationshipExpired records terminal closure by natural expiry.
type RelationshipExpired struct {
	eventMarker
	RelationshipID ids.RelationshipID
	ExpiredAt      time.Time
}

func (RelationshipExpired) Kind() string { return "relationship.expired" }

// DelegationGranted records a person delegating authority to act on their
// behalf within a relationship's scope.
type DelegationGranted struct {
	eventMarker
	RelationshipID ids.RelationshipID
	DelegateID     ids.PersonID
	Scope          string
	GrantedAt      time.Time
}

func (DelegationGranted) Kind() string { return "delegation.granted" }

// DelegationRevoked records withdrawal of a previously granted delegation.
type DelegationRevoked struct {
	eventMarker
	RelationshipID ids.RelationshipID
	DelegateID     ids.PersonID
	RevokedAt      time.Time
}

func (DelegationRevoked) Kind() string { return "delegation.revoked" }
