package events

import (
	"time"

	"keyforge/internal/ids"
)

// PolicyDrafted records creation of a new policy draft.
type PolicyDrafted struct {
	eventMarker
	PolicyID  ids.PolicyID
	Name      string
	DraftedAt time.Time
}

func (PolicyDrafted) Kind() string { return "policy.drafted" }

// PolicyActivated records a draft policy entering force.
type PolicyActivated struct {
	eventMarker
	PolicyID    ids.PolicyID
	ActivatedAt time.Time
}

func (PolicyActivated) Kind() string { return "policy.activated" }

// PolicyDeprecated records a policy marked for replacement.
type PolicyDeprecated struct {
	eventMarker
	PolicyID     ids.PolicyID
	Reason       string
	DeprecatedAt time.Time
}

func (PolicyDeprecated) Kind() string { return "policy.deprecated" }

// PolicyRevoked records immediate withdrawal of a policy.
type PolicyRevoked struct {
	eventMarker
	PolicyID  ids.PolicyID
	Reason    string
	RevokedAt time.Time
}

func (PolicyRevoked) Kind() string { return "policy.revoked" }

// PolicyArchived records terminal retirement of a policy record.
type PolicyArchived struct {
	eventMarker
	PolicyID   ids.PolicyID
	ArchivedAt time.Time
}

func (PolicyArchived) Kind() string { return "policy.archived" }
