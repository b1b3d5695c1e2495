package events

import (
	"time"

	"keyforge/internal/ids"
)

// NatsOperatorPlanned records creation of a NATS operator record.
type NatsOperatorPlanned struct {
	eventMarker
	OperatorID ids.NatsOperatorID
	Name       string
	PlannedAt  time.Time
}

func (NatsOperatorPlanned) Kind() string { return "nats-operator.planned" }

// NatsOperatorActivated records an operator's signing key entering service.
type NatsOperatorActivated struct {
	eventMarker
	OperatorID  ids.NatsOperatorID
	ActivatedAt time.Time
}

func (NatsOperatorActivated) Kind() string { return "nats-operator.activated" }

// NatsOperatorKeyRotated records replacement of an operator's signing key.
type NatsOperatorKeyRotated struct {
	eventMarker
	OperatorID ids.NatsOperatorID
	RotatedAt  time.Time
}

func (NatsOperatorKeyRotated) Kind() string { return "nats-operator.key-rotated" }

// NatsOperatorRevoked records permanent distrust of an operator.
type NatsOperatorRevoked struct {
	eventMarker
	OperatorID ids.NatsOperatorID
	Reason     string
	RevokedAt  time.Time
}

func (NatsOperatorRevoked) Kind() string { return "nats-operator.revoked" }

// NatsOperatorArchived records terminal retirement of an operator record.
type NatsOperatorArchived struct {
	eventMarker
	OperatorID ids.NatsOperatorID
	ArchivedAt time.Time
}

func (NatsOperatorArchived) Kind() string { return "nats-operator.archived" }

// NatsAccountPlanned records creation of a NATS account record.
type NatsAccountPlanned struct {
	eventMarker
	AccountID  ids.NatsAccountID
	OperatorID ids.NatsOperatorID
	Name       string
	PlannedAt  time.Time
}

func (NatsAccountPlanned) Kind() string { return "nats-account.planned" }

// NatsAccountActivated records an account's signing key entering service.
type NatsAccountActivated struct {
	eventMarker
	AccountID   ids.NatsAccountID
	ActivatedAt time.Time
}

func (NatsAccountActivated) Kind() string { return "nats-account.activated" }

// NatsAccountKeyRotated records replacement of an account's signing key.
type NatsAccountKeyRotated struct {
	eventMarker
	AccountID ids.NatsAccountID
	RotatedAt time.Time
}

func (NatsAccountKeyRotated) Kind() string { return "nats-account.key-rotated" }

// NatsAccountRevoked records permanent distrust of an account.
type NatsAccountRevoked struct {
	eventMarker
	AccountID ids.NatsAccountID
	Reason    string
	RevokedAt time.Time
}

func (NatsAccountRevoked) Kind() string { return "nats-account.revoked" }

// NatsAccountArchived records terminal retirement of an account record.
type NatsAccountArchived struct {
	eventMarker
	AccountID  ids.NatsAccountID
	ArchivedAt time.Time
}

func (NatsAccountArchived) Kind() string { return "nats-account.archived" }

// NatsUserPlanned records creation of a NATS user credential record.
type NatsUserPlanned struct {
	eventMarker
	UserID    ids.NatsUserID
	AccountID ids.NatsAccountID
	PlannedAt time.Time
}

func (NatsUserPlanned) Kind() string { return "nats-user.planned" }

// NatsUserActivated records a user credential entering service.
type NatsUserActivated struct {
	eventMarker
	UserID      ids.NatsUserID
	ActivatedAt time.Time
}

func (NatsUserActivated) Kind() string { return "nats-user.activated" }

// NatsUserKeyRotated records replacement of a user's credential key.
type NatsUserKeyRotated struct {
	eventMarker
	UserID    ids.NatsUserID
	RotatedAt time.Time
}

func (NatsUserKeyRotated) Kind() string { return "nats-user.key-rotated" }

// NatsUserRevoked records permanent distrust of a user credential.
type NatsUserRevoked struct {
	eventMarker
	UserID    ids.NatsUserID
	Reason    string
	RevokedAt time.Time
}

func (NatsUserRevoked) Kind() string { return "nats-user.revoked" }

// NatsUserArchived records terminal retirement of a user credential record.
type NatsUserArchived struct {
	eventMarker
	UserID     ids.NatsUserID
	ArchivedAt time.Time
}

func (NatsUserArchived) Kind() string { return "nats-user.archived" }
