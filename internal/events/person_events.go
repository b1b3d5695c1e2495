package events

import (
	"time"

	"keyforge/internal/ids"
)

// PersonInvited records that a person was invited into the organization.
type PersonInvited struct {
	eventMarker
	PersonID  ids.PersonID
	Name      string
	Email     string
	InvitedAt time.Time
}

func (PersonInvited) Kind() string { return "person.invited" }

// PersonActivated records a person's first successful activation.
type PersonActivated struct {
	eventMarker
	PersonID    ids.PersonID
	ActivatedAt time.Time
}

func (PersonActivated) Kind() string { return "person.activated" }

// PersonSuspended records a temporary hold on a person's access.
type PersonSuspended struct {
	eventMarker
	PersonID    ids.PersonID
	Reason      string
	SuspendedAt time.Time
}

func (PersonSuspended) Kind() string { return "person.suspended" }

// PersonDeactivated records revocation of a person's access short of
// departure.
type PersonDeactivated struct {
	eventMarker
	PersonID      ids.PersonID
	Reason        string
	DeactivatedAt time.Time
}

func (PersonDeactivated) Kind() string { return "person.deactivated" }

// PersonDeparted records terminal offboarding of a person.
type PersonDeparted struct {
	eventMarker
	PersonID   ids.PersonID
	DepartedAt time.Time
}

func (PersonDeparted) Kind() string { return "person.departed" }
