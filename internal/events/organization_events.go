package events

import (
	"time"

	"keyforge/internal/ids"
)

// OrganizationPlanned records creation of an organization record prior to
// activation.
type OrganizationPlanned struct {
	eventMarker
	OrgID     ids.OrgID
	Name      string
	PlannedAt time.Time
}

func (OrganizationPlanned) Kind() string { return "organization.planned" }

// OrganizationActivated records an organization entering active status.
type OrganizationActivated struct {
	eventMarker
	OrgID       ids.OrgID
	ActivatedAt time.Time
}

func (OrganizationActivated) Kind() string { return "organization.activated" }

// OrganizationDissolutionStarted records the beginning of an orderly
// wind-down.
type OrganizationDissolutionStarted struct {
	eventMarker
	OrgID     ids.OrgID
	Reason    string
	StartedAt time.Time
}

func (OrganizationDissolutionStarted) Kind() string { return "organization.dissolution.started" }

// OrganizationArchived records terminal retirement of an organization
// record.
type OrganizationArchived struct {
	eventMarker
	OrgID      ids.OrgID
	ArchivedAt time.Time
}

func (OrganizationArchived) Kind() string { return "organization.archived" }
