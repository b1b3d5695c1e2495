package events

import (
	"time"

	"keyforge/internal/ids"
)

// LocationProposed records a candidate physical or logical location.
type LocationProposed struct {
	eventMarker
	LocationID ids.LocationID
	Name       string
	ProposedAt time.Time
}

func (LocationProposed) Kind() string { return "location.proposed" }

// LocationActivated records a location approved for use.
type LocationActivated struct {
	eventMarker
	LocationID  ids.LocationID
	ActivatedAt time.Time
}

func (LocationActivated) Kind() string { return "location.activated" }

// LocationDeprecated records a location marked for retirement.
type LocationDeprecated struct {
	eventMarker
	LocationID   ids.LocationID
	Reason       string
	DeprecatedAt time.Time
}

func (LocationDeprecated) Kind() string { return "location.deprecated" }

// LocationDecommissioned records terminal retirement of a location.
type LocationDecommissioned struct {
	eventMarker
	LocationID        ids.LocationID
	DecommissionedAt  time.Time
}

func (LocationDecommissioned) Kind() string { return "location.decommissioned" }
