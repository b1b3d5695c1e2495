package events

import (
	"time"

	"keyforge/internal/ids"
)

// KeyGenerated records that a key pair was derived for a given purpose tag.
type KeyGenerated struct {
	eventMarker
	KeyID      ids.KeyID
	Algorithm  string
	PurposeTag string
	PublicKey  []byte
	GeneratedAt time.Time
}

func (KeyGenerated) Kind() string { return "key.generated" }

// KeyActivated records that a generated key became the active signing key.
type KeyActivated struct {
	eventMarker
	KeyID       ids.KeyID
	ActivatedAt time.Time
}

func (KeyActivated) Kind() string { return "key.activated" }

// KeyRotationStarted records that a successor key generation began.
type KeyRotationStarted struct {
	eventMarker
	KeyID        ids.KeyID
	SuccessorID  ids.KeyID
	StartedAt    time.Time
}

func (KeyRotationStarted) Kind() string { return "key.rotation.started" }

// KeyRotated records that the successor key fully replaced the prior key.
type KeyRotated struct {
	eventMarker
	KeyID       ids.KeyID
	SuccessorID ids.KeyID
	RotatedAt   time.Time
}

func (KeyRotated) Kind() string { return "key.rotated" }

// KeyRevoked records that a key was permanently distrusted.
type KeyRevoked struct {
	eventMarker
	KeyID     ids.KeyID
	Reason    string
	RevokedAt time.Time
}

func (KeyRevoked) Kind() string { return "key.revoked" }

// KeySuspended records a temporary hold on a key's use.
type KeySuspended struct {
	eventMarker
	KeyID       ids.KeyID
	Reason      string
	SuspendedAt time.Time
}

func (KeySuspended) Kind() string { return "key.suspended" }

// KeyRecovered records that a suspended key was cleared for reuse.
type KeyRecovered struct {
	eventMarker
	KeyID       ids.KeyID
	RecoveredAt time.Time
}

func (KeyRecovered) Kind() string { return "key.recovered" }

// KeyArchived records terminal retirement of a key's lifecycle record.
type KeyArchived struct {
	eventMarker
	KeyID      ids.KeyID
	ArchivedAt time.Time
}

func (KeyArchived) Kind() string { return "key.archived" }
