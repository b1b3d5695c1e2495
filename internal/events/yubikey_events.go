package events

import (
	"time"

	"keyforge/internal/ids"
)

// YubiKeyDetected records that a hardware token was enumerated by the
// hardware port.
type YubiKeyDetected struct {
	eventMarker
	Serial     ids.YubiKeySerial
	DetectedAt time.Time
}

func (YubiKeyDetected) Kind() string { return "yubikey.detected" }

// YubiKeyProvisioned records completion of PIN/management-key/slot setup.
type YubiKeyProvisioned struct {
	eventMarker
	Serial        ids.YubiKeySerial
	ProvisionedAt time.Time
}

func (YubiKeyProvisioned) Kind() string { return "yubikey.provisioned" }

// YubiKeyActivated records a provisioned token entering service.
type YubiKeyActivated struct {
	eventMarker
	Serial      ids.YubiKeySerial
	ActivatedAt time.Time
}

func (YubiKeyActivated) Kind() string { return "yubikey.activated" }

// YubiKeySuspended records a temporary hold on a token's use.
type YubiKeySuspended struct {
	eventMarker
	Serial      ids.YubiKeySerial
	Reason      string
	SuspendedAt time.Time
}

func (YubiKeySuspended) Kind() string { return "yubikey.suspended" }

// YubiKeyRetired records planned, non-terminal withdrawal of a token.
type YubiKeyRetired struct {
	eventMarker
	Serial    ids.YubiKeySerial
	RetiredAt time.Time
}

func (YubiKeyRetired) Kind() string { return "yubikey.retired" }

// YubiKeyLost records terminal loss or destruction of a token.
type YubiKeyLost struct {
	eventMarker
	Serial     ids.YubiKeySerial
	ReportedAt time.Time
}

func (YubiKeyLost) Kind() string { return "yubikey.lost" }
