// Package yubikey implements the YubiKey aggregate lifecycle machine:
// Detected → Provisioned → Active ⇄ Suspended → Retired,
// with Lost (terminal) reachable from any non-terminal state.
package yubikey

import (
	"time"

	"keyforge/internal/ids"
)

// Status is the closed set of lifecycle states a YubiKey device record
// passes through.
type Status int

const (
	Detected Status = iota
	Provisioned
	Active
	Suspended
	Retired
	Lost
)

func (s Status) String() string {
	switch s {
	case Detected:
		return "Detected"
	case Provisioned:
		return "Provisioned"
	case Active:
		return "Active"
	case Suspended:
		return "Suspended"
	case Retired:
		return "Retired"
	case Lost:
		return "Lost"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s has no outgoing transitions. Only Lost is
// terminal; Retired is a non-terminal rest state (a
// retired device can still be reported Lost later).
func (s Status) IsTerminal() bool {
	return s == Lost
}

// State is the YubiKey aggregate's current state.
type State struct {
	Serial        ids.YubiKeySerial
	Status        Status
	Firmware      string
	DetectedAt    time.Time
	ProvisionedAt time.Time
	ActivatedAt   time.Time
	SuspendedAt   time.Time
	RetiredAt     time.Time
	LostAt        time.Time
	Reason        string
}

// NewDetected constructs the initial Detected state for an enumerated
// device.
func NewDetected(serial ids.YubiKeySerial, firmware string, at time.Time) State {
	return State{Serial: serial, Status: Detected, Firmware: firmware, DetectedAt: at}
}
