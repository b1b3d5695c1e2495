// Package manifest implements the Manifest aggregate lifecycle machine:
// Initializing → Collecting → Encrypting → Writing →
// Verified (terminal) | Failed (terminal).
//
// "Complete" and "Verified" are folded into one state: Writing
// transitions straight to Verified once the export workflow's own
// post-write re-read confirms the ciphertext hash, so a manifest is never
// reported complete without its integrity already checked.
package manifest

import (
	"time"

	"keyforge/internal/cid"
	"keyforge/internal/ids"
)

// Status is the closed set of lifecycle states a Manifest export passes
// through.
type Status int

const (
	Initializing Status = iota
	Collecting
	Encrypting
	Writing
	Verified
	Failed
)

func (s Status) String() string {
	switch s {
	case Initializing:
		return "Initializing"
	case Collecting:
		return "Collecting"
	case Encrypting:
		return "Encrypting"
	case Writing:
		return "Writing"
	case Verified:
		return "Verified"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Verified || s == Failed
}

// State is the Manifest aggregate's current state.
type State struct {
	ManifestID       ids.ManifestID
	Status           Status
	ItemCount        int
	InitializedAt    time.Time
	CollectingAt     time.Time
	EncryptingAt     time.Time
	WritingAt        time.Time
	ManifestCID      cid.DomainCID
	CiphertextSHA256 string
	VerifiedAt       time.Time
	FailedAt         time.Time
	Reason           string
}

// NewInitializing constructs the initial Initializing state.
func NewInitializing(id ids.ManifestID, at time.Time) State {
	return State{ManifestID: id, Status: Initializing, InitializedAt: at}
}
