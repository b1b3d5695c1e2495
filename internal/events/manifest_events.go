package events

import (
	"time"

	"keyforge/internal/cid"
	"keyforge/internal/ids"
)

// ManifestInitialized records the start of a manifest collection pass.
type ManifestInitialized struct {
	eventMarker
	ManifestID    ids.ManifestID
	InitializedAt time.Time
}

func (ManifestInitialized) Kind() string { return "manifest.initialized" }

// ManifestCollecting records that source records are being gathered.
type ManifestCollecting struct {
	eventMarker
	ManifestID ids.ManifestID
	ItemCount  int
	StartedAt  time.Time
}

func (ManifestCollecting) Kind() string { return "manifest.collecting" }

// ManifestEncrypting records that the collected bundle is being sealed.
type ManifestEncrypting struct {
	eventMarker
	ManifestID ids.ManifestID
	StartedAt  time.Time
}

func (ManifestEncrypting) Kind() string { return "manifest.encrypting" }

// ManifestWriting records that ciphertext is being written to its
// destination.
type ManifestWriting struct {
	eventMarker
	ManifestID ids.ManifestID
	StartedAt  time.Time
}

func (ManifestWriting) Kind() string { return "manifest.writing" }

// ManifestCompleted records that the write finished without error.
type ManifestCompleted struct {
	eventMarker
	ManifestID        ids.ManifestID
	ManifestCID       cid.DomainCID
	CiphertextSHA256  string
	CompletedAt       time.Time
}

func (ManifestCompleted) Kind() string { return "manifest.completed" }

// ManifestVerified records that a post-write re-read confirmed the
// ciphertext hash, the terminal success state.
type ManifestVerified struct {
	eventMarker
	ManifestID ids.ManifestID
	VerifiedAt time.Time
}

func (ManifestVerified) Kind() string { return "manifest.verified" }

// ManifestFailed records terminal failure of a manifest export.
type ManifestFailed struct {
	eventMarker
	ManifestID ids.ManifestID
	Reason     string
	FailedAt   time.Time
}

func (ManifestFailed) Kind() string { return "manifest.failed" }
