package events

import (
	"time"

	"keyforge/internal/cid"
	"keyforge/internal/ids"
)

// KDFParams records the key-derivation cost parameters in force when an
// envelope was written, so a later reader can re-derive and verify seeds
// even after the configured defaults change.
type KDFParams struct {
	Time        uint32 `json:"time"`
	MemoryKiB   uint32 `json:"memory_kib"`
	Parallelism uint8  `json:"parallelism"`
	KeyLen      uint32 `json:"key_len"`
}

// EventEnvelope wraps one DomainEvent with delivery and provenance
// metadata. The CID fields are a function of Event alone; two envelopes
// wrapping identical events in different flows have different
// EventID/CorrelationID but the same DomainCID.
type EventEnvelope struct {
	EventID       ids.EventID
	CorrelationID ids.CorrelationID
	CausationID   *ids.CausationID
	Timestamp     time.Time
	Event         DomainEvent
	DomainCID     cid.DomainCID
	InteropCID    cid.InteropCID
	SubjectPath   string
	KDFParams     *KDFParams
}

// Subject builds the routing subject path "keys.events.<kind>" for an
// event whose Kind() already encodes "<context>.<verb>" or
// "<entity>.<verb>" as its dotted form.
func Subject(e DomainEvent) string {
	return "keys.events." + e.Kind()
}
