package events

import (
	"context"
	"time"

	"keyforge/internal/cid"
)

// StoreErrorKind is the closed set of event-store failures.
type StoreErrorKind int

const (
	// DuplicateEvent means store() was called for content already present.
	DuplicateEvent StoreErrorKind = iota
	// CidMismatch means a caller-supplied CID does not match recomputation.
	CidMismatch
	// IoError wraps an underlying filesystem failure.
	IoError
	// CorruptIndex means the temporal index or a stored envelope could not
	// be parsed.
	CorruptIndex
)

func (k StoreErrorKind) String() string {
	switch k {
	case DuplicateEvent:
		return "DuplicateEvent"
	case CidMismatch:
		return "CidMismatch"
	case IoError:
		return "IoError"
	case CorruptIndex:
		return "CorruptIndex"
	default:
		return "Unknown"
	}
}

// StoreError is returned by Store methods.
type StoreError struct {
	Kind        StoreErrorKind
	ExistingCID cid.DomainCID
	Detail      string
}

func (e *StoreError) Error() string {
	if e.Detail == "" {
		return "eventstore: " + e.Kind.String()
	}
	return "eventstore: " + e.Kind.String() + ": " + e.Detail
}

// Filter narrows a ListInTemporalOrder query.
type Filter struct {
	EventTypeGlob string
	AggregateID   string
	Since, Until  time.Time
	Limit, Offset int
	Descending    bool
}

// Store is the content-addressed event store port. The domain CID is a
// function of the wrapped event only; identical inner events deduplicate
// regardless of envelope metadata.
type Store interface {
	// Store persists envelope, failing with DuplicateEvent if its event's
	// content CID is already present.
	Store(ctx context.Context, envelope EventEnvelope) (cid.DomainCID, error)
	// StoreOrGet is the idempotent form of Store: it returns the existing
	// CID instead of erroring when the content is already present.
	StoreOrGet(ctx context.Context, envelope EventEnvelope) (cid.DomainCID, error)
	// Get returns the envelope stored under id, or ok=false if absent.
	Get(ctx context.Context, id cid.DomainCID) (EventEnvelope, bool, error)
	// Exists reports whether id is present without deserializing it.
	Exists(ctx context.Context, id cid.DomainCID) (bool, error)
	// Verify re-hashes the stored bytes for id and compares against id
	// itself. A false result indicates corruption.
	Verify(ctx context.Context, id cid.DomainCID) (bool, error)
	// ListInTemporalOrder yields envelopes matching filter in the order
	// recorded by the separate temporal index (CIDs alone are unordered).
	ListInTemporalOrder(ctx context.Context, filter Filter) ([]EventEnvelope, error)
}

// Rebuildable is implemented by projections that can be reconstructed by
// folding over a stream of envelopes. Apply must be total over every
// event kind the projection's bounded context declares: an event it does
// not recognize is a no-op, never a panic.
type Rebuildable interface {
	Apply(envelope EventEnvelope) error
}
