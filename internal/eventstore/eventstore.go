// Package eventstore provides an afero-backed implementation of
// events.Store matching the on-disk layout:
//
//	events/
//	  by_cid/
//	    <cid>.json   one envelope per file, write-once
//	  index.json     append-only temporal index [{cid, timestamp}]
package eventstore

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"keyforge/internal/cid"
	"keyforge/internal/events"
)

const (
	byCIDDir  = "by_cid"
	indexFile = "index.json"
)

// indexEntry is one line of the temporal index.
type indexEntry struct {
	CID       string    `json:"cid"`
	Timestamp time.Time `json:"timestamp"`
}

// FileStore is a content-addressed event store rooted at a directory on
// an afero.Fs. It serializes all writes through a mutex: the orchestrator
// is the sole writer, but Verify and List may run concurrently with it.
type FileStore struct {
	fs   afero.Fs
	root string
	mu   sync.Mutex
}

// New returns a FileStore rooted at root on fs. The by_cid directory and
// an empty index are created if absent.
func New(fs afero.Fs, root string) (*FileStore, error) {
	s := &FileStore{fs: fs, root: root}
	if err := s.fs.MkdirAll(filepath.Join(root, byCIDDir), 0o755); err != nil {
		return nil, &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	if _, err := s.fs.Stat(s.indexPath()); err != nil {
		if err := afero.WriteFile(s.fs, s.indexPath(), []byte("[]"), 0o644); err != nil {
			return nil, &events.StoreError{Kind: events.IoError, Detail: err.Error()}
		}
	}
	return s, nil
}

var _ events.Store = (*FileStore)(nil)

func (s *FileStore) indexPath() string {
	return filepath.Join(s.root, indexFile)
}

func (s *FileStore) cidPath(c cid.DomainCID) string {
	return filepath.Join(s.root, byCIDDir, sanitizeCID(string(c))+".json")
}

func sanitizeCID(c string) string {
	return strings.ReplaceAll(c, ":", "_")
}

// Store persists envelope, failing with DuplicateEvent if its content CID
// is already present.
func (s *FileStore) Store(ctx context.Context, envelope events.EventEnvelope) (cid.DomainCID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, domainCID, err := s.contentAndCID(envelope)
	if err != nil {
		return "", err
	}
	exists, err := afero.Exists(s.fs, s.cidPath(domainCID))
	if err != nil {
		return "", &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	if exists {
		return "", &events.StoreError{Kind: events.DuplicateEvent, ExistingCID: domainCID}
	}
	return s.writeLocked(envelope, domainCID, content)
}

// StoreOrGet is the idempotent form of Store.
func (s *FileStore) StoreOrGet(ctx context.Context, envelope events.EventEnvelope) (cid.DomainCID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, domainCID, err := s.contentAndCID(envelope)
	if err != nil {
		return "", err
	}
	exists, err := afero.Exists(s.fs, s.cidPath(domainCID))
	if err != nil {
		return "", &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	if exists {
		return domainCID, nil
	}
	return s.writeLocked(envelope, domainCID, content)
}

func (s *FileStore) contentAndCID(envelope events.EventEnvelope) ([]byte, cid.DomainCID, error) {
	content, err := events.MarshalEventContent(envelope.Event)
	if err != nil {
		return nil, "", &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	return content, cid.Domain(content), nil
}

// writeLocked assumes s.mu is held and the CID path does not yet exist.
func (s *FileStore) writeLocked(envelope events.EventEnvelope, domainCID cid.DomainCID, content []byte) (cid.DomainCID, error) {
	envelope.DomainCID = domainCID
	wire := events.ToWire(envelope, content)

	bytes, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return "", &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	if err := afero.WriteFile(s.fs, s.cidPath(domainCID), bytes, 0o644); err != nil {
		return "", &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	if err := s.appendIndexLocked(domainCID, envelope.Timestamp); err != nil {
		return "", err
	}
	return domainCID, nil
}

func (s *FileStore) appendIndexLocked(c cid.DomainCID, ts time.Time) error {
	entries, err := s.readIndexLocked()
	if err != nil {
		return err
	}
	entries = append(entries, indexEntry{CID: string(c), Timestamp: ts})
	bytes, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	if err := afero.WriteFile(s.fs, s.indexPath(), bytes, 0o644); err != nil {
		return &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	return nil
}

func (s *FileStore) readIndexLocked() ([]indexEntry, error) {
	raw, err := afero.ReadFile(s.fs, s.indexPath())
	if err != nil {
		return nil, &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	var entries []indexEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &events.StoreError{Kind: events.CorruptIndex, Detail: err.Error()}
	}
	return entries, nil
}

func (s *FileStore) readWire(id cid.DomainCID) (events.WireEnvelope, error) {
	raw, err := afero.ReadFile(s.fs, s.cidPath(id))
	if err != nil {
		return events.WireEnvelope{}, &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	var wire events.WireEnvelope
	if err := json.Unmarshal(raw, &wire); err != nil {
		return events.WireEnvelope{}, &events.StoreError{Kind: events.CorruptIndex, Detail: err.Error()}
	}
	return wire, nil
}

// Get returns the envelope stored under id, or ok=false if absent.
func (s *FileStore) Get(ctx context.Context, id cid.DomainCID) (events.EventEnvelope, bool, error) {
	wire, err := s.readWire(id)
	if err != nil {
		if serr, ok := err.(*events.StoreError); ok && serr.Kind == events.IoError {
			return events.EventEnvelope{}, false, nil
		}
		return events.EventEnvelope{}, false, err
	}
	env, err := events.DecodeEnvelope(wire)
	if err != nil {
		return events.EventEnvelope{}, false, err
	}
	return env, true, nil
}

// Exists reports whether id is present without deserializing it.
func (s *FileStore) Exists(ctx context.Context, id cid.DomainCID) (bool, error) {
	ok, err := afero.Exists(s.fs, s.cidPath(id))
	if err != nil {
		return false, &events.StoreError{Kind: events.IoError, Detail: err.Error()}
	}
	return ok, nil
}

// Verify re-hashes the stored bytes for id and compares against id itself.
// The file is written indented, so the stored event_data is compacted
// back to the canonical form the CID was computed over before hashing.
func (s *FileStore) Verify(ctx context.Context, id cid.DomainCID) (bool, error) {
	wire, err := s.readWire(id)
	if err != nil {
		return false, err
	}
	var content bytes.Buffer
	if err := json.Compact(&content, wire.EventData); err != nil {
		return false, &events.StoreError{Kind: events.CorruptIndex, Detail: err.Error()}
	}
	return cid.Verify(content.Bytes(), id), nil
}

// ListInTemporalOrder yields envelopes matching filter in temporal-index
// order.
func (s *FileStore) ListInTemporalOrder(ctx context.Context, filter events.Filter) ([]events.EventEnvelope, error) {
	s.mu.Lock()
	entries, err := s.readIndexLocked()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if filter.Descending {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	var out []events.EventEnvelope
	for _, e := range entries {
		if !filter.Since.IsZero() && e.Timestamp.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && e.Timestamp.After(filter.Until) {
			continue
		}
		wire, err := s.readWire(cid.DomainCID(e.CID))
		if err != nil {
			return nil, err
		}
		// Aggregate ids appear verbatim inside the event's canonical JSON,
		// so containment over the raw content selects every event touching
		// that aggregate without deserializing first.
		if filter.AggregateID != "" && !strings.Contains(string(wire.EventData), filter.AggregateID) {
			continue
		}
		env, err := events.DecodeEnvelope(wire)
		if err != nil {
			return nil, err
		}
		if filter.EventTypeGlob != "" && !globMatch(filter.EventTypeGlob, env.Event.Kind()) {
			continue
		}
		out = append(out, env)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// globMatch supports a single trailing "*" wildcard, sufficient for the
// "<context>.*" filters the orchestrator issues.
func globMatch(pattern, s string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(s, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == s
}
