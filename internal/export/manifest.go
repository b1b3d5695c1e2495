// Package export implements the cold-start manifest writer: the one
// place this system writes outside its own event store.
// A Manifest collects every certificate, public key, slot binding,
// attestation, and org-graph snapshot produced by a bootstrap run; Writer
// encrypts its canonical serialization and writes it alongside an
// integrity sidecar.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"keyforge/internal/ids"
)

// Entry is one recovered credential or binding captured into a Manifest.
type Entry struct {
	Kind        string `json:"kind"`
	ReferenceID string `json:"reference_id"`
	Detail      string `json:"detail"`
}

// Encryption describes how a Manifest's ciphertext was produced.
type Encryption struct {
	KeyID     ids.KeyID `json:"key_id"`
	Algorithm string    `json:"algorithm"`
}

// Integrity describes the hash binding a Manifest's canonical bytes to a
// single root hash.
type Integrity struct {
	RootHash  string `json:"root_hash"`
	Algorithm string `json:"algorithm"`
}

// Manifest is the export artifact: the full set of material
// needed to recover an organization's PKI and hardware-token posture.
type Manifest struct {
	ManifestID ids.ManifestID `json:"manifest_id"`
	CreatedAt  time.Time      `json:"created_at"`
	Entries    []Entry        `json:"entries"`
	Encryption Encryption     `json:"encryption"`
	Integrity  Integrity      `json:"integrity"`
}

// ContentBytes returns the canonical content-only serialization of
// entries: the sorted kind+detail lines, deliberately excluding run-local
// reference ids and timestamps, so two bootstrap runs from the same
// inputs produce identical bytes even though every entity id is freshly
// minted per run. NATS account and user entries are the exception: their
// details, and their keys' purpose tags, embed the parent operator or
// account id, which is minted per run. Both the manifest CID and the
// integrity root hash are computed over these bytes.
func ContentBytes(entries []Entry) []byte {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Kind+"\x1f"+e.Detail)
	}
	sort.Strings(lines)
	var b []byte
	for _, l := range lines {
		b = append(b, l...)
		b = append(b, '\n')
	}
	return b
}

// ContentRootHash computes the manifest's integrity root hash over
// ContentBytes.
func ContentRootHash(entries []Entry) string {
	sum := sha256.Sum256(ContentBytes(entries))
	return hex.EncodeToString(sum[:])
}

// SchemaVersion is the sidecar's schema_version; bump it whenever the
// Manifest or Sidecar JSON shape changes in a way that breaks an older
// reader.
const SchemaVersion = 1

// Sidecar accompanies an encrypted Manifest on disk:
// {manifest_cid, ciphertext_sha256, created_at, schema_version}.
type Sidecar struct {
	ManifestCID      string    `json:"manifest_cid"`
	CiphertextSHA256 string    `json:"ciphertext_sha256"`
	CreatedAt        time.Time `json:"created_at"`
	SchemaVersion    int       `json:"schema_version"`
}
