// Package cid computes the two content-identifier forms keyforge uses.
//
// A CID is a deterministic hash of a canonical serialization, generated
// from the inner content only — never from envelope metadata such as a
// timestamp or correlation id. Two forms exist:
//
//   - Domain: a Blake3-256 digest, used internally by the event store for
//     deduplication and integrity verification. Fast, and keeps the event
//     store independent of any external content-addressing ecosystem.
//   - Interop: a SHA-256 digest wrapped as a CIDv1 (raw codec), used
//     wherever an envelope needs to interoperate with IPLD-aware tooling.
package cid

import (
	"crypto/sha256"
	"fmt"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/zeebo/blake3"
)

// DomainCID is a Blake3-256 digest of canonical content, rendered as a
// lowercase hex string prefixed with its algorithm tag so two CID forms
// computed over the same bytes are never confused for one another.
type DomainCID string

// InteropCID is a CIDv1 (raw codec, sha2-256 multihash) rendered as its
// canonical string form.
type InteropCID string

// Domain computes the Blake3-256 domain CID of b.
func Domain(b []byte) DomainCID {
	sum := blake3.Sum256(b)
	return DomainCID(fmt.Sprintf("blake3-256:%x", sum))
}

// Interop computes the SHA-256 interoperable CID of b, wrapped as a
// CIDv1 raw-codec multihash.
func Interop(b []byte) (InteropCID, error) {
	digest := sha256.Sum256(b)
	mh, err := multihash.Encode(digest[:], multihash.SHA2_256)
	if err != nil {
		return "", fmt.Errorf("cid: encode multihash: %w", err)
	}
	c := gocid.NewCidV1(gocid.Raw, mh)
	return InteropCID(c.String()), nil
}

// Verify recomputes the domain CID of b and reports whether it matches
// want. A false result on previously stored bytes indicates corruption;
// callers are expected to treat it as fatal, this function only reports
// the comparison.
func Verify(b []byte, want DomainCID) bool {
	return Domain(b) == want
}
