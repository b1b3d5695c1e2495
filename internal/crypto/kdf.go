package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"

	"keyforge/internal/ids"
	"keyforge/internal/secret"
)

// KDFParams controls the memory-hard derivation of a bootstrap seed from a
// passphrase. The defaults favor offline, reproducible bootstrap runs over
// interactive-login latency: an operator runs this once per organization,
// not once per request.
type KDFParams struct {
	Time        uint32
	MemoryKiB   uint32
	Parallelism uint8
	KeyLen      uint32
}

// DefaultKDFParams returns the parameters keyforge uses unless an operator
// overrides them via configuration.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:        3,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLen:      32,
	}
}

// Seed32 is 32 bytes of derived key material, the common ancestor of every
// keypair generated for one (passphrase, org, purpose) triple.
type Seed32 [32]byte

// DeriveSeed derives a Seed32 from a passphrase, an organization id, and a
// purpose tag (e.g. "root-ca", "intermediate-ca", the serial of a YubiKey
// slot). Identical inputs always produce an identical seed: the salt is
// not random, it is the SHA-256 digest of orgID and purposeTag, so that a
// bootstrap can be replayed byte-for-byte from the same passphrase on a
// different machine.
//
// This is a deliberate departure from the usual practice of a random
// per-credential salt: keyforge's threat model treats the passphrase
// itself as the secret, and needs the derivation to be a pure function of
// its three inputs so a lost host never blocks a rebuild.
func DeriveSeed(passphrase *secret.Text, orgID ids.OrgID, purposeTag string, params KDFParams) (Seed32, error) {
	var out Seed32
	if passphrase == nil || passphrase.Len() == 0 {
		return out, newCryptoError(KeyGenFailed, "empty passphrase")
	}
	salt := saltFor(orgID, purposeTag)
	key := argon2.IDKey(passphrase.Reveal(), salt[:], params.Time, params.MemoryKiB, params.Parallelism, params.KeyLen)
	if len(key) != len(out) {
		return out, newCryptoError(KeyGenFailed, "unexpected argon2 output length")
	}
	copy(out[:], key)
	return out, nil
}

// saltFor computes the deterministic salt for a (org, purpose) pair.
func saltFor(orgID ids.OrgID, purposeTag string) [32]byte {
	h := sha256.New()
	h.Write([]byte(orgID))
	h.Write([]byte{'|'})
	h.Write([]byte(purposeTag))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
