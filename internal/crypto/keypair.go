package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha256"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// Algorithm is the closed set of key algorithms keyforge can generate.
type Algorithm int

const (
	Ed25519 Algorithm = iota
	ECDSAP256
	RSA2048
	RSA4096
)

func (a Algorithm) String() string {
	switch a {
	case Ed25519:
		return "Ed25519"
	case ECDSAP256:
		return "ECDSAP256"
	case RSA2048:
		return "RSA2048"
	case RSA4096:
		return "RSA4096"
	default:
		return "Unknown"
	}
}

// KeyPair holds a generated private/public key along with the algorithm
// that produced it. Private is always one of ed25519.PrivateKey (value,
// not pointer, per stdlib convention), *ecdsa.PrivateKey, or
// *rsa.PrivateKey.
type KeyPair struct {
	Algorithm Algorithm
	Private   crypto.Signer
	Public    crypto.PublicKey
}

// GenerateKeyPair derives deterministic key material for alg from seed.
//
// The seed feeds an HKDF-SHA256 stream (RFC 5869) used as the randomness
// source for the underlying stdlib keygen function, so the same seed and
// algorithm always produce the same key — this is what lets a keyforge
// bootstrap be replayed from a passphrase alone.
//
// RSA generation searches for primes by consuming keygen-library-version-
// dependent amounts of the stream; an RSA key generated under one Go
// toolchain version is not guaranteed to reproduce bit-for-bit under a
// different one. Ed25519 and ECDSA-P256 key generation reads a fixed
// amount of the stream and does not share this caveat. Certificate
// *signing* has its own deterministic randomness source (signatureRand
// in certs.go), since ECDSA consumes the signer's reader for its
// per-signature nonce.
func GenerateKeyPair(seed Seed32, alg Algorithm) (KeyPair, error) {
	stream := deterministicReader(seed)

	switch alg {
	case Ed25519:
		pub, priv, err := ed25519.GenerateKey(stream)
		if err != nil {
			return KeyPair{}, newCryptoError(KeyGenFailed, err.Error())
		}
		return KeyPair{Algorithm: alg, Private: priv, Public: pub}, nil

	case ECDSAP256:
		// The scalar is taken straight from the stream (40 bytes reduced
		// into [1, N-1]) because ecdsa.GenerateKey may consume an extra
		// byte of its reader at random.
		curve := elliptic.P256()
		buf := make([]byte, 40)
		if _, err := io.ReadFull(stream, buf); err != nil {
			return KeyPair{}, newCryptoError(KeyGenFailed, err.Error())
		}
		nMinus1 := new(big.Int).Sub(curve.Params().N, big.NewInt(1))
		d := new(big.Int).SetBytes(buf)
		d.Mod(d, nMinus1).Add(d, big.NewInt(1))
		priv := &ecdsa.PrivateKey{D: d}
		priv.PublicKey.Curve = curve
		priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(d.FillBytes(make([]byte, 32)))
		return KeyPair{Algorithm: alg, Private: priv, Public: &priv.PublicKey}, nil

	case RSA2048:
		priv, err := rsa.GenerateKey(stream, 2048)
		if err != nil {
			return KeyPair{}, newCryptoError(KeyGenFailed, err.Error())
		}
		return KeyPair{Algorithm: alg, Private: priv, Public: &priv.PublicKey}, nil

	case RSA4096:
		priv, err := rsa.GenerateKey(stream, 4096)
		if err != nil {
			return KeyPair{}, newCryptoError(KeyGenFailed, err.Error())
		}
		return KeyPair{Algorithm: alg, Private: priv, Public: &priv.PublicKey}, nil

	default:
		return KeyPair{}, newCryptoError(UnsupportedAlgorithm, alg.String())
	}
}

// deterministicReader returns an io.Reader whose output is a pure function
// of seed, suitable as the rand.Reader argument to a stdlib keygen call.
func deterministicReader(seed Seed32) io.Reader {
	return hkdf.New(sha256.New, seed[:], nil, []byte("keyforge.keygen.v1"))
}
