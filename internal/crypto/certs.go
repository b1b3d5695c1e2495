package crypto

import (
	stdcrypto "crypto"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"time"

	"golang.org/x/crypto/hkdf"
)

// CertParams carries the subject-specific fields callers supply for one
// certificate. Serial is optional; when nil a deterministic serial is
// derived from the subject DN and public key, so replaying a bootstrap
// reissues byte-identical certificates.
type CertParams struct {
	Subject     pkix.Name
	DNSNames    []string
	IPAddresses []string
	NotBefore   time.Time
	NotAfter    time.Time
	KeyUsage    x509.KeyUsage
	ExtKeyUsage []x509.ExtKeyUsage
	PathLen     int
	Serial      *big.Int
}

const (
	rootCAValidity         = 20 * 365 * 24 * time.Hour
	intermediateCAValidity = 3 * 365 * 24 * time.Hour
	serverCertValidity     = 365 * 24 * time.Hour
)

// RootCADefaults fills in the conventional lifetime and key usage for a
// self-signed root, leaving Subject for the caller to set.
func RootCADefaults(issuedAt time.Time) CertParams {
	return CertParams{
		NotBefore:   issuedAt,
		NotAfter:    issuedAt.Add(rootCAValidity),
		KeyUsage:    x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		PathLen:     1,
	}
}

// IntermediateCADefaults fills in the conventional lifetime and key usage
// for an issuer-signed intermediate. issuerPathLen is the issuing CA's own
// PathLen; the intermediate's PathLen must be strictly smaller.
func IntermediateCADefaults(issuedAt time.Time, issuerPathLen int) CertParams {
	return CertParams{
		NotBefore: issuedAt,
		NotAfter:  issuedAt.Add(intermediateCAValidity),
		KeyUsage:  x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		PathLen:   issuerPathLen - 1,
	}
}

// ServerCertDefaults fills in the conventional lifetime and key usage for
// a leaf server certificate.
func ServerCertDefaults(issuedAt time.Time) CertParams {
	return CertParams{
		NotBefore:   issuedAt,
		NotAfter:    issuedAt.Add(serverCertValidity),
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
}

// serialFor returns params.Serial when the caller set one, otherwise a
// positive 19-octet serial derived from the subject DN and the public
// key. 19 octets stays within RFC 5280's 20-octet ceiling, and the
// derivation makes the serial a pure function of the certificate's
// identity rather than of a per-run randomness source.
func serialFor(params CertParams, pub stdcrypto.PublicKey) (*big.Int, error) {
	if params.Serial != nil {
		return params.Serial, nil
	}
	spki, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, newCryptoError(KeyGenFailed, "serial: "+err.Error())
	}
	h := sha256.New()
	h.Write([]byte(params.Subject.String()))
	h.Write([]byte{0})
	h.Write(spki)
	s := new(big.Int).SetBytes(h.Sum(nil)[:19])
	if s.Sign() == 0 {
		s.SetInt64(1)
	}
	return s, nil
}

// signatureRand returns the randomness source for signing a certificate
// over subjectPub with issuer's key. It is a pure function of the two
// keys: ECDSA signing consumes the supplied reader to hedge its
// per-signature nonce, so a deterministic stream is what makes the
// resulting DER reproducible across runs (Ed25519 ignores the reader
// entirely, and RSA PKCS#1 v1.5 padding is already deterministic).
// Salting with the subject's public key gives every certificate a
// distinct stream under the same issuer.
func signatureRand(issuer KeyPair, subjectPub stdcrypto.PublicKey) (io.Reader, error) {
	issuerDER, err := x509.MarshalPKCS8PrivateKey(issuer.Private)
	if err != nil {
		return nil, newCryptoError(SignatureFailed, "issuer key: "+err.Error())
	}
	spki, err := x509.MarshalPKIXPublicKey(subjectPub)
	if err != nil {
		return nil, newCryptoError(SignatureFailed, "subject key: "+err.Error())
	}
	return signingReader{hkdf.New(sha256.New, issuerDER, spki, []byte("keyforge.certsign.v1"))}, nil
}

// signingReader answers one-byte reads without advancing the underlying
// stream. crypto/ecdsa reads a single byte from its reader at random
// before drawing nonce entropy; serving that byte from outside the
// stream keeps the entropy it then reads the same on every run.
type signingReader struct{ r io.Reader }

func (s signingReader) Read(p []byte) (int, error) {
	if len(p) == 1 {
		p[0] = 0
		return 1, nil
	}
	return s.r.Read(p)
}

// GenerateRootCA produces a self-signed CA certificate from kp.
func GenerateRootCA(kp KeyPair, params CertParams) ([]byte, error) {
	serial, err := serialFor(params, kp.Public)
	if err != nil {
		return nil, err
	}
	rng, err := signatureRand(kp, kp.Public)
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               params.Subject,
		NotBefore:             params.NotBefore,
		NotAfter:              params.NotAfter,
		KeyUsage:              params.KeyUsage,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLen:            params.PathLen,
		MaxPathLenZero:        params.PathLen == 0,
	}
	der, err := x509.CreateCertificate(rng, tmpl, tmpl, kp.Public, kp.Private)
	if err != nil {
		return nil, newCryptoError(SignatureFailed, err.Error())
	}
	return der, nil
}

// GenerateIntermediateCA produces an issuer-signed CA certificate from kp,
// chained under issuerCert/issuerKey.
func GenerateIntermediateCA(kp KeyPair, params CertParams, issuerCert *x509.Certificate, issuerKey KeyPair) ([]byte, error) {
	serial, err := serialFor(params, kp.Public)
	if err != nil {
		return nil, err
	}
	rng, err := signatureRand(issuerKey, kp.Public)
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               params.Subject,
		NotBefore:             params.NotBefore,
		NotAfter:              params.NotAfter,
		KeyUsage:              params.KeyUsage,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLen:            params.PathLen,
		MaxPathLenZero:        params.PathLen == 0,
	}
	der, err := x509.CreateCertificate(rng, tmpl, issuerCert, kp.Public, issuerKey.Private)
	if err != nil {
		return nil, newCryptoError(SignatureFailed, err.Error())
	}
	return der, nil
}

// GenerateCertificateForPublicKey produces a non-CA leaf certificate over
// a bare public key, chained under issuerCert/issuerKey. This is the
// issuance path for keys whose private half never leaves a hardware
// token: the device reports the public key it generated in a slot and
// the CA signs a certificate over it.
func GenerateCertificateForPublicKey(pub stdcrypto.PublicKey, params CertParams, issuerCert *x509.Certificate, issuerKey KeyPair) ([]byte, error) {
	serial, err := serialFor(params, pub)
	if err != nil {
		return nil, err
	}
	rng, err := signatureRand(issuerKey, pub)
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      params.Subject,
		DNSNames:     params.DNSNames,
		NotBefore:    params.NotBefore,
		NotAfter:     params.NotAfter,
		KeyUsage:     params.KeyUsage,
		ExtKeyUsage:  params.ExtKeyUsage,
		IsCA:         false,
	}
	der, err := x509.CreateCertificate(rng, tmpl, issuerCert, pub, issuerKey.Private)
	if err != nil {
		return nil, newCryptoError(SignatureFailed, err.Error())
	}
	return der, nil
}

// GenerateServerCertificate produces a non-CA leaf certificate from kp,
// chained under issuerCert/issuerKey.
func GenerateServerCertificate(kp KeyPair, params CertParams, issuerCert *x509.Certificate, issuerKey KeyPair) ([]byte, error) {
	serial, err := serialFor(params, kp.Public)
	if err != nil {
		return nil, err
	}
	rng, err := signatureRand(issuerKey, kp.Public)
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      params.Subject,
		DNSNames:     params.DNSNames,
		NotBefore:    params.NotBefore,
		NotAfter:     params.NotAfter,
		KeyUsage:     params.KeyUsage,
		ExtKeyUsage:  params.ExtKeyUsage,
		IsCA:         false,
	}
	der, err := x509.CreateCertificate(rng, tmpl, issuerCert, kp.Public, issuerKey.Private)
	if err != nil {
		return nil, newCryptoError(SignatureFailed, err.Error())
	}
	return der, nil
}
