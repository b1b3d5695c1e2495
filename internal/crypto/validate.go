package crypto

import (
	"crypto/sha256"
	"crypto/x509"
	"fmt"
	"time"
)

// CertificateMetadata summarizes the fields of a parsed certificate that
// the rest of keyforge cares about, without exposing the raw x509.Certificate
// to every caller.
type CertificateMetadata struct {
	Fingerprint string
	Subject     string
	Issuer      string
	NotBefore   time.Time
	NotAfter    time.Time
	IsCA        bool
	PathLen     int
}

// ParseCertificate validates that der is well-formed X.509 (RFC 5280) and
// returns its metadata.
func ParseCertificate(der []byte) (*x509.Certificate, CertificateMetadata, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, CertificateMetadata{}, newCryptoError(MalformedCertificate, err.Error())
	}
	meta := CertificateMetadata{
		Fingerprint: Fingerprint(der),
		Subject:     cert.Subject.String(),
		Issuer:      cert.Issuer.String(),
		NotBefore:   cert.NotBefore,
		NotAfter:    cert.NotAfter,
		IsCA:        cert.IsCA,
		PathLen:     cert.MaxPathLen,
	}
	return cert, meta, nil
}

// Fingerprint returns the hex SHA-256 digest of a DER certificate, used as
// a stable identifier in error values and logs.
func Fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return fmt.Sprintf("%x", sum)
}

// CertificateChain is an ordered sequence of DER certificates, leaf first
// and self-signed root last.
type CertificateChain struct {
	DER [][]byte
}

// TrustPath is the parsed form of a successfully verified chain.
type TrustPath struct {
	Certificates []*x509.Certificate
}

// VerifyAt checks c against RFC 5280 chaining rules as of instant t:
// every element's validity window contains t, consecutive issuer/subject
// DNs match, each link's signature verifies against its issuer's public
// key, and the terminal element is self-signed.
func (c *CertificateChain) VerifyAt(t time.Time) (TrustPath, error) {
	if c == nil || len(c.DER) == 0 {
		return TrustPath{}, &CertificateVerificationError{Kind: EmptyChain}
	}

	certs := make([]*x509.Certificate, len(c.DER))
	for i, der := range c.DER {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return TrustPath{}, &CertificateVerificationError{
				Kind:   ChainCryptoError,
				Detail: err.Error(),
			}
		}
		certs[i] = cert
	}

	for i, cert := range certs {
		fp := Fingerprint(c.DER[i])
		if t.Before(cert.NotBefore) {
			return TrustPath{}, &CertificateVerificationError{
				Kind:            NotYetValid,
				CertFingerprint: fp,
				NotBefore:       cert.NotBefore.UTC().Format(time.RFC3339),
				Now:             t.UTC().Format(time.RFC3339),
			}
		}
		if t.After(cert.NotAfter) {
			return TrustPath{}, &CertificateVerificationError{
				Kind:            Expired,
				CertFingerprint: fp,
				NotAfter:        cert.NotAfter.UTC().Format(time.RFC3339),
				Now:             t.UTC().Format(time.RFC3339),
			}
		}
	}

	for i := 0; i < len(certs)-1; i++ {
		child, issuer := certs[i], certs[i+1]
		if child.Issuer.String() != issuer.Subject.String() {
			return TrustPath{}, &CertificateVerificationError{
				Kind:            IssuerMismatch,
				CertFingerprint: Fingerprint(c.DER[i]),
			}
		}
		if err := child.CheckSignatureFrom(issuer); err != nil {
			return TrustPath{}, &CertificateVerificationError{
				Kind:            InvalidSignature,
				CertFingerprint: Fingerprint(c.DER[i]),
				Detail:          err.Error(),
			}
		}
	}

	root := certs[len(certs)-1]
	if root.Subject.String() != root.Issuer.String() {
		return TrustPath{}, &CertificateVerificationError{
			Kind:            RootNotSelfSigned,
			CertFingerprint: Fingerprint(c.DER[len(c.DER)-1]),
		}
	}
	if err := root.CheckSignatureFrom(root); err != nil {
		return TrustPath{}, &CertificateVerificationError{
			Kind:            InvalidSignature,
			CertFingerprint: Fingerprint(c.DER[len(c.DER)-1]),
			Detail:          err.Error(),
		}
	}

	return TrustPath{Certificates: certs}, nil
}

// VerifyAgainstTrustedRoots is like VerifyAt but additionally requires the
// chain's root fingerprint to appear in trustedFingerprints.
func (c *CertificateChain) VerifyAgainstTrustedRoots(t time.Time, trustedFingerprints map[string]struct{}) (TrustPath, error) {
	path, err := c.VerifyAt(t)
	if err != nil {
		return TrustPath{}, err
	}
	rootFP := Fingerprint(c.DER[len(c.DER)-1])
	if _, ok := trustedFingerprints[rootFP]; !ok {
		return TrustPath{}, &CertificateVerificationError{
			Kind:            UntrustedRoot,
			CertFingerprint: rootFP,
		}
	}
	return path, nil
}
