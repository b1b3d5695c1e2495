package crypto

// CryptoError enumerates the failure modes of key generation and signing.
type CryptoError struct {
	Kind   CryptoErrorKind
	Detail string
}

// CryptoErrorKind is the closed set of crypto failure kinds.
type CryptoErrorKind int

const (
	// KeyGenFailed means key material could not be produced from a seed.
	KeyGenFailed CryptoErrorKind = iota
	// SignatureFailed means a signing operation failed.
	SignatureFailed
	// VerifyFailed means a signature failed to verify.
	VerifyFailed
	// UnsupportedAlgorithm means the requested algorithm is not in the
	// enumerated set {Ed25519, ECDSAP256, RSA2048, RSA4096}.
	UnsupportedAlgorithm
	// MalformedCertificate means DER bytes could not be parsed as X.509.
	MalformedCertificate
)

func (k CryptoErrorKind) String() string {
	switch k {
	case KeyGenFailed:
		return "KeyGenFailed"
	case SignatureFailed:
		return "SignatureFailed"
	case VerifyFailed:
		return "VerifyFailed"
	case UnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case MalformedCertificate:
		return "MalformedCertificate"
	default:
		return "Unknown"
	}
}

// Error implements error.
func (e *CryptoError) Error() string {
	if e.Detail == "" {
		return "crypto: " + e.Kind.String()
	}
	return "crypto: " + e.Kind.String() + ": " + e.Detail
}

func newCryptoError(kind CryptoErrorKind, detail string) *CryptoError {
	return &CryptoError{Kind: kind, Detail: detail}
}

// CertVerifyErrorKind is the closed set of chain-verification failures.
type CertVerifyErrorKind int

const (
	// Expired means the certificate's validity window has passed t.
	Expired CertVerifyErrorKind = iota
	// NotYetValid means t precedes the certificate's NotBefore.
	NotYetValid
	// InvalidSignature means the signature does not verify against the
	// issuer's public key.
	InvalidSignature
	// UntrustedRoot means the root's fingerprint is absent from a
	// supplied trusted-root set.
	UntrustedRoot
	// RootNotSelfSigned means the terminal element of the chain is not
	// self-signed.
	RootNotSelfSigned
	// EmptyChain means the chain has no elements.
	EmptyChain
	// IssuerMismatch means a link's issuer DN does not equal the next
	// element's subject DN.
	IssuerMismatch
	// ChainUnsupportedAlgorithm means a link uses a signature algorithm
	// outside the supported set.
	ChainUnsupportedAlgorithm
	// ChainCryptoError wraps an underlying crypto failure.
	ChainCryptoError
)

func (k CertVerifyErrorKind) String() string {
	switch k {
	case Expired:
		return "Expired"
	case NotYetValid:
		return "NotYetValid"
	case InvalidSignature:
		return "InvalidSignature"
	case UntrustedRoot:
		return "UntrustedRoot"
	case RootNotSelfSigned:
		return "RootNotSelfSigned"
	case EmptyChain:
		return "EmptyChain"
	case IssuerMismatch:
		return "IssuerMismatch"
	case ChainUnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case ChainCryptoError:
		return "CryptoError"
	default:
		return "Unknown"
	}
}

// CertificateVerificationError is returned by CertificateChain.VerifyAt.
// For the temporal kinds (Expired, NotYetValid) NotAfter/NotBefore and
// Now carry the RFC 3339 instants that failed the comparison.
type CertificateVerificationError struct {
	Kind            CertVerifyErrorKind
	CertFingerprint string
	NotBefore       string
	NotAfter        string
	Now             string
	Detail          string
}

// Error implements error.
func (e *CertificateVerificationError) Error() string {
	if e.Detail == "" {
		return "certificate verification: " + e.Kind.String()
	}
	return "certificate verification: " + e.Kind.String() + ": " + e.Detail
}
