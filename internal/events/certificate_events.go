package events

import (
	"time"

	"keyforge/internal/ids"
)

// CertificateRequested records a pending certificate issuance request.
type CertificateRequested struct {
	eventMarker
	CertID      ids.CertID
	KeyID       ids.KeyID
	Subject     string
	RequestedAt time.Time
}

func (CertificateRequested) Kind() string { return "certificate.requested" }

// CertificateIssued records that a certificate was generated and signed.
type CertificateIssued struct {
	eventMarker
	CertID    ids.CertID
	DER       []byte
	IssuerID  ids.CertID
	NotBefore time.Time
	NotAfter  time.Time
	IssuedAt  time.Time
}

func (CertificateIssued) Kind() string { return "certificate.issued" }

// CertificateActivated records that an issued certificate entered service.
type CertificateActivated struct {
	eventMarker
	CertID      ids.CertID
	ActivatedAt time.Time
}

func (CertificateActivated) Kind() string { return "certificate.activated" }

// CertificateExpiringSoonFlagged records that a certificate crossed the
// configured expiry warning threshold.
type CertificateExpiringSoonFlagged struct {
	eventMarker
	CertID    ids.CertID
	NotAfter  time.Time
	FlaggedAt time.Time
}

func (CertificateExpiringSoonFlagged) Kind() string { return "certificate.expiring-soon" }

// CertificateExpired records that a certificate's validity window closed.
type CertificateExpired struct {
	eventMarker
	CertID    ids.CertID
	ExpiredAt time.Time
}

func (CertificateExpired) Kind() string { return "certificate.expired" }

// CertificateRevoked records permanent distrust of a certificate.
type CertificateRevoked struct {
	eventMarker
	CertID    ids.CertID
	Reason    string
	RevokedAt time.Time
}

func (CertificateRevoked) Kind() string { return "certificate.revoked" }

// CertificateSuspended records a temporary hold on a certificate.
type CertificateSuspended struct {
	eventMarker
	CertID      ids.CertID
	Reason      string
	SuspendedAt time.Time
}

func (CertificateSuspended) Kind() string { return "certificate.suspended" }

// CertificateArchived records terminal retirement of a certificate record.
type CertificateArchived struct {
	eventMarker
	CertID     ids.CertID
	ArchivedAt time.Time
}

func (CertificateArchived) Kind() string { return "certificate.archived" }
