package events

import (
	"time"

	"keyforge/internal/ids"
)

// CertificateSelected records that an operator chose a certificate file
// to import onto a hardware token.
type CertificateSelected struct {
	eventMarker
	ImportID   ids.CertID
	SourcePath string
	SelectedAt time.Time
}

func (CertificateSelected) Kind() string { return "certificate-import.selected" }

// CertificateImportValidationStarted records that RFC 5280 validation of
// the selected certificate began.
type CertificateImportValidationStarted struct {
	eventMarker
	ImportID  ids.CertID
	StartedAt time.Time
}

func (CertificateImportValidationStarted) Kind() string {
	return "certificate-import.validation-started"
}

// CertificateImportValidated records that the selected certificate passed
// validation.
type CertificateImportValidated struct {
	eventMarker
	ImportID    ids.CertID
	ValidatedAt time.Time
}

func (CertificateImportValidated) Kind() string { return "certificate-import.validated" }

// CertificateImportValidationFailed records that the selected certificate
// failed validation.
type CertificateImportValidationFailed struct {
	eventMarker
	ImportID ids.CertID
	Reason   string
	FailedAt time.Time
}

func (CertificateImportValidationFailed) Kind() string {
	return "certificate-import.validation-failed"
}

// CertificateImportPinAwaited records that the import is paused pending
// the device PIN.
type CertificateImportPinAwaited struct {
	eventMarker
	ImportID ids.CertID
	AwaitedAt time.Time
}

func (CertificateImportPinAwaited) Kind() string { return "certificate-import.pin-awaited" }

// CertificateImportPinFailed records that the supplied PIN was rejected.
type CertificateImportPinFailed struct {
	eventMarker
	ImportID        ids.CertID
	RetriesRemaining int
	FailedAt        time.Time
}

func (CertificateImportPinFailed) Kind() string { return "certificate-import.pin-failed" }

// CertificateImportStarted records that the certificate write to the
// device began.
type CertificateImportStarted struct {
	eventMarker
	ImportID  ids.CertID
	Slot      string
	StartedAt time.Time
}

func (CertificateImportStarted) Kind() string { return "certificate-import.started" }

// CertificateImportFailed records that the device write failed.
type CertificateImportFailed struct {
	eventMarker
	ImportID ids.CertID
	Reason   string
	FailedAt time.Time
}

func (CertificateImportFailed) Kind() string { return "certificate-import.failed" }

// CertificateImported records terminal success of the import.
type CertificateImported struct {
	eventMarker
	ImportID   ids.CertID
	Slot       string
	ImportedAt time.Time
}

func (CertificateImported) Kind() string { return "certificate-import.imported" }
