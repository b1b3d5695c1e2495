package events

import (
	"encoding/json"
	"fmt"
	"time"

	"keyforge/internal/cid"
	"keyforge/internal/ids"
)

// registry maps an event's Kind() to a zero-value constructor, used to
// recover the concrete type when deserializing an envelope from disk.
var registry = map[string]func() DomainEvent{}

func register(kind string, ctor func() DomainEvent) {
	registry[kind] = ctor
}

func init() {
	register("key.generated", func() DomainEvent { return &KeyGenerated{} })
	register("key.activated", func() DomainEvent { return &KeyActivated{} })
	register("key.rotation.started", func() DomainEvent { return &KeyRotationStarted{} })
	register("key.rotated", func() DomainEvent { return &KeyRotated{} })
	register("key.revoked", func() DomainEvent { return &KeyRevoked{} })
	register("key.suspended", func() DomainEvent { return &KeySuspended{} })
	register("key.recovered", func() DomainEvent { return &KeyRecovered{} })
	register("key.archived", func() DomainEvent { return &KeyArchived{} })

	register("certificate.requested", func() DomainEvent { return &CertificateRequested{} })
	register("certificate.issued", func() DomainEvent { return &CertificateIssued{} })
	register("certificate.activated", func() DomainEvent { return &CertificateActivated{} })
	register("certificate.expiring-soon", func() DomainEvent { return &CertificateExpiringSoonFlagged{} })
	register("certificate.expired", func() DomainEvent { return &CertificateExpired{} })
	register("certificate.revoked", func() DomainEvent { return &CertificateRevoked{} })
	register("certificate.suspended", func() DomainEvent { return &CertificateSuspended{} })
	register("certificate.archived", func() DomainEvent { return &CertificateArchived{} })

	register("policy.drafted", func() DomainEvent { return &PolicyDrafted{} })
	register("policy.activated", func() DomainEvent { return &PolicyActivated{} })
	register("policy.deprecated", func() DomainEvent { return &PolicyDeprecated{} })
	register("policy.revoked", func() DomainEvent { return &PolicyRevoked{} })
	register("policy.archived", func() DomainEvent { return &PolicyArchived{} })

	register("person.invited", func() DomainEvent { return &PersonInvited{} })
	register("person.activated", func() DomainEvent { return &PersonActivated{} })
	register("person.suspended", func() DomainEvent { return &PersonSuspended{} })
	register("person.deactivated", func() DomainEvent { return &PersonDeactivated{} })
	register("person.departed", func() DomainEvent { return &PersonDeparted{} })

	register("organization.planned", func() DomainEvent { return &OrganizationPlanned{} })
	register("organization.activated", func() DomainEvent { return &OrganizationActivated{} })
	register("organization.dissolution.started", func() DomainEvent { return &OrganizationDissolutionStarted{} })
	register("organization.archived", func() DomainEvent { return &OrganizationArchived{} })

	register("location.proposed", func() DomainEvent { return &LocationProposed{} })
	register("location.activated", func() DomainEvent { return &LocationActivated{} })
	register("location.deprecated", func() DomainEvent { return &LocationDeprecated{} })
	register("location.decommissioned", func() DomainEvent { return &LocationDecommissioned{} })

	register("relationship.proposed", func() DomainEvent { return &RelationshipProposed{} })
	register("relationship.activated", func() DomainEvent { return &RelationshipActivated{} })
	register("relationship.suspended", func() DomainEvent { return &RelationshipSuspended{} })
	register("relationship.amended", func() DomainEvent { return &RelationshipAmended{} })
	register("relationship.terminated", func() DomainEvent { return &RelationshipTerminated{} })
	register("relationship.expired", func() DomainEvent { return &RelationshipExpired{} })
	register("delegation.granted", func() DomainEvent { return &DelegationGranted{} })
	register("delegation.revoked", func() DomainEvent { return &DelegationRevoked{} })

	register("manifest.initialized", func() DomainEvent { return &ManifestInitialized{} })
	register("manifest.collecting", func() DomainEvent { return &ManifestCollecting{} })
	register("manifest.encrypting", func() DomainEvent { return &ManifestEncrypting{} })
	register("manifest.writing", func() DomainEvent { return &ManifestWriting{} })
	register("manifest.completed", func() DomainEvent { return &ManifestCompleted{} })
	register("manifest.verified", func() DomainEvent { return &ManifestVerified{} })
	register("manifest.failed", func() DomainEvent { return &ManifestFailed{} })

	register("yubikey.detected", func() DomainEvent { return &YubiKeyDetected{} })
	register("yubikey.provisioned", func() DomainEvent { return &YubiKeyProvisioned{} })
	register("yubikey.activated", func() DomainEvent { return &YubiKeyActivated{} })
	register("yubikey.suspended", func() DomainEvent { return &YubiKeySuspended{} })
	register("yubikey.retired", func() DomainEvent { return &YubiKeyRetired{} })
	register("yubikey.lost", func() DomainEvent { return &YubiKeyLost{} })

	register("nats-operator.planned", func() DomainEvent { return &NatsOperatorPlanned{} })
	register("nats-operator.activated", func() DomainEvent { return &NatsOperatorActivated{} })
	register("nats-operator.key-rotated", func() DomainEvent { return &NatsOperatorKeyRotated{} })
	register("nats-operator.revoked", func() DomainEvent { return &NatsOperatorRevoked{} })
	register("nats-operator.archived", func() DomainEvent { return &NatsOperatorArchived{} })

	register("nats-account.planned", func() DomainEvent { return &NatsAccountPlanned{} })
	register("nats-account.activated", func() DomainEvent { return &NatsAccountActivated{} })
	register("nats-account.key-rotated", func() DomainEvent { return &NatsAccountKeyRotated{} })
	register("nats-account.revoked", func() DomainEvent { return &NatsAccountRevoked{} })
	register("nats-account.archived", func() DomainEvent { return &NatsAccountArchived{} })

	register("nats-user.planned", func() DomainEvent { return &NatsUserPlanned{} })
	register("nats-user.activated", func() DomainEvent { return &NatsUserActivated{} })
	register("nats-user.key-rotated", func() DomainEvent { return &NatsUserKeyRotated{} })
	register("nats-user.revoked", func() DomainEvent { return &NatsUserRevoked{} })
	register("nats-user.archived", func() DomainEvent { return &NatsUserArchived{} })

	register("certificate-import.selected", func() DomainEvent { return &CertificateSelected{} })
	register("certificate-import.validation-started", func() DomainEvent { return &CertificateImportValidationStarted{} })
	register("certificate-import.validated", func() DomainEvent { return &CertificateImportValidated{} })
	register("certificate-import.validation-failed", func() DomainEvent { return &CertificateImportValidationFailed{} })
	register("certificate-import.pin-awaited", func() DomainEvent { return &CertificateImportPinAwaited{} })
	register("certificate-import.pin-failed", func() DomainEvent { return &CertificateImportPinFailed{} })
	register("certificate-import.started", func() DomainEvent { return &CertificateImportStarted{} })
	register("certificate-import.failed", func() DomainEvent { return &CertificateImportFailed{} })
	register("certificate-import.imported", func() DomainEvent { return &CertificateImported{} })

	register("export.planned", func() DomainEvent { return &ExportPlanned{} })
	register("export.generating", func() DomainEvent { return &ExportGenerating{} })
	register("export.completed", func() DomainEvent { return &ExportCompleted{} })
	register("export.failed", func() DomainEvent { return &ExportFailed{} })
}

// WireEnvelope is EventEnvelope's on-disk JSON shape: the event's kind is
// stored alongside its raw fields so DecodeEnvelope can recover the
// concrete type. Store adapters persist this shape rather than
// EventEnvelope directly, since DomainEvent is an interface.
type WireEnvelope struct {
	EventID       string          `json:"event_id"`
	CorrelationID string          `json:"correlation_id"`
	CausationID   *string         `json:"causation_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	EventKind     string          `json:"event_kind"`
	EventData     json.RawMessage `json:"event_data"`
	DomainCID     string          `json:"domain_cid"`
	InteropCID    string          `json:"interop_cid,omitempty"`
	SubjectPath   string          `json:"subject_path"`
	KDFParams     *KDFParams      `json:"kdf_params,omitempty"`
}

// MarshalEventContent serializes only the inner event, the canonical
// bytes the domain CID is computed over.
func MarshalEventContent(e DomainEvent) ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEventContent recovers a concrete DomainEvent from its kind tag
// and raw JSON fields.
func UnmarshalEventContent(kind string, data []byte) (DomainEvent, error) {
	ctor, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("events: unknown event kind %q", kind)
	}
	ev := ctor()
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("events: decode %q: %w", kind, err)
	}
	return ev, nil
}

// ToWire converts an envelope (with its content already computed) to its
// on-disk shape.
func ToWire(envelope EventEnvelope, content []byte) WireEnvelope {
	var causation *string
	if envelope.CausationID != nil {
		v := string(*envelope.CausationID)
		causation = &v
	}
	return WireEnvelope{
		EventID:       string(envelope.EventID),
		CorrelationID: string(envelope.CorrelationID),
		CausationID:   causation,
		Timestamp:     envelope.Timestamp,
		EventKind:     envelope.Event.Kind(),
		EventData:     content,
		DomainCID:     string(envelope.DomainCID),
		InteropCID:    string(envelope.InteropCID),
		SubjectPath:   envelope.SubjectPath,
		KDFParams:     envelope.KDFParams,
	}
}

// DecodeEnvelope recovers an EventEnvelope from its on-disk wire shape.
func DecodeEnvelope(wire WireEnvelope) (EventEnvelope, error) {
	ev, err := UnmarshalEventContent(wire.EventKind, wire.EventData)
	if err != nil {
		return EventEnvelope{}, err
	}
	var causation *ids.CausationID
	if wire.CausationID != nil {
		c := ids.CausationID(*wire.CausationID)
		causation = &c
	}
	return EventEnvelope{
		EventID:       ids.EventID(wire.EventID),
		CorrelationID: ids.CorrelationID(wire.CorrelationID),
		CausationID:   causation,
		Timestamp:     wire.Timestamp,
		Event:         ev,
		DomainCID:     cid.DomainCID(wire.DomainCID),
		InteropCID:    cid.InteropCID(wire.InteropCID),
		SubjectPath:   wire.SubjectPath,
		KDFParams:     wire.KDFParams,
	}, nil
}
