package projection

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"

	"keyforge/internal/events"
	"keyforge/internal/eventstore"
	"keyforge/internal/ids"
)

var at = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func envelope(ev events.DomainEvent) events.EventEnvelope {
	return events.EventEnvelope{
		EventID:       ids.NewEventID(),
		CorrelationID: ids.NewCorrelationID(),
		Timestamp:     at,
		Event:         ev,
		SubjectPath:   events.Subject(ev),
	}
}

// TestReplayMatchesLiveFold persists a mixed event stream, folds it live,
// then rebuilds a second projection from the store's temporal index and
// compares canonical bytes. The two must be identical: a projection is a
// pure function of the events, nothing else.
func TestReplayMatchesLiveFold(t *testing.T) {
	ctx := context.Background()
	store, err := eventstore.New(afero.NewMemMapFs(), "/events")
	if err != nil {
		t.Fatalf("eventstore.New: %v", err)
	}

	personID := ids.NewPersonID()
	orgID := ids.NewOrgID()
	keyID := ids.NewKeyID()
	certID := ids.NewCertID()
	serial := ids.YubiKeySerial("17504321")

	stream := []events.DomainEvent{
		&events.OrganizationPlanned{OrgID: orgID, Name: "Acme", PlannedAt: at},
		&events.OrganizationActivated{OrgID: orgID, ActivatedAt: at.Add(time.Minute)},
		&events.PersonInvited{PersonID: personID, Name: "Ada Lovelace", Email: "ada@example.org", InvitedAt: at.Add(2 * time.Minute)},
		&events.PersonActivated{PersonID: personID, ActivatedAt: at.Add(3 * time.Minute)},
		&events.KeyGenerated{KeyID: keyID, Algorithm: "Ed25519", PurposeTag: "root-ca", PublicKey: []byte{1, 2, 3}, GeneratedAt: at.Add(4 * time.Minute)},
		&events.KeyActivated{KeyID: keyID, ActivatedAt: at.Add(5 * time.Minute)},
		&events.CertificateRequested{CertID: certID, KeyID: keyID, Subject: "CN=Acme", RequestedAt: at.Add(6 * time.Minute)},
		&events.CertificateIssued{CertID: certID, DER: []byte{4, 5, 6}, IssuerID: certID, NotBefore: at, NotAfter: at.AddDate(20, 0, 0), IssuedAt: at.Add(7 * time.Minute)},
		&events.CertificateActivated{CertID: certID, ActivatedAt: at.Add(8 * time.Minute)},
		&events.YubiKeyDetected{Serial: serial, DetectedAt: at.Add(9 * time.Minute)},
		&events.YubiKeyProvisioned{Serial: serial, ProvisionedAt: at.Add(10 * time.Minute)},
	}

	live := New()
	for i, ev := range stream {
		env := envelope(ev)
		env.Timestamp = at.Add(time.Duration(i) * time.Minute)
		if _, err := store.StoreOrGet(ctx, env); err != nil {
			t.Fatalf("StoreOrGet[%d]: %v", i, err)
		}
		if err := live.Apply(env); err != nil {
			t.Fatalf("Apply[%d]: %v", i, err)
		}
	}

	replayed, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	liveJSON, err := live.CanonicalJSON()
	if err != nil {
		t.Fatalf("CanonicalJSON(live): %v", err)
	}
	replayJSON, err := replayed.CanonicalJSON()
	if err != nil {
		t.Fatalf("CanonicalJSON(replayed): %v", err)
	}
	if !bytes.Equal(liveJSON, replayJSON) {
		t.Fatalf("replayed projection differs from live fold:\nlive:   %s\nreplay: %s", liveJSON, replayJSON)
	}
	if len(replayed.Persons) != 1 || len(replayed.Keys) != 1 || len(replayed.Certificates) != 1 {
		t.Fatalf("replayed projection row counts wrong: %+v", replayed)
	}
	if replayed.Persons[string(personID)].Status != "Active" {
		t.Fatalf("person status = %q, want Active", replayed.Persons[string(personID)].Status)
	}
}

// TestDuplicateSubmitProjectsOnePerson stores the same PersonInvited
// content twice. The store deduplicates by content CID, and the rebuilt
// projection holds exactly one person.
func TestDuplicateSubmitProjectsOnePerson(t *testing.T) {
	ctx := context.Background()
	store, err := eventstore.New(afero.NewMemMapFs(), "/events")
	if err != nil {
		t.Fatalf("eventstore.New: %v", err)
	}

	ev := &events.PersonInvited{PersonID: ids.NewPersonID(), Name: "Grace Hopper", Email: "grace@example.org", InvitedAt: at}
	c1, err := store.StoreOrGet(ctx, envelope(ev))
	if err != nil {
		t.Fatalf("StoreOrGet: %v", err)
	}
	c2, err := store.StoreOrGet(ctx, envelope(ev))
	if err != nil {
		t.Fatalf("StoreOrGet: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("duplicate content got distinct CIDs: %q != %q", c1, c2)
	}

	p, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Persons) != 1 {
		t.Fatalf("projection has %d persons, want 1", len(p.Persons))
	}
}

// TestApplyIsTotalOverDeclaredEvents applies a zero value of every event
// kind and expects no error and no panic: unknown data is a projection
// no-op, never a failure.
func TestApplyIsTotalOverDeclaredEvents(t *testing.T) {
	all := []events.DomainEvent{
		&events.KeyGenerated{}, &events.KeyActivated{}, &events.KeyRotationStarted{}, &events.KeyRotated{},
		&events.KeyRevoked{}, &events.KeySuspended{}, &events.KeyRecovered{}, &events.KeyArchived{},
		&events.CertificateRequested{}, &events.CertificateIssued{}, &events.CertificateActivated{},
		&events.CertificateExpiringSoonFlagged{}, &events.CertificateExpired{}, &events.CertificateRevoked{},
		&events.CertificateSuspended{}, &events.CertificateArchived{},
		&events.PolicyDrafted{}, &events.PolicyActivated{}, &events.PolicyDeprecated{}, &events.PolicyRevoked{}, &events.PolicyArchived{},
		&events.PersonInvited{}, &events.PersonActivated{}, &events.PersonSuspended{}, &events.PersonDeactivated{}, &events.PersonDeparted{},
		&events.OrganizationPlanned{}, &events.OrganizationActivated{}, &events.OrganizationDissolutionStarted{}, &events.OrganizationArchived{},
		&events.LocationProposed{}, &events.LocationActivated{}, &events.LocationDeprecated{}, &events.LocationDecommissioned{},
		&events.RelationshipProposed{}, &events.RelationshipActivated{}, &events.RelationshipSuspended{},
		&events.RelationshipAmended{}, &events.RelationshipTerminated{}, &events.RelationshipExpired{},
		&events.DelegationGranted{}, &events.DelegationRevoked{},
		&events.ManifestInitialized{}, &events.ManifestCollecting{}, &events.ManifestEncrypting{},
		&events.ManifestWriting{}, &events.ManifestCompleted{}, &events.ManifestVerified{}, &events.ManifestFailed{},
		&events.YubiKeyDetected{}, &events.YubiKeyProvisioned{}, &events.YubiKeyActivated{},
		&events.YubiKeySuspended{}, &events.YubiKeyRetired{}, &events.YubiKeyLost{},
		&events.NatsOperatorPlanned{}, &events.NatsOperatorActivated{}, &events.NatsOperatorKeyRotated{},
		&events.NatsOperatorRevoked{}, &events.NatsOperatorArchived{},
		&events.NatsAccountPlanned{}, &events.NatsAccountActivated{}, &events.NatsAccountKeyRotated{},
		&events.NatsAccountRevoked{}, &events.NatsAccountArchived{},
		&events.NatsUserPlanned{}, &events.NatsUserActivated{}, &events.NatsUserKeyRotated{},
		&events.NatsUserRevoked{}, &events.NatsUserArchived{},
		&events.CertificateSelected{}, &events.CertificateImportValidationStarted{}, &events.CertificateImportValidated{},
		&events.CertificateImportValidationFailed{}, &events.CertificateImportPinAwaited{}, &events.CertificateImportPinFailed{},
		&events.CertificateImportStarted{}, &events.CertificateImportFailed{}, &events.CertificateImported{},
		&events.ExportPlanned{}, &events.ExportGenerating{}, &events.ExportCompleted{}, &events.ExportFailed{},
	}
	p := New()
	for _, ev := range all {
		if err := p.Apply(envelope(ev)); err != nil {
			t.Fatalf("Apply(%s): %v", ev.Kind(), err)
		}
	}
}
