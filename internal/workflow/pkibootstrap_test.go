package workflow

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestPKIBootstrapHappyPathWithIntermediatePlanning(t *testing.T) {
	now := time.Now()
	s := NewPKIBootstrap(ids.NewOrgID(), now)

	s, err := s.PlanRootCA(now)
	if err != nil || s.Status != RootCAPlanned {
		t.Fatalf("PlanRootCA: %v", err)
	}
	s, err = s.GenerateRootCA(ids.NewKeyID(), ids.NewCertID(), now)
	if err != nil || s.Status != RootCAGenerated {
		t.Fatalf("GenerateRootCA: %v", err)
	}
	s, err = s.PlanIntermediateCA(now)
	if err != nil || s.Status != IntermediateCAPlanned {
		t.Fatalf("PlanIntermediateCA: %v", err)
	}
	s, err = s.GenerateIntermediateCA(ids.NewKeyID(), ids.NewCertID(), now)
	if err != nil || s.Status != IntermediateCAGenerated {
		t.Fatalf("GenerateIntermediateCA: %v", err)
	}
	leaf1, leaf2 := ids.NewCertID(), ids.NewCertID()
	s, err = s.GenerateLeafCert(leaf1, now)
	if err != nil || s.Status != LeafCertsGenerated {
		t.Fatalf("GenerateLeafCert: %v", err)
	}
	s, err = s.GenerateLeafCert(leaf2, now)
	if err != nil || len(s.LeafCertIDs) != 2 {
		t.Fatalf("GenerateLeafCert self-loop: %v, %d leaves", err, len(s.LeafCertIDs))
	}

	serial1, serial2 := ids.YubiKeySerial("1"), ids.YubiKeySerial("2")
	s, err = s.ProvisionYubiKey(serial1, now)
	if err != nil || s.Status != YubiKeysProvisioned {
		t.Fatalf("ProvisionYubiKey: %v", err)
	}
	s, err = s.ProvisionYubiKey(serial2, now)
	if err != nil || len(s.ProvisionedSerials) != 2 {
		t.Fatalf("ProvisionYubiKey self-loop: %v", err)
	}
	s, err = s.PrepareExport(now)
	if err != nil || s.Status != ExportReady {
		t.Fatalf("PrepareExport: %v", err)
	}
	s, err = s.Export(ids.NewManifestID(), now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Export: %v", err)
	}
}

func TestPKIBootstrapSkipsIntermediatePlanning(t *testing.T) {
	now := time.Now()
	s := NewPKIBootstrap(ids.NewOrgID(), now)
	s, _ = s.PlanRootCA(now)
	s, _ = s.GenerateRootCA(ids.NewKeyID(), ids.NewCertID(), now)

	s, err := s.GenerateIntermediateCA(ids.NewKeyID(), ids.NewCertID(), now)
	if err != nil || s.Status != IntermediateCAGenerated {
		t.Fatalf("skip-path GenerateIntermediateCA: %v", err)
	}
}

func TestPKIBootstrapRejectsOutOfOrderTransition(t *testing.T) {
	now := time.Now()
	s := NewPKIBootstrap(ids.NewOrgID(), now)

	_, err := s.ProvisionYubiKey(ids.YubiKeySerial("x"), now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.InvalidTransition {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}
