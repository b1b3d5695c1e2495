package workflow

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestYubiKeyProvisioningFullLifecycle(t *testing.T) {
	now := time.Now()
	s := NewYubiKeyProvisioning(ids.YubiKeySerial("87654321"))

	s, err := s.Authenticate(now)
	if err != nil || s.Status != Authenticated {
		t.Fatalf("Authenticate: %v", err)
	}
	s, err = s.ChangePIN(now)
	if err != nil || s.Status != PINChanged {
		t.Fatalf("ChangePIN: %v", err)
	}
	s, err = s.RotateManagementKey(now)
	if err != nil || s.Status != ManagementKeyRotated {
		t.Fatalf("RotateManagementKey: %v", err)
	}
	s, err = s.PlanSlots([]string{"9a", "9c"}, now)
	if err != nil || s.Status != SlotsPlanned {
		t.Fatalf("PlanSlots: %v", err)
	}
	s, err = s.GenerateKeys(map[string]ids.KeyID{"9a": ids.NewKeyID(), "9c": ids.NewKeyID()}, now)
	if err != nil || s.Status != KeysGenerated {
		t.Fatalf("GenerateKeys: %v", err)
	}
	s, err = s.ImportCertificates(map[string]ids.CertID{"9a": ids.NewCertID(), "9c": ids.NewCertID()}, now)
	if err != nil || s.Status != CertificatesImported {
		t.Fatalf("ImportCertificates: %v", err)
	}
	s, err = s.Attest(now)
	if err != nil || s.Status != Attested {
		t.Fatalf("Attest: %v", err)
	}
	s, err = s.Seal(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Seal: %v", err)
	}
	if s.FinalConfigHash == "" {
		t.Fatalf("expected FinalConfigHash to be set")
	}
}

func TestYubiKeyProvisioningCannotSkipSteps(t *testing.T) {
	s := NewYubiKeyProvisioning(ids.YubiKeySerial("x"))
	_, err := s.ChangePIN(time.Now())
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.InvalidTransition {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}

func TestYubiKeyProvisioningPlanSlotsRequiresAtLeastOne(t *testing.T) {
	now := time.Now()
	s := NewYubiKeyProvisioning(ids.YubiKeySerial("x"))
	s, _ = s.Authenticate(now)
	s, _ = s.ChangePIN(now)
	s, _ = s.RotateManagementKey(now)

	_, err := s.PlanSlots(nil, now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.ValidationFailed {
		t.Fatalf("expected ValidationFailed, got %v", err)
	}
}

func TestYubiKeyProvisioningSealedIsTerminal(t *testing.T) {
	now := time.Now()
	s := NewYubiKeyProvisioning(ids.YubiKeySerial("x"))
	s, _ = s.Authenticate(now)
	s, _ = s.ChangePIN(now)
	s, _ = s.RotateManagementKey(now)
	s, _ = s.PlanSlots([]string{"9a"}, now)
	s, _ = s.GenerateKeys(map[string]ids.KeyID{"9a": ids.NewKeyID()}, now)
	s, _ = s.ImportCertificates(map[string]ids.CertID{"9a": ids.NewCertID()}, now)
	s, _ = s.Attest(now)
	s, _ = s.Seal(now)

	_, err := s.Attest(now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.TerminalState {
		t.Fatalf("expected TerminalState, got %v", err)
	}
}
