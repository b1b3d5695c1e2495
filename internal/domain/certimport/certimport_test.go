package certimport

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestHappyPathImport(t *testing.T) {
	now := time.Now()
	s := NewImport(ids.NewCertID())

	s, err := s.Select("/tmp/leaf.pem", now)
	if err != nil || s.Status != CertificateSelected {
		t.Fatalf("Select: %v", err)
	}
	s, err = s.StartValidation(now)
	if err != nil || s.Status != Validating {
		t.Fatalf("StartValidation: %v", err)
	}
	s, err = s.Validate(now)
	if err != nil || s.Status != Validated {
		t.Fatalf("Validate: %v", err)
	}
	s, err = s.RequestPin(now)
	if err != nil || s.Status != AwaitingPin {
		t.Fatalf("RequestPin: %v", err)
	}
	s, err = s.SubmitCorrectPin("9a", now)
	if err != nil || s.Status != Importing {
		t.Fatalf("SubmitCorrectPin: %v", err)
	}
	s, err = s.CompleteImport(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("CompleteImport: %v", err)
	}
}

func TestValidationFailureAllowsReselect(t *testing.T) {
	now := time.Now()
	s := NewImport(ids.NewCertID())
	s, _ = s.Select("/tmp/bad.pem", now)
	s, _ = s.StartValidation(now)

	s, err := s.FailValidation("signature does not chain to a trusted root", now)
	if err != nil || s.Status != ValidationFailed {
		t.Fatalf("FailValidation: %v", err)
	}
	s, err = s.Select("/tmp/good.pem", now)
	if err != nil || s.Status != CertificateSelected {
		t.Fatalf("reselect after failure: %v", err)
	}
}

func TestPinLockoutAfterThreeFailures(t *testing.T) {
	now := time.Now()
	s := NewImport(ids.NewCertID())
	s, _ = s.Select("/tmp/leaf.pem", now)
	s, _ = s.StartValidation(now)
	s, _ = s.Validate(now)
	s, _ = s.RequestPin(now)

	for i := 0; i < MaxPinAttempts-1; i++ {
		var err error
		s, err = s.SubmitWrongPin(now)
		if err != nil || s.Status != PinFailed {
			t.Fatalf("wrong pin attempt %d: %v", i, err)
		}
		s, err = s.RetryPin(now)
		if err != nil || s.Status != AwaitingPin {
			t.Fatalf("retry pin attempt %d: %v", i, err)
		}
	}

	s, err := s.SubmitWrongPin(now)
	if err != nil {
		t.Fatalf("final wrong pin: %v", err)
	}
	if s.Status != ImportFailed {
		t.Fatalf("expected ImportFailed after %d attempts, got %v", MaxPinAttempts, s.Status)
	}

	_, err = s.RetryPin(now)
	if err == nil {
		t.Fatalf("expected error retrying after lockout")
	}
}

func TestImportedIsTerminal(t *testing.T) {
	now := time.Now()
	s := NewImport(ids.NewCertID())
	s, _ = s.Select("/tmp/leaf.pem", now)
	s, _ = s.StartValidation(now)
	s, _ = s.Validate(now)
	s, _ = s.RequestPin(now)
	s, _ = s.SubmitCorrectPin("9c", now)
	s, _ = s.CompleteImport(now)

	_, err := s.FailImport("retry", now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.TerminalState {
		t.Fatalf("expected TerminalState, got %v", err)
	}
}
