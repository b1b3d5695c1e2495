package key

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestHappyPathLifecycle(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewGenerated(ids.NewKeyID(), "Ed25519", "root-ca", []byte("pub"), now)

	s, err := s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("Activate: %v, status=%s", err, s.Status)
	}

	successor := ids.NewKeyID()
	s, err = s.StartRotation(successor, now)
	if err != nil || s.Status != Rotating {
		t.Fatalf("StartRotation: %v, status=%s", err, s.Status)
	}

	s, err = s.CompleteRotation(now)
	if err != nil || s.Status != Rotated {
		t.Fatalf("CompleteRotation: %v, status=%s", err, s.Status)
	}

	s, err = s.Archive(now)
	if err != nil || s.Status != Archived {
		t.Fatalf("Archive: %v, status=%s", err, s.Status)
	}
	if !s.IsTerminal() {
		t.Fatalf("expected Archived to be terminal")
	}
}

func TestSuspendRecoverPath(t *testing.T) {
	now := time.Now()
	s := NewGenerated(ids.NewKeyID(), "ECDSAP256", "leaf", nil, now)
	s, _ = s.Activate(now)

	s, err := s.Suspend("lost device", now)
	if err != nil || s.Status != Suspended {
		t.Fatalf("Suspend: %v", err)
	}

	s, err = s.Recover(now)
	if err != nil || s.Status != Recovered {
		t.Fatalf("Recover: %v", err)
	}

	s, err = s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("Activate after recover: %v", err)
	}
}

func TestInvalidTransitionReturnsStateTransitionError(t *testing.T) {
	now := time.Now()
	s := NewGenerated(ids.NewKeyID(), "Ed25519", "root-ca", nil, now)

	_, err := s.Revoke("compromised", now)
	if err == nil {
		t.Fatalf("expected error revoking a Generated key")
	}
	te, ok := err.(*transition.Error)
	if !ok {
		t.Fatalf("expected *transition.Error, got %T", err)
	}
	if te.Kind != transition.InvalidTransition {
		t.Fatalf("expected InvalidTransition, got %v", te.Kind)
	}
}

func TestTerminalStateAbsorbsFurtherTransitions(t *testing.T) {
	now := time.Now()
	s := NewGenerated(ids.NewKeyID(), "Ed25519", "root-ca", nil, now)
	s, _ = s.Activate(now)
	s, _ = s.Revoke("compromised", now)
	s, _ = s.Archive(now)

	_, err := s.Activate(now)
	if err == nil {
		t.Fatalf("expected TerminalState error")
	}
	te := err.(*transition.Error)
	if te.Kind != transition.TerminalState {
		t.Fatalf("expected TerminalState, got %v", te.Kind)
	}
}

func TestMissingReasonIsValidationFailed(t *testing.T) {
	now := time.Now()
	s := NewGenerated(ids.NewKeyID(), "Ed25519", "root-ca", nil, now)
	s, _ = s.Activate(now)

	_, err := s.Revoke("", now)
	if err == nil {
		t.Fatalf("expected ValidationFailed error")
	}
	te := err.(*transition.Error)
	if te.Kind != transition.ValidationFailed {
		t.Fatalf("expected ValidationFailed, got %v", te.Kind)
	}
}
