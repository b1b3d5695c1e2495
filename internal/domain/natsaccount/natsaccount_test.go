package natsaccount

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestFullLifecycle(t *testing.T) {
	now := time.Now()
	s := NewPlanned(ids.NewNatsAccountID(), ids.NewNatsOperatorID(), "billing", ids.NewKeyID(), now)

	s, err := s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("Activate: %v", err)
	}
	s, err = s.StartRotation(now)
	if err != nil || s.Status != Rotating {
		t.Fatalf("StartRotation: %v", err)
	}
	s, err = s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("reactivate after rotation: %v", err)
	}
	s, err = s.Revoke("operator compromised", now)
	if err != nil || s.Status != Revoked {
		t.Fatalf("Revoke: %v", err)
	}
	s, err = s.Archive(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Archive: %v", err)
	}
}

func TestArchivedAbsorbsFurtherTransitions(t *testing.T) {
	now := time.Now()
	s := NewPlanned(ids.NewNatsAccountID(), ids.NewNatsOperatorID(), "billing", ids.NewKeyID(), now)
	s, _ = s.Activate(now)
	s, _ = s.Revoke("retired", now)
	s, _ = s.Archive(now)

	_, err := s.Activate(now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.TerminalState {
		t.Fatalf("expected TerminalState, got %v", err)
	}
}
