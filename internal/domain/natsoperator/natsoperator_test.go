package natsoperator

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestFullLifecycle(t *testing.T) {
	now := time.Now()
	s := NewPlanned(ids.NewNatsOperatorID(), "root-operator", ids.NewKeyID(), now)

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
	s, err = s.Revoke("compromised", now)
	if err != nil || s.Status != Revoked {
		t.Fatalf("Revoke: %v", err)
	}
	s, err = s.Archive(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Archive: %v", err)
	}
}

func TestPlannedCannotRotate(t *testing.T) {
	now := time.Now()
	s := NewPlanned(ids.NewNatsOperatorID(), "op", ids.NewKeyID(), now)

	_, err := s.StartRotation(now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.InvalidTransition {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}
