package natsuser

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestFullLifecycle(t *testing.T) {
	now := time.Now()
	s := NewPlanned(ids.NewNatsUserID(), ids.NewNatsAccountID(), ids.NewKeyID(), now)

	s, err := s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("Activate: %v", err)
	}
	s, err = s.StartRotation(now)
	if err != nil || s.Status != Rotating {
		t.Fatalf("StartRotation: %v", err)
	}
	s, err = s.Revoke("device decommissioned", now)
	if err != nil || s.Status != Revoked {
		t.Fatalf("Revoke: %v", err)
	}
	s, err = s.Archive(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Archive: %v", err)
	}
}

func TestEmptyRevokeReasonIsValidationFailed(t *testing.T) {
	now := time.Now()
	s := NewPlanned(ids.NewNatsUserID(), ids.NewNatsAccountID(), ids.NewKeyID(), now)
	s, _ = s.Activate(now)

	_, err := s.Revoke("", now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.ValidationFailed {
		t.Fatalf("expected ValidationFailed, got %v", err)
	}
}
