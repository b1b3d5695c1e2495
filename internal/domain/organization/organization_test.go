package organization

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestFullLifecycle(t *testing.T) {
	now := time.Now()
	s := NewPlanned(ids.NewOrgID(), "Acme Corp", now)

	s, err := s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("Activate: %v", err)
	}
	s, err = s.StartDissolution("merger", now)
	if err != nil || s.Status != Dissolving {
		t.Fatalf("StartDissolution: %v", err)
	}
	s, err = s.Archive(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Archive: %v", err)
	}
}

func TestPlannedCannotDissolve(t *testing.T) {
	now := time.Now()
	s := NewPlanned(ids.NewOrgID(), "Acme", now)

	_, err := s.StartDissolution("x", now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.InvalidTransition {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}
