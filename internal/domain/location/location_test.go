package location

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestFullLifecycle(t *testing.T) {
	now := time.Now()
	s := NewProposed(ids.NewLocationID(), Physical, "HQ Data Center", now)

	s, err := s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("Activate: %v", err)
	}
	s, err = s.Deprecate("migrating to cloud", now)
	if err != nil || s.Status != Deprecated {
		t.Fatalf("Deprecate: %v", err)
	}
	s, err = s.Decommission(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Decommission: %v", err)
	}
}

func TestActiveCanDecommissionDirectly(t *testing.T) {
	now := time.Now()
	s := NewProposed(ids.NewLocationID(), Virtual, "vpn-gateway", now)
	s, _ = s.Activate(now)

	s, err := s.Decommission(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Decommission direct from Active: %v", err)
	}
}

func TestProposedCannotDecommission(t *testing.T) {
	now := time.Now()
	s := NewProposed(ids.NewLocationID(), Logical, "ns", now)

	_, err := s.Decommission(now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.InvalidTransition {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}
