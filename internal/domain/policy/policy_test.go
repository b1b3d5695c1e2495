package policy

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestFullLifecycle(t *testing.T) {
	now := time.Now()
	s := NewDraft(ids.NewPolicyID(), "key-rotation-policy", now)

	s, err := s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("Activate: %v", err)
	}
	s, err = s.Deprecate("superseded by v2", now)
	if err != nil || s.Status != Deprecated {
		t.Fatalf("Deprecate: %v", err)
	}
	s, err = s.Revoke("security incident", now)
	if err != nil || s.Status != Revoked {
		t.Fatalf("Revoke: %v", err)
	}
	s, err = s.Archive(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Archive: %v", err)
	}
}

func TestDeprecatedCanArchiveDirectly(t *testing.T) {
	now := time.Now()
	s := NewDraft(ids.NewPolicyID(), "p", now)
	s, _ = s.Activate(now)
	s, _ = s.Deprecate("old", now)

	s, err := s.Archive(now)
	if err != nil || s.Status != Archived {
		t.Fatalf("Archive from Deprecated: %v", err)
	}
}

func TestDraftCannotRevokeDirectly(t *testing.T) {
	now := time.Now()
	s := NewDraft(ids.NewPolicyID(), "p", now)

	_, err := s.Revoke("x", now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.InvalidTransition {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}
