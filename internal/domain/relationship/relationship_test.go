package relationship

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestFullLifecycleWithAmendAndDelegation(t *testing.T) {
	now := time.Now()
	s := NewProposed(ids.NewRelationshipID(), ids.NewPersonID(), ids.NewOrgID(), "contractor", now)

	s, err := s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("Activate: %v", err)
	}

	delegate := ids.NewPersonID()
	s, err = s.GrantDelegation(delegate, "sign-leaf-certs", now)
	if err != nil || len(s.Delegations) != 1 {
		t.Fatalf("GrantDelegation: %v", err)
	}

	s, err = s.Amend("extended term by 1 year", now)
	if err != nil || s.Status != Amended {
		t.Fatalf("Amend: %v", err)
	}
	s, err = s.Activate(now)
	if err != nil || s.Status != Active {
		t.Fatalf("reactivate after amend: %v", err)
	}

	s, err = s.RevokeDelegation(delegate, now)
	if err != nil || s.Delegations[0].Active {
		t.Fatalf("RevokeDelegation: %v", err)
	}

	s, err = s.Terminate("contract ended", now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Terminate: %v", err)
	}
}

func TestExpirePath(t *testing.T) {
	now := time.Now()
	s := NewProposed(ids.NewRelationshipID(), ids.NewPersonID(), ids.NewOrgID(), "vendor", now)
	s, _ = s.Activate(now)

	s, err := s.Expire(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Expire: %v", err)
	}
}

func TestProposedCannotAmend(t *testing.T) {
	now := time.Now()
	s := NewProposed(ids.NewRelationshipID(), ids.NewPersonID(), ids.NewOrgID(), "vendor", now)

	_, err := s.Amend("x", now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.InvalidTransition {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}

func TestRevokeUnknownDelegationFails(t *testing.T) {
	now := time.Now()
	s := NewProposed(ids.NewRelationshipID(), ids.NewPersonID(), ids.NewOrgID(), "vendor", now)
	s, _ = s.Activate(now)

	_, err := s.RevokeDelegation(ids.NewPersonID(), now)
	if err == nil {
		t.Fatalf("expected ValidationFailed error")
	}
}
