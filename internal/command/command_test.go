package command

import (
	"testing"
	"time"

	"keyforge/internal/acl"
	"keyforge/internal/ids"
	"keyforge/pkg/clock"
)

func TestCurriedInvitePersonHappyPath(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	correlationID := ids.NewCorrelationID()

	factory := NewInvitePerson(clk)(correlationID)(nil)
	env, errs := factory(acl.PersonForm{GivenName: "Ada", FamilyName: "Lovelace", Email: "ada@example.org"})
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if env.CorrelationID != correlationID {
		t.Fatalf("correlation id not threaded through: %v", env.CorrelationID)
	}
	if env.CommandID == "" {
		t.Fatalf("expected a command id to be stamped")
	}
	if _, ok := env.Command.(InvitePerson); !ok {
		t.Fatalf("expected InvitePerson payload, got %T", env.Command)
	}
}

func TestCurriedFactoryReusesCorrelationAcrossCommands(t *testing.T) {
	clk := clock.NewFixed(time.Now())
	correlationID := ids.NewCorrelationID()
	withCausation := NewPlanOrganization(clk)(correlationID)

	env1, errs1 := withCausation(nil)(acl.OrganizationForm{Name: "Acme", Identifier: "acme"})
	if len(errs1) != 0 {
		t.Fatalf("unexpected errors: %v", errs1)
	}
	causationID := ids.NewEventID()
	env2, errs2 := withCausation(&causationID)(acl.OrganizationForm{Name: "Acme II", Identifier: "acme2"})
	if len(errs2) != 0 {
		t.Fatalf("unexpected errors: %v", errs2)
	}
	if env1.CorrelationID != env2.CorrelationID {
		t.Fatalf("expected shared correlation id")
	}
	if env2.CausationID == nil || *env2.CausationID != causationID {
		t.Fatalf("expected causation id to be threaded through")
	}
}

func TestCurriedFactoryPropagatesValidationErrors(t *testing.T) {
	clk := clock.NewFixed(time.Now())
	_, errs := NewInvitePerson(clk)(ids.NewCorrelationID())(nil)(acl.PersonForm{})
	if len(errs) == 0 {
		t.Fatalf("expected validation errors for empty form")
	}
}
