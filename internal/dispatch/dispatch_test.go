package dispatch

import (
	"context"
	"testing"
	"time"

	"keyforge/internal/acl"
	"keyforge/internal/command"
	"keyforge/internal/domain/organization"
	"keyforge/internal/events"
	"keyforge/internal/ids"
	"keyforge/pkg/clock"
)

func TestHandleInvitePersonEmitsPersonInvited(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	d := New(clk)

	env, errs := command.NewInvitePerson(clk)(ids.NewCorrelationID())(nil)(acl.PersonForm{
		GivenName: "Ada", FamilyName: "Lovelace", Email: "ada@example.org",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}

	out, err := d.HandleInvitePerson(context.Background(), env)
	if err != nil {
		t.Fatalf("HandleInvitePerson: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	invited, ok := out[0].(*events.PersonInvited)
	if !ok {
		t.Fatalf("expected PersonInvited, got %T", out[0])
	}
	if _, ok := d.PersonState(invited.PersonID); !ok {
		t.Fatalf("expected person state to be recorded")
	}
}

func TestHandlePlanThenActivateOrganization(t *testing.T) {
	clk := clock.NewFixed(time.Now())
	d := New(clk)

	env, errs := command.NewPlanOrganization(clk)(ids.NewCorrelationID())(nil)(acl.OrganizationForm{
		Name: "Acme", Identifier: "acme",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	planned, err := d.HandlePlanOrganization(context.Background(), env)
	if err != nil {
		t.Fatalf("HandlePlanOrganization: %v", err)
	}
	orgID := planned[0].(*events.OrganizationPlanned).OrgID

	activated, err := d.HandleActivateOrganization(context.Background(), orgID)
	if err != nil {
		t.Fatalf("HandleActivateOrganization: %v", err)
	}
	if _, ok := activated[0].(*events.OrganizationActivated); !ok {
		t.Fatalf("expected OrganizationActivated, got %T", activated[0])
	}
	state, ok := d.OrganizationState(orgID)
	if !ok || state.Status != organization.Active {
		t.Fatalf("expected organization to be Active, got %+v", state)
	}
}

func TestHandleActivateOrganizationUnknownID(t *testing.T) {
	clk := clock.NewFixed(time.Now())
	d := New(clk)
	_, err := d.HandleActivateOrganization(context.Background(), ids.NewOrgID())
	if err == nil {
		t.Fatalf("expected error for unknown organization")
	}
}
