// Package dispatch holds the command handlers: one pure
// function per command that looks up current aggregate state, invokes
// the aggregate's guard and transition, and packages the result as
// DomainEvents. Handlers never persist; internal/orchestrator owns that
// by feeding the returned events to the event store.
package dispatch

import (
	"context"
	"fmt"

	"keyforge/internal/acl"
	"keyforge/internal/command"
	"keyforge/internal/domain/location"
	"keyforge/internal/domain/organization"
	"keyforge/internal/domain/person"
	"keyforge/internal/events"
	"keyforge/internal/ids"
	"keyforge/pkg/clock"
)

// Dispatcher holds the in-memory aggregate state a command handler needs
// to look up before it can apply a transition. It is not itself a
// projection: each handler writes the aggregate's new state into these
// maps itself before returning its events, and internal/orchestrator then
// persists those events and folds them into its own projection.
type Dispatcher struct {
	clock clock.Clock

	persons       map[ids.PersonID]person.State
	organizations map[ids.OrgID]organization.State
	locations     map[ids.LocationID]location.State
}

// New constructs an empty Dispatcher.
func New(clk clock.Clock) *Dispatcher {
	return &Dispatcher{
		clock:         clk,
		persons:       map[ids.PersonID]person.State{},
		organizations: map[ids.OrgID]organization.State{},
		locations:     map[ids.LocationID]location.State{},
	}
}

// HandleInvitePerson creates a fresh Person aggregate in the Invited
// state. Unlike the other handlers, there is no prior state to look up:
// the command itself is the aggregate's origin.
func (d *Dispatcher) HandleInvitePerson(ctx context.Context, env command.Envelope) ([]events.DomainEvent, error) {
	cmd, ok := env.Command.(command.InvitePerson)
	if !ok {
		return nil, fmt.Errorf("dispatch: expected InvitePerson, got %T", env.Command)
	}
	at := d.clock.Now().UTC()
	id := ids.NewPersonID()
	state := person.NewInvited(id, cmd.Form.GivenName+" "+cmd.Form.FamilyName, cmd.Form.Email, at)
	d.persons[id] = state
	return []events.DomainEvent{&events.PersonInvited{
		PersonID:  id,
		Name:      state.Name,
		Email:     state.Email,
		InvitedAt: at,
	}}, nil
}

// HandlePlanOrganization creates a fresh Organization aggregate in the
// Planned state.
func (d *Dispatcher) HandlePlanOrganization(ctx context.Context, env command.Envelope) ([]events.DomainEvent, error) {
	cmd, ok := env.Command.(command.PlanOrganization)
	if !ok {
		return nil, fmt.Errorf("dispatch: expected PlanOrganization, got %T", env.Command)
	}
	at := d.clock.Now().UTC()
	id := ids.NewOrgID()
	state := organization.NewPlanned(id, cmd.Form.Name, at)
	d.organizations[id] = state
	return []events.DomainEvent{&events.OrganizationPlanned{
		OrgID:     id,
		Name:      state.Name,
		PlannedAt: at,
	}}, nil
}

// HandleActivateOrganization looks up the named Organization and applies
// its Activate transition.
func (d *Dispatcher) HandleActivateOrganization(ctx context.Context, orgID ids.OrgID) ([]events.DomainEvent, error) {
	state, ok := d.organizations[orgID]
	if !ok {
		return nil, fmt.Errorf("dispatch: unknown organization %s", orgID)
	}
	at := d.clock.Now().UTC()
	next, err := state.Activate(at)
	if err != nil {
		return nil, err
	}
	d.organizations[orgID] = next
	return []events.DomainEvent{&events.OrganizationActivated{OrgID: orgID, ActivatedAt: at}}, nil
}

// HandleProposeLocation creates a fresh Location aggregate in the
// Proposed state.
func (d *Dispatcher) HandleProposeLocation(ctx context.Context, env command.Envelope) ([]events.DomainEvent, error) {
	cmd, ok := env.Command.(command.ProposeLocation)
	if !ok {
		return nil, fmt.Errorf("dispatch: expected ProposeLocation, got %T", env.Command)
	}
	at := d.clock.Now().UTC()
	id := ids.NewLocationID()
	state := location.NewProposed(id, locationKindFromForm(cmd.Form.Kind), cmd.Form.Name, at)
	d.locations[id] = state
	return []events.DomainEvent{&events.LocationProposed{
		LocationID: id,
		Name:       state.Name,
		ProposedAt: at,
	}}, nil
}

func locationKindFromForm(k acl.LocationKind) location.Kind {
	switch k {
	case acl.LocationPhysical:
		return location.Physical
	case acl.LocationVirtual:
		return location.Virtual
	case acl.LocationLogical:
		return location.Logical
	case acl.LocationHybrid:
		return location.Hybrid
	default:
		return location.Physical
	}
}

// PersonState returns the current state of id, if known.
func (d *Dispatcher) PersonState(id ids.PersonID) (person.State, bool) {
	s, ok := d.persons[id]
	return s, ok
}

// OrganizationState returns the current state of id, if known.
func (d *Dispatcher) OrganizationState(id ids.OrgID) (organization.State, bool) {
	s, ok := d.organizations[id]
	return s, ok
}

// LocationState returns the current state of id, if known.
func (d *Dispatcher) LocationState(id ids.LocationID) (location.State, bool) {
	s, ok := d.locations[id]
	return s, ok
}
