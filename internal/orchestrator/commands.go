package orchestrator

import (
	"context"
	"fmt"

	"keyforge/internal/command"
	"keyforge/internal/events"
)

// Dispatch routes a validated command envelope to the aggregate dispatcher
// and persists every event the handler returns. This is the path for the
// org-graph commands (Person, Organization, Location) that carry no secret
// material and have no cryptographic side effects; the PKI bootstrap,
// YubiKey provisioning, and export steps go through their own dedicated
// Orchestrator methods instead, since those need a *secret.Text passphrase
// that a command.Envelope must never carry.
func (o *Orchestrator) Dispatch(ctx context.Context, env command.Envelope) ([]events.DomainEvent, error) {
	var (
		out []events.DomainEvent
		err error
	)
	switch env.Command.(type) {
	case command.InvitePerson:
		out, err = o.dispatcher.HandleInvitePerson(ctx, env)
	case command.PlanOrganization:
		out, err = o.dispatcher.HandlePlanOrganization(ctx, env)
	case command.ProposeLocation:
		out, err = o.dispatcher.HandleProposeLocation(ctx, env)
	default:
		return nil, fmt.Errorf("orchestrator: no dispatcher route for command %q", env.Command.Kind())
	}
	if err != nil {
		return nil, err
	}
	for _, ev := range out {
		if perr := o.persist(ctx, ev); perr != nil {
			return nil, perr
		}
	}
	return out, nil
}
