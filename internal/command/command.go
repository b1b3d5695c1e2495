// Package command is the curried command-factory layer. Every command
// type is built by partially applying a correlation
// id, then an optional causation id, then the raw form — so callers can
// fix a correlation and an organization once and produce many commands
// from it. Currying in a statically typed language needs an explicit
// function-type alias at each stage to keep inference bounded; that is
// why every factory below spells out WithCorrelation,
// WithCausation, and WithForm rather than nesting closures inline.
package command

import (
	"time"

	"keyforge/internal/acl"
	"keyforge/internal/cid"
	"keyforge/internal/ids"
	"keyforge/pkg/clock"
)

// DomainCommand is the closed set of command payloads a handler in
// internal/dispatch can receive. Like events.DomainEvent, it is sealed by
// an unexported marker method so only this module's own command types
// can satisfy it.
type DomainCommand interface {
	Kind() string
	isDomainCommand()
}

type commandMarker struct{}

func (commandMarker) isDomainCommand() {}

// Envelope wraps one DomainCommand with delivery and provenance metadata.
type Envelope struct {
	CommandID     ids.CommandID
	CorrelationID ids.CorrelationID
	CausationID   *ids.EventID
	IssuedAt      time.Time
	Command       DomainCommand
	ContentCID    *cid.DomainCID
}

// Subject builds the routing subject path "keys.commands.<context>.<verb>".
func Subject(c DomainCommand) string {
	return "keys.commands." + c.Kind()
}

// WithCID attaches a content CID to env for at-most-once delivery through
// an external bus.
func (env Envelope) WithCID() Envelope {
	if env.Command == nil {
		return env
	}
	sum := cid.Domain([]byte(env.Command.Kind() + ":" + string(env.CommandID)))
	env.ContentCID = &sum
	return env
}

// newEnvelope stamps a fresh CommandID and an IssuedAt timestamp from clk,
// and embeds cmd along with the correlation/causation ids already
// accumulated by the curried stages.
func newEnvelope(clk clock.Clock, correlationID ids.CorrelationID, causationID *ids.EventID, cmd DomainCommand) Envelope {
	return Envelope{
		CommandID:     ids.NewCommandID(),
		CorrelationID: correlationID,
		CausationID:   causationID,
		IssuedAt:      clk.Now().UTC(),
		Command:       cmd,
	}
}

// acl is imported only for the []acl.ValidationError return type shared
// by every WithForm stage; factories themselves never validate.
var _ = acl.ValidationError{}
