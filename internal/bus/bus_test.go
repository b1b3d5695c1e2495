package bus

import (
	"testing"

	"keyforge/internal/cid"
	"keyforge/internal/command"
	"keyforge/internal/events"
	"keyforge/internal/ids"
)

func TestMessageIDPrefersDomainCID(t *testing.T) {
	env := events.EventEnvelope{
		EventID:   ids.NewEventID(),
		DomainCID: cid.Domain([]byte("payload")),
	}
	if got := MessageID(env); got != string(env.DomainCID) {
		t.Fatalf("MessageID = %q, want domain cid %q", got, env.DomainCID)
	}
}

func TestMessageIDFallsBackToEventID(t *testing.T) {
	env := events.EventEnvelope{EventID: ids.NewEventID()}
	if got := MessageID(env); got != string(env.EventID) {
		t.Fatalf("MessageID = %q, want event id %q", got, env.EventID)
	}
}

func TestCommandMessageIDPrefersContentCID(t *testing.T) {
	c := cid.Domain([]byte("cmd"))
	env := command.Envelope{CommandID: ids.NewCommandID(), ContentCID: &c}
	if got := CommandMessageID(env); got != string(c) {
		t.Fatalf("CommandMessageID = %q, want %q", got, c)
	}
}

func TestCommandMessageIDFallsBackToCommandID(t *testing.T) {
	env := command.Envelope{CommandID: ids.NewCommandID()}
	if got := CommandMessageID(env); got != string(env.CommandID) {
		t.Fatalf("CommandMessageID = %q, want %q", got, env.CommandID)
	}
}
