// Package bus defines the external event/command bus port: the
// interface the core publishes envelopes through. The concrete
// messaging-system transport (NATS, Kafka, ...) is an external
// collaborator and is deliberately not implemented here — only the
// contract the orchestrator depends on.
package bus

import (
	"context"

	"keyforge/internal/command"
	"keyforge/internal/events"
)

// Publisher publishes domain envelopes to an external bus under the
// routing subjects:
// "keys.events.<context>.<entity>.<verb>" and
// "keys.commands.<context>.<entity>.<verb>". Implementations are
// responsible for using the envelope's message id (see MessageID and
// CommandMessageID) as the bus-level deduplication key.
type Publisher interface {
	PublishEvent(ctx context.Context, env events.EventEnvelope) error
	PublishCommand(ctx context.Context, env command.Envelope) error
}

// MessageID returns the deduplication key for an event envelope:
// preferring the domain CID, falling back to the interop CID, and to the
// event id when neither CID is set.
func MessageID(env events.EventEnvelope) string {
	if env.DomainCID != "" {
		return string(env.DomainCID)
	}
	if env.InteropCID != "" {
		return string(env.InteropCID)
	}
	return string(env.EventID)
}

// CommandMessageID returns the deduplication key for a command
// envelope: preferring its content CID, falling back to the command id.
func CommandMessageID(env command.Envelope) string {
	if env.ContentCID != nil {
		return string(*env.ContentCID)
	}
	return string(env.CommandID)
}
