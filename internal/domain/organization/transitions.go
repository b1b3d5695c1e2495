package organization

import (
	"time"

	"keyforge/internal/domain/transition"
)

var allowed = map[Status]map[Status]bool{
	Planned:    {Active: true},
	Active:     {Dissolving: true},
	Dissolving: {Archived: true},
	Archived:   {},
}

// CanTransitionTo reports whether a transition from s's current status to
// target is legal.
func (s State) CanTransitionTo(target Status) bool {
	return allowed[s.Status][target]
}

func (s State) guard(target Status, event string) *transition.Error {
	if s.Status.IsTerminal() {
		return transition.Terminal(s.Status.String())
	}
	if !s.CanTransitionTo(target) {
		return transition.Invalid(s.Status.String(), event, "no such transition")
	}
	return nil
}

// Activate moves Planned → Active.
func (s State) Activate(at time.Time) (State, error) {
	if err := s.guard(Active, "activate"); err != nil {
		return s, err
	}
	next := s
	next.Status = Active
	next.ActivatedAt = at
	return next, nil
}

// StartDissolution moves Active → Dissolving.
func (s State) StartDissolution(reason string, at time.Time) (State, error) {
	if err := s.guard(Dissolving, "start_dissolution"); err != nil {
		return s, err
	}
	if reason == "" {
		return s, transition.Invalidated("dissolution reason is required")
	}
	next := s
	next.Status = Dissolving
	next.Reason = reason
	next.DissolvingAt = at
	return next, nil
}

// Archive moves Dissolving → Archived, the terminal state.
func (s State) Archive(at time.Time) (State, error) {
	if err := s.guard(Archived, "archive"); err != nil {
		return s, err
	}
	next := s
	next.Status = Archived
	next.ArchivedAt = at
	return next, nil
}

// IsTerminal reports whether s is in a terminal state.
func (s State) IsTerminal() bool {
	return s.Status.IsTerminal()
}
