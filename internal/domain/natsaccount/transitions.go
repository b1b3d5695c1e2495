package natsaccount

import (
	"time"

	"keyforge/internal/domain/transition"
)

var allowed = map[Status]map[Status]bool{
	Planned:  {Active: true},
	Active:   {Rotating: true, Revoked: true},
	Rotating: {Active: true, Revoked: true},
	Revoked:  {Archived: true},
	Archived: {},
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

// Activate moves Planned → Active, or Rotating → Active once a key
// rotation completes.
func (s State) Activate(at time.Time) (State, error) {
	if err := s.guard(Active, "activate"); err != nil {
		return s, err
	}
	next := s
	next.Status = Active
	next.ActivatedAt = at
	return next, nil
}

// StartRotation moves Active → Rotating.
func (s State) StartRotation(at time.Time) (State, error) {
	if err := s.guard(Rotating, "start_rotation"); err != nil {
		return s, err
	}
	next := s
	next.Status = Rotating
	next.RotatedAt = at
	return next, nil
}

// Revoke moves Active or Rotating → Revoked.
func (s State) Revoke(reason string, at time.Time) (State, error) {
	if err := s.guard(Revoked, "revoke"); err != nil {
		return s, err
	}
	if reason == "" {
		return s, transition.Invalidated("revoke reason is required")
	}
	next := s
	next.Status = Revoked
	next.Reason = reason
	next.RevokedAt = at
	return next, nil
}

// Archive moves Revoked → Archived, the terminal state.
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
