package policy

import (
	"time"

	"keyforge/internal/domain/transition"
)

var allowed = map[Status]map[Status]bool{
	Draft:      {Active: true},
	Active:     {Deprecated: true, Revoked: true},
	Deprecated: {Revoked: true, Archived: true},
	Revoked:    {Archived: true},
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

// Activate moves Draft → Active.
func (s State) Activate(at time.Time) (State, error) {
	if err := s.guard(Active, "activate"); err != nil {
		return s, err
	}
	next := s
	next.Status = Active
	next.ActivatedAt = at
	return next, nil
}

// Deprecate moves Active → Deprecated, marking the policy for replacement.
func (s State) Deprecate(reason string, at time.Time) (State, error) {
	if err := s.guard(Deprecated, "deprecate"); err != nil {
		return s, err
	}
	if reason == "" {
		return s, transition.Invalidated("deprecate reason is required")
	}
	next := s
	next.Status = Deprecated
	next.Reason = reason
	next.DeprecatedAt = at
	return next, nil
}

// Revoke moves Active or Deprecated → Revoked.
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

// Archive moves Deprecated or Revoked → Archived.
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
