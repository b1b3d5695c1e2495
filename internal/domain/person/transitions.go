package person

import (
	"time"

	"keyforge/internal/domain/transition"
)

var allowed = map[Status]map[Status]bool{
	Invited:     {Active: true},
	Active:      {Suspended: true, Deactivated: true, Departed: true},
	Suspended:   {Active: true, Deactivated: true},
	Deactivated: {Departed: true},
	Departed:    {},
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

// Activate moves Invited → Active, or Suspended → Active on reinstatement.
func (s State) Activate(at time.Time) (State, error) {
	if err := s.guard(Active, "activate"); err != nil {
		return s, err
	}
	next := s
	next.Status = Active
	next.ActivatedAt = at
	return next, nil
}

// Suspend moves Active → Suspended.
func (s State) Suspend(reason string, at time.Time) (State, error) {
	if err := s.guard(Suspended, "suspend"); err != nil {
		return s, err
	}
	if reason == "" {
		return s, transition.Invalidated("suspend reason is required")
	}
	next := s
	next.Status = Suspended
	next.Reason = reason
	next.SuspendedAt = at
	return next, nil
}

// Deactivate moves Active or Suspended → Deactivated.
func (s State) Deactivate(reason string, at time.Time) (State, error) {
	if err := s.guard(Deactivated, "deactivate"); err != nil {
		return s, err
	}
	if reason == "" {
		return s, transition.Invalidated("deactivate reason is required")
	}
	next := s
	next.Status = Deactivated
	next.Reason = reason
	next.DeactivatedAt = at
	return next, nil
}

// Depart moves Active or Deactivated → Departed, the terminal state.
func (s State) Depart(at time.Time) (State, error) {
	if err := s.guard(Departed, "depart"); err != nil {
		return s, err
	}
	next := s
	next.Status = Departed
	next.DepartedAt = at
	return next, nil
}

// IsTerminal reports whether s is in a terminal state.
func (s State) IsTerminal() bool {
	return s.Status.IsTerminal()
}
