package key

import (
	"time"

	"keyforge/internal/ids"
	"keyforge/internal/domain/transition"
)

// allowed is the exhaustive (current, target) transition table — the
// allowed pairs *are* the definition of legal moves.
var allowed = map[Status]map[Status]bool{
	Generated: {Active: true},
	Active:    {Rotating: true, Revoked: true, Suspended: true},
	Rotating:  {Rotated: true},
	Rotated:   {Archived: true},
	Revoked:   {Archived: true},
	Suspended: {Recovered: true, Archived: true},
	Recovered: {Active: true, Archived: true},
	Archived:  {},
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

// Activate moves Generated → Active.
func (s State) Activate(at time.Time) (State, error) {
	if err := s.guard(Active, "activate"); err != nil {
		return s, err
	}
	next := s
	next.Status = Active
	next.ActivatedAt = at
	return next, nil
}

// StartRotation moves Active → Rotating, naming the successor key that
// will eventually replace this one.
func (s State) StartRotation(successor ids.KeyID, at time.Time) (State, error) {
	if err := s.guard(Rotating, "start_rotation"); err != nil {
		return s, err
	}
	if successor == "" {
		return s, transition.Invalidated("successor key id is required")
	}
	next := s
	next.Status = Rotating
	next.SuccessorID = successor
	return next, nil
}

// CompleteRotation moves Rotating → Rotated once the successor key has
// taken over signing duties.
func (s State) CompleteRotation(at time.Time) (State, error) {
	if err := s.guard(Rotated, "complete_rotation"); err != nil {
		return s, err
	}
	next := s
	next.Status = Rotated
	next.RotatedAt = at
	return next, nil
}

// Revoke moves Active → Revoked, permanently distrusting the key.
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

// Suspend moves Active → Suspended, a temporary hold short of revocation.
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

// Recover moves Suspended → Recovered, clearing the key for reuse.
func (s State) Recover(at time.Time) (State, error) {
	if err := s.guard(Recovered, "recover"); err != nil {
		return s, err
	}
	next := s
	next.Status = Recovered
	next.RecoveredAt = at
	return next, nil
}

// Archive moves Rotated, Revoked, Suspended, or Recovered into the
// terminal Archived state.
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
