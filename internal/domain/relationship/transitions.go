package relationship

import (
	"time"

	"keyforge/internal/ids"
	"keyforge/internal/domain/transition"
)

var allowed = map[Status]map[Status]bool{
	Proposed:   {Active: true},
	Active:     {Suspended: true, Amended: true, Terminated: true, Expired: true},
	Suspended:  {Active: true, Terminated: true, Expired: true},
	Amended:    {Active: true, Suspended: true, Terminated: true, Expired: true},
	Terminated: {},
	Expired:    {},
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

// Activate moves Proposed, Suspended, or Amended → Active.
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

// Amend moves Active → Amended, a self-loop recording a data-preserving
// change to the relationship's terms before returning to Active.
func (s State) Amend(changes string, at time.Time) (State, error) {
	if err := s.guard(Amended, "amend"); err != nil {
		return s, err
	}
	if changes == "" {
		return s, transition.Invalidated("amendment changes description is required")
	}
	next := s
	next.Status = Amended
	next.Changes = changes
	next.AmendedAt = at
	return next, nil
}

// Terminate moves Active, Suspended, or Amended → Terminated, an
// operator-initiated terminal closure.
func (s State) Terminate(reason string, at time.Time) (State, error) {
	if err := s.guard(Terminated, "terminate"); err != nil {
		return s, err
	}
	if reason == "" {
		return s, transition.Invalidated("terminate reason is required")
	}
	next := s
	next.Status = Terminated
	next.Reason = reason
	next.TerminatedAt = at
	return next, nil
}

// Expire moves Active, Suspended, or Amended → Expired, a terminal
// closure driven by natural expiry rather than operator action.
func (s State) Expire(at time.Time) (State, error) {
	if err := s.guard(Expired, "expire"); err != nil {
		return s, err
	}
	next := s
	next.Status = Expired
	next.ExpiredAt = at
	return next, nil
}

// GrantDelegation records a new delegation of authority within the scope
// of an Active or Suspended relationship. It does not change Status.
func (s State) GrantDelegation(delegate ids.PersonID, scope string, at time.Time) (State, error) {
	if s.Status.IsTerminal() {
		return s, transition.Terminal(s.Status.String())
	}
	if s.Status != Active && s.Status != Suspended {
		return s, transition.Invalid(s.Status.String(), "grant_delegation", "delegation requires an active or suspended relationship")
	}
	next := s
	next.Delegations = append(append([]Delegation{}, s.Delegations...), Delegation{
		DelegateID: delegate,
		Scope:      scope,
		GrantedAt:  at,
		Active:     true,
	})
	return next, nil
}

// RevokeDelegation withdraws a previously granted delegation to delegate.
func (s State) RevokeDelegation(delegate ids.PersonID, at time.Time) (State, error) {
	if s.Status.IsTerminal() {
		return s, transition.Terminal(s.Status.String())
	}
	next := s
	next.Delegations = append([]Delegation{}, s.Delegations...)
	found := false
	for i := range next.Delegations {
		if next.Delegations[i].DelegateID == delegate && next.Delegations[i].Active {
			next.Delegations[i].Active = false
			next.Delegations[i].RevokedAt = at
			found = true
		}
	}
	if !found {
		return s, transition.Invalidated("no active delegation found for delegate")
	}
	return next, nil
}

// IsTerminal reports whether s is in a terminal state.
func (s State) IsTerminal() bool {
	return s.Status.IsTerminal()
}
