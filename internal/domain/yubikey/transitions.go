package yubikey

import (
	"time"

	"keyforge/internal/domain/transition"
)

var allowed = map[Status]map[Status]bool{
	Detected:    {Provisioned: true, Lost: true},
	Provisioned: {Active: true, Lost: true},
	Active:      {Suspended: true, Retired: true, Lost: true},
	Suspended:   {Active: true, Retired: true, Lost: true},
	Retired:     {Lost: true},
	Lost:        {},
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

// Provision moves Detected → Provisioned once PIN/management-key/slot
// setup (internal/workflow.YubiKeyProvisioning) completes.
func (s State) Provision(at time.Time) (State, error) {
	if err := s.guard(Provisioned, "provision"); err != nil {
		return s, err
	}
	next := s
	next.Status = Provisioned
	next.ProvisionedAt = at
	return next, nil
}

// Activate moves Provisioned or Suspended → Active.
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

// Retire moves Active or Suspended → Retired, a planned withdrawal short
// of loss.
func (s State) Retire(at time.Time) (State, error) {
	if err := s.guard(Retired, "retire"); err != nil {
		return s, err
	}
	next := s
	next.Status = Retired
	next.RetiredAt = at
	return next, nil
}

// ReportLost moves any non-terminal state → Lost, the terminal state.
func (s State) ReportLost(at time.Time) (State, error) {
	if err := s.guard(Lost, "report_lost"); err != nil {
		return s, err
	}
	next := s
	next.Status = Lost
	next.LostAt = at
	return next, nil
}

// IsTerminal reports whether s is in a terminal state.
func (s State) IsTerminal() bool {
	return s.Status.IsTerminal()
}
