package certificate

import (
	"time"

	"keyforge/internal/ids"
	"keyforge/internal/domain/transition"
)

var allowed = map[Status]map[Status]bool{
	Requested:    {Issued: true},
	Issued:       {Active: true},
	Active:       {ExpiringSoon: true, Revoked: true, Suspended: true},
	ExpiringSoon: {Expired: true, Revoked: true},
	Expired:      {Archived: true},
	Revoked:      {Archived: true},
	Suspended:    {Active: true, Revoked: true, Archived: true},
	Archived:     {},
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

// Issue moves Requested → Issued, recording the issuer and validity
// window produced by internal/crypto.
func (s State) Issue(issuer ids.CertID, notBefore, notAfter, at time.Time) (State, error) {
	if err := s.guard(Issued, "issue"); err != nil {
		return s, err
	}
	if notBefore.After(notAfter) {
		return s, transition.Invalidated("not_before must not be after not_after")
	}
	next := s
	next.Status = Issued
	next.IssuerID = issuer
	next.NotBefore = notBefore
	next.NotAfter = notAfter
	next.IssuedAt = at
	return next, nil
}

// Activate moves Issued → Active.
func (s State) Activate(at time.Time) (State, error) {
	if err := s.guard(Active, "activate"); err != nil {
		return s, err
	}
	next := s
	next.Status = Active
	next.ActivatedAt = at
	return next, nil
}

// FlagExpiringSoon moves Active → ExpiringSoon when the certificate
// crosses the configured expiry warning threshold.
func (s State) FlagExpiringSoon(at time.Time) (State, error) {
	if err := s.guard(ExpiringSoon, "flag_expiring_soon"); err != nil {
		return s, err
	}
	next := s
	next.Status = ExpiringSoon
	next.FlaggedAt = at
	return next, nil
}

// Expire moves ExpiringSoon → Expired once NotAfter has passed.
func (s State) Expire(at time.Time) (State, error) {
	if err := s.guard(Expired, "expire"); err != nil {
		return s, err
	}
	next := s
	next.Status = Expired
	next.ExpiredAt = at
	return next, nil
}

// Revoke moves Active, ExpiringSoon, or Suspended → Revoked.
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

// Reinstate moves Suspended → Active.
func (s State) Reinstate(at time.Time) (State, error) {
	if err := s.guard(Active, "reinstate"); err != nil {
		return s, err
	}
	next := s
	next.Status = Active
	next.ActivatedAt = at
	return next, nil
}

// Archive moves Expired, Revoked, or Suspended → Archived.
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
