package manifest

import (
	"time"

	"keyforge/internal/cid"
	"keyforge/internal/domain/transition"
)

var allowed = map[Status]map[Status]bool{
	Initializing: {Collecting: true, Failed: true},
	Collecting:   {Encrypting: true, Failed: true},
	Encrypting:   {Writing: true, Failed: true},
	Writing:      {Verified: true, Failed: true},
	Verified:     {},
	Failed:       {},
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

// StartCollecting moves Initializing → Collecting.
func (s State) StartCollecting(itemCount int, at time.Time) (State, error) {
	if err := s.guard(Collecting, "start_collecting"); err != nil {
		return s, err
	}
	next := s
	next.Status = Collecting
	next.ItemCount = itemCount
	next.CollectingAt = at
	return next, nil
}

// StartEncrypting moves Collecting → Encrypting.
func (s State) StartEncrypting(at time.Time) (State, error) {
	if err := s.guard(Encrypting, "start_encrypting"); err != nil {
		return s, err
	}
	next := s
	next.Status = Encrypting
	next.EncryptingAt = at
	return next, nil
}

// StartWriting moves Encrypting → Writing.
func (s State) StartWriting(at time.Time) (State, error) {
	if err := s.guard(Writing, "start_writing"); err != nil {
		return s, err
	}
	next := s
	next.Status = Writing
	next.WritingAt = at
	return next, nil
}

// Verify moves Writing → Verified, the terminal success state, once the
// post-write re-read has confirmed the ciphertext hash.
func (s State) Verify(manifestCID cid.DomainCID, ciphertextSHA256 string, at time.Time) (State, error) {
	if err := s.guard(Verified, "verify"); err != nil {
		return s, err
	}
	next := s
	next.Status = Verified
	next.ManifestCID = manifestCID
	next.CiphertextSHA256 = ciphertextSHA256
	next.VerifiedAt = at
	return next, nil
}

// Fail moves any non-terminal state → Failed, the universal error path.
func (s State) Fail(reason string, at time.Time) (State, error) {
	if err := s.guard(Failed, "fail"); err != nil {
		return s, err
	}
	if reason == "" {
		return s, transition.Invalidated("failure reason is required")
	}
	next := s
	next.Status = Failed
	next.Reason = reason
	next.FailedAt = at
	return next, nil
}

// IsTerminal reports whether s is in a terminal state.
func (s State) IsTerminal() bool {
	return s.Status.IsTerminal()
}
