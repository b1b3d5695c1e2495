package certimport

import (
	"time"

	"keyforge/internal/domain/transition"
)

var allowed = map[Status]map[Status]bool{
	NoCertificateSelected: {CertificateSelected: true},
	CertificateSelected:   {Validating: true},
	Validating:            {Validated: true, ValidationFailed: true},
	Validated:             {AwaitingPin: true},
	ValidationFailed:      {CertificateSelected: true},
	AwaitingPin:           {Importing: true, PinFailed: true},
	PinFailed:             {AwaitingPin: true, ImportFailed: true},
	Importing:             {Imported: true, ImportFailed: true},
	ImportFailed:          {AwaitingPin: true, CertificateSelected: true},
	Imported:              {},
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

// Select moves NoCertificateSelected → CertificateSelected, or
// ValidationFailed/ImportFailed → CertificateSelected to retry with a
// (possibly different) source file.
func (s State) Select(sourcePath string, at time.Time) (State, error) {
	if sourcePath == "" {
		return s, transition.Invalidated("source path is required")
	}
	if err := s.guard(CertificateSelected, "select"); err != nil {
		return s, err
	}
	next := s
	next.Status = CertificateSelected
	next.SourcePath = sourcePath
	next.Reason = ""
	next.SelectedAt = at
	return next, nil
}

// StartValidation moves CertificateSelected → Validating.
func (s State) StartValidation(at time.Time) (State, error) {
	if err := s.guard(Validating, "start_validation"); err != nil {
		return s, err
	}
	next := s
	next.Status = Validating
	return next, nil
}

// Validate moves Validating → Validated.
func (s State) Validate(at time.Time) (State, error) {
	if err := s.guard(Validated, "validate"); err != nil {
		return s, err
	}
	next := s
	next.Status = Validated
	next.ValidatedAt = at
	return next, nil
}

// FailValidation moves Validating → ValidationFailed.
func (s State) FailValidation(reason string, at time.Time) (State, error) {
	if err := s.guard(ValidationFailed, "fail_validation"); err != nil {
		return s, err
	}
	if reason == "" {
		return s, transition.Invalidated("failure reason is required")
	}
	next := s
	next.Status = ValidationFailed
	next.Reason = reason
	next.FailedAt = at
	return next, nil
}

// RequestPin moves Validated → AwaitingPin.
func (s State) RequestPin(at time.Time) (State, error) {
	if s.PinAttempts >= MaxPinAttempts {
		return s, transition.Invalidated("PIN attempts exhausted")
	}
	if err := s.guard(AwaitingPin, "request_pin"); err != nil {
		return s, err
	}
	next := s
	next.Status = AwaitingPin
	next.AwaitedAt = at
	return next, nil
}

// SubmitCorrectPin moves AwaitingPin → Importing, resetting the attempt
// counter and recording the destination slot.
func (s State) SubmitCorrectPin(slot string, at time.Time) (State, error) {
	if err := s.guard(Importing, "submit_pin"); err != nil {
		return s, err
	}
	next := s
	next.Status = Importing
	next.Slot = slot
	next.PinAttempts = 0
	next.StartedAt = at
	return next, nil
}

// SubmitWrongPin moves AwaitingPin → PinFailed, incrementing the attempt
// counter. Once PinAttempts reaches MaxPinAttempts the applet is
// considered locked and the import can only be abandoned via
// ImportFailed.
func (s State) SubmitWrongPin(at time.Time) (State, error) {
	if err := s.guard(PinFailed, "submit_pin"); err != nil {
		return s, err
	}
	next := s
	next.Status = PinFailed
	next.PinAttempts++
	next.FailedAt = at
	if next.PinAttempts >= MaxPinAttempts {
		next.Status = ImportFailed
		next.Reason = "PIN attempts exhausted, device locked"
	}
	return next, nil
}

// RetryPin moves PinFailed → AwaitingPin for another attempt, so long as
// attempts remain.
func (s State) RetryPin(at time.Time) (State, error) {
	if s.PinAttempts >= MaxPinAttempts {
		return s, transition.Invalidated("PIN attempts exhausted")
	}
	if err := s.guard(AwaitingPin, "retry_pin"); err != nil {
		return s, err
	}
	next := s
	next.Status = AwaitingPin
	next.AwaitedAt = at
	return next, nil
}

// CompleteImport moves Importing → Imported, the terminal state.
func (s State) CompleteImport(at time.Time) (State, error) {
	if err := s.guard(Imported, "complete_import"); err != nil {
		return s, err
	}
	next := s
	next.Status = Imported
	next.ImportedAt = at
	return next, nil
}

// FailImport moves Importing → ImportFailed.
func (s State) FailImport(reason string, at time.Time) (State, error) {
	if err := s.guard(ImportFailed, "fail_import"); err != nil {
		return s, err
	}
	if reason == "" {
		return s, transition.Invalidated("failure reason is required")
	}
	next := s
	next.Status = ImportFailed
	next.Reason = reason
	next.FailedAt = at
	return next, nil
}

// IsTerminal reports whether s is in a terminal state.
func (s State) IsTerminal() bool {
	return s.Status.IsTerminal()
}
