package workflow

import (
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

// ExportWorkflowStatus is the closed set of states the manifest export
// saga passes through: five happy-path states plus two terminals.
type ExportWorkflowStatus int

const (
	Planning ExportWorkflowStatus = iota
	Generating
	Encrypting
	Writing
	Verifying
	Completed
	Failed
)

func (s ExportWorkflowStatus) String() string {
	switch s {
	case Planning:
		return "Planning"
	case Generating:
		return "Generating"
	case Encrypting:
		return "Encrypting"
	case Writing:
		return "Writing"
	case Verifying:
		return "Verifying"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func (s ExportWorkflowStatus) IsTerminal() bool {
	return s == Completed || s == Failed
}

var exportHappyPath = map[ExportWorkflowStatus]ExportWorkflowStatus{
	Planning:   Generating,
	Generating: Encrypting,
	Encrypting: Writing,
	Writing:    Verifying,
	Verifying:  Completed,
}

// ExportWorkflowState is the manifest export saga's current state.
type ExportWorkflowState struct {
	ManifestID         ids.ManifestID
	Status             ExportWorkflowStatus
	PolicySnapshotHash string
	ManifestCID        string
	CiphertextSHA256   string
	FailureReason      string
	StartedAt          time.Time
	UpdatedAt          time.Time
	FailedAt           time.Time
	CompletedAt        time.Time
}

// NewExportWorkflow constructs the initial Planning state.
func NewExportWorkflow(id ids.ManifestID, at time.Time) ExportWorkflowState {
	return ExportWorkflowState{ManifestID: id, Status: Planning, StartedAt: at, UpdatedAt: at}
}

// CanTransitionTo reports whether a transition from s's current status to
// target is legal: either the next happy-path step, or Failed from any
// non-terminal state.
func (s ExportWorkflowState) CanTransitionTo(target ExportWorkflowStatus) bool {
	if target == Failed {
		return !s.Status.IsTerminal()
	}
	return exportHappyPath[s.Status] == target
}

func (s ExportWorkflowState) guard(target ExportWorkflowStatus, event string) *transition.Error {
	if s.Status.IsTerminal() {
		return transition.Terminal(s.Status.String())
	}
	if !s.CanTransitionTo(target) {
		return transition.Invalid(s.Status.String(), event, "no such transition")
	}
	return nil
}

// CapturePolicySnapshot records the caller's snapshot hash on the export
// state; the saga may not leave Planning without one. The hash is kept on
// this state only.
func (s ExportWorkflowState) CapturePolicySnapshot(hash string) (ExportWorkflowState, error) {
	if hash == "" {
		return s, transition.Invalidated("policy snapshot hash is required")
	}
	next := s
	next.PolicySnapshotHash = hash
	return next, nil
}

// StartGenerating moves Planning → Generating. Requires a policy snapshot
// hash to already be bound.
func (s ExportWorkflowState) StartGenerating(at time.Time) (ExportWorkflowState, error) {
	if s.Status == Planning && s.PolicySnapshotHash == "" {
		return s, transition.Invalidated("policy snapshot hash must be captured before leaving Planning")
	}
	if err := s.guard(Generating, "start_generating"); err != nil {
		return s, err
	}
	next := s
	next.Status = Generating
	next.UpdatedAt = at
	return next, nil
}

// StartEncrypting moves Generating → Encrypting.
func (s ExportWorkflowState) StartEncrypting(at time.Time) (ExportWorkflowState, error) {
	if err := s.guard(Encrypting, "start_encrypting"); err != nil {
		return s, err
	}
	next := s
	next.Status = Encrypting
	next.UpdatedAt = at
	return next, nil
}

// StartWriting moves Encrypting → Writing.
func (s ExportWorkflowState) StartWriting(at time.Time) (ExportWorkflowState, error) {
	if err := s.guard(Writing, "start_writing"); err != nil {
		return s, err
	}
	next := s
	next.Status = Writing
	next.UpdatedAt = at
	return next, nil
}

// StartVerifying moves Writing → Verifying, recording the manifest CID and
// ciphertext hash produced by the write.
func (s ExportWorkflowState) StartVerifying(manifestCID, ciphertextSHA256 string, at time.Time) (ExportWorkflowState, error) {
	if err := s.guard(Verifying, "start_verifying"); err != nil {
		return s, err
	}
	next := s
	next.Status = Verifying
	next.ManifestCID = manifestCID
	next.CiphertextSHA256 = ciphertextSHA256
	next.UpdatedAt = at
	return next, nil
}

// Complete moves Verifying → Completed, the success terminal, once the
// re-read of the artifact has reconfirmed the recorded hash.
func (s ExportWorkflowState) Complete(at time.Time) (ExportWorkflowState, error) {
	if err := s.guard(Completed, "complete"); err != nil {
		return s, err
	}
	next := s
	next.Status = Completed
	next.CompletedAt = at
	next.UpdatedAt = at
	return next, nil
}

// Fail moves any non-terminal state to Failed, the error terminal. A
// partially written export is detected on the next attempt by this
// transition firing out of Verifying when the re-read hash mismatches.
func (s ExportWorkflowState) Fail(reason string, at time.Time) (ExportWorkflowState, error) {
	if reason == "" {
		return s, transition.Invalidated("failure reason is required")
	}
	if err := s.guard(Failed, "fail"); err != nil {
		return s, err
	}
	next := s
	next.Status = Failed
	next.FailureReason = reason
	next.FailedAt = at
	next.UpdatedAt = at
	return next, nil
}

// IsTerminal reports whether s is in a terminal state.
func (s ExportWorkflowState) IsTerminal() bool {
	return s.Status.IsTerminal()
}
