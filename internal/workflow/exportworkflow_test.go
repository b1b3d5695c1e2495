package workflow

import (
	"testing"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

func TestExportWorkflowHappyPath(t *testing.T) {
	now := time.Now()
	s := NewExportWorkflow(ids.NewManifestID(), now)

	s, err := s.CapturePolicySnapshot("policy-hash-abc123")
	if err != nil {
		t.Fatalf("CapturePolicySnapshot: %v", err)
	}
	s, err = s.StartGenerating(now)
	if err != nil || s.Status != Generating {
		t.Fatalf("StartGenerating: %v", err)
	}
	s, err = s.StartEncrypting(now)
	if err != nil || s.Status != Encrypting {
		t.Fatalf("StartEncrypting: %v", err)
	}
	s, err = s.StartWriting(now)
	if err != nil || s.Status != Writing {
		t.Fatalf("StartWriting: %v", err)
	}
	s, err = s.StartVerifying("bafy...", "deadbeef", now)
	if err != nil || s.Status != Verifying {
		t.Fatalf("StartVerifying: %v", err)
	}
	s, err = s.Complete(now)
	if err != nil || !s.IsTerminal() {
		t.Fatalf("Complete: %v", err)
	}
}

func TestExportWorkflowRequiresPolicySnapshotBeforeLeavingPlanning(t *testing.T) {
	now := time.Now()
	s := NewExportWorkflow(ids.NewManifestID(), now)

	_, err := s.StartGenerating(now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.ValidationFailed {
		t.Fatalf("expected ValidationFailed, got %v", err)
	}
}

func TestExportWorkflowUniversalFailurePath(t *testing.T) {
	now := time.Now()
	s := NewExportWorkflow(ids.NewManifestID(), now)
	s, _ = s.CapturePolicySnapshot("policy-hash-abc123")
	s, _ = s.StartGenerating(now)
	s, _ = s.StartEncrypting(now)

	s, err := s.Fail("disk full", now)
	if err != nil || !s.IsTerminal() || s.Status != Failed {
		t.Fatalf("Fail: %v", err)
	}

	_, err = s.Fail("retry", now)
	te, ok := err.(*transition.Error)
	if !ok || te.Kind != transition.TerminalState {
		t.Fatalf("expected TerminalState, got %v", err)
	}
}

func TestExportWorkflowVerifyingCanFailOnHashMismatch(t *testing.T) {
	now := time.Now()
	s := NewExportWorkflow(ids.NewManifestID(), now)
	s, _ = s.CapturePolicySnapshot("policy-hash-abc123")
	s, _ = s.StartGenerating(now)
	s, _ = s.StartEncrypting(now)
	s, _ = s.StartWriting(now)
	s, _ = s.StartVerifying("bafy...", "deadbeef", now)

	s, err := s.Fail("ciphertext hash mismatch on re-read", now)
	if err != nil || s.Status != Failed {
		t.Fatalf("Fail from Verifying: %v", err)
	}
}
