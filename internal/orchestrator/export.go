package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"keyforge/internal/cid"
	"keyforge/internal/domain/manifest"
	"keyforge/internal/events"
	"keyforge/internal/export"
	"keyforge/internal/ids"
	"keyforge/internal/secret"
	"keyforge/internal/workflow"
)

// PrepareExport moves the PKIBootstrap saga from YubiKeysProvisioned to
// ExportReady. Callers must have generated at least one leaf certificate
// and provisioned at least one YubiKey before this guard will pass (the
// saga's own CanTransitionTo enforces that, not this method).
func (o *Orchestrator) PrepareExport() error {
	next, err := o.pki.PrepareExport(o.now())
	if err != nil {
		return err
	}
	o.pki = next
	return nil
}

// policySnapshotHash fingerprints the current PKI state (the certificate
// ids the bootstrap has produced so far) for the export workflow's policy
// snapshot. The hash is kept on the ExportWorkflowState; it is not written
// into the manifest.
func (o *Orchestrator) policySnapshotHash() string {
	h := sha256.New()
	h.Write([]byte(o.pki.RootCACertID))
	h.Write([]byte(o.pki.IntermediateCertID))
	for _, c := range o.pki.LeafCertIDs {
		h.Write([]byte(c))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RunExport drives the export workflow saga end to end: it builds a
// Manifest from every key, certificate, and provisioned device this
// orchestrator holds, writes it encrypted under passphrase to path, and
// re-reads the result to confirm integrity before moving the PKIBootstrap
// saga to its terminal Bootstrapped state.
func (o *Orchestrator) RunExport(ctx context.Context, path string, passphrase *secret.Text) (ids.ManifestID, error) {
	manifestID := ids.NewManifestID()
	at := o.now()

	manifestState := manifest.NewInitializing(manifestID, at)
	o.manifests[manifestID] = manifestState
	if err := o.persist(ctx, &events.ManifestInitialized{ManifestID: manifestID, InitializedAt: at}); err != nil {
		return "", err
	}

	wf := workflow.NewExportWorkflow(manifestID, at)
	wf, err := wf.CapturePolicySnapshot(o.policySnapshotHash())
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	if err := o.persist(ctx, &events.ExportPlanned{ManifestID: manifestID, PlannedAt: at}); err != nil {
		return "", err
	}

	at = o.now()
	wf, err = wf.StartGenerating(at)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	entries := o.collectEntries()
	manifestState, err = manifestState.StartCollecting(len(entries), at)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	o.manifests[manifestID] = manifestState
	if err := o.persist(ctx, &events.ManifestCollecting{ManifestID: manifestID, ItemCount: len(entries), StartedAt: at}); err != nil {
		return "", err
	}
	if err := o.persist(ctx, &events.ExportGenerating{ManifestID: manifestID, StartedAt: at}); err != nil {
		return "", err
	}

	at = o.now()
	wf, err = wf.StartEncrypting(at)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	manifestState, err = manifestState.StartEncrypting(at)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	o.manifests[manifestID] = manifestState
	if err := o.persist(ctx, &events.ManifestEncrypting{ManifestID: manifestID, StartedAt: at}); err != nil {
		return "", err
	}

	m := export.Manifest{
		ManifestID: manifestID,
		CreatedAt:  at,
		Entries:    entries,
		Encryption: export.Encryption{Algorithm: "AES-256-GCM"},
		Integrity:  export.Integrity{RootHash: export.ContentRootHash(entries), Algorithm: "SHA-256"},
	}

	at = o.now()
	wf, err = wf.StartWriting(at)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	manifestState, err = manifestState.StartWriting(at)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	o.manifests[manifestID] = manifestState
	if err := o.persist(ctx, &events.ManifestWriting{ManifestID: manifestID, StartedAt: at}); err != nil {
		return "", err
	}

	sidecar, err := o.writer.Write(ctx, path, m, o.orgID, passphrase)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}

	at = o.now()
	wf, err = wf.StartVerifying(sidecar.ManifestCID, sidecar.CiphertextSHA256, at)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	reread, err := o.writer.Verify(ctx, path)
	if err != nil || reread.CiphertextSHA256 != sidecar.CiphertextSHA256 {
		verr := err
		if verr == nil {
			verr = fmt.Errorf("orchestrator: manifest re-read hash mismatch")
		}
		return "", o.failExport(ctx, manifestID, wf, verr)
	}

	manifestState, err = manifestState.Verify(cid.DomainCID(sidecar.ManifestCID), sidecar.CiphertextSHA256, at)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	o.manifests[manifestID] = manifestState
	if err := o.persist(ctx, &events.ManifestCompleted{ManifestID: manifestID, ManifestCID: cid.DomainCID(sidecar.ManifestCID), CiphertextSHA256: sidecar.CiphertextSHA256, CompletedAt: at}); err != nil {
		return "", err
	}
	if err := o.persist(ctx, &events.ManifestVerified{ManifestID: manifestID, VerifiedAt: at}); err != nil {
		return "", err
	}

	wf, err = wf.Complete(at)
	if err != nil {
		return "", o.failExport(ctx, manifestID, wf, err)
	}
	o.exportWF = &wf
	if err := o.persist(ctx, &events.ExportCompleted{ManifestID: manifestID, CompletedAt: at}); err != nil {
		return "", err
	}

	next, err := o.pki.Export(manifestID, at)
	if err != nil {
		return "", err
	}
	o.pki = next
	o.log.Info("export completed", zap.String("manifest_id", string(manifestID)), zap.String("manifest_cid", sidecar.ManifestCID))
	return manifestID, nil
}

// failExport transitions both the ExportWorkflowState and the Manifest
// aggregate to their Failed terminal, persists a ManifestFailed and
// ExportFailed event pair for audit, and returns cause unchanged. An
// error from those transitions or from persisting the events is dropped.
func (o *Orchestrator) failExport(ctx context.Context, manifestID ids.ManifestID, wf workflow.ExportWorkflowState, cause error) error {
	at := o.now()
	reason := cause.Error()
	if failed, ferr := wf.Fail(reason, at); ferr == nil {
		o.exportWF = &failed
	}
	if m, ok := o.manifests[manifestID]; ok {
		if failed, ferr := m.Fail(reason, at); ferr == nil {
			o.manifests[manifestID] = failed
		}
	}
	_ = o.persist(ctx, &events.ManifestFailed{ManifestID: manifestID, Reason: reason, FailedAt: at})
	_ = o.persist(ctx, &events.ExportFailed{ManifestID: manifestID, Reason: reason, FailedAt: at})
	o.log.Warn("export failed", zap.String("manifest_id", string(manifestID)), zap.Error(cause))
	return cause
}

// collectEntries snapshots every certificate and key this orchestrator
// holds, plus every sealed YubiKey, into the Manifest entry list.
func (o *Orchestrator) collectEntries() []export.Entry {
	var entries []export.Entry
	for id, k := range o.keys {
		entries = append(entries, export.Entry{Kind: "key", ReferenceID: string(id), Detail: k.Algorithm + ":" + k.PurposeTag})
	}
	for id, c := range o.certs {
		entries = append(entries, export.Entry{Kind: "certificate", ReferenceID: string(id), Detail: c.Subject})
	}
	for serial, prov := range o.provisioning {
		if prov.Status == workflow.Sealed {
			entries = append(entries, export.Entry{Kind: "yubikey", ReferenceID: string(serial), Detail: prov.FinalConfigHash})
		}
	}
	for id, op := range o.natsOperators {
		entries = append(entries, export.Entry{Kind: "nats-operator", ReferenceID: string(id), Detail: op.Name})
	}
	for id, acc := range o.natsAccounts {
		entries = append(entries, export.Entry{Kind: "nats-account", ReferenceID: string(id), Detail: acc.Name})
	}
	for id, usr := range o.natsUsers {
		entries = append(entries, export.Entry{Kind: "nats-user", ReferenceID: string(id), Detail: string(usr.AccountID)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		if entries[i].ReferenceID != entries[j].ReferenceID {
			return entries[i].ReferenceID < entries[j].ReferenceID
		}
		return entries[i].Detail < entries[j].Detail
	})
	return entries
}
