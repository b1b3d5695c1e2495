package orchestrator

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"keyforge/internal/crypto"
	"keyforge/internal/domain/certimport"
	"keyforge/internal/domain/transition"
	"keyforge/internal/events"
	"keyforge/internal/hardware"
	"keyforge/internal/ids"
	"keyforge/internal/secret"
	"keyforge/internal/workflow"
)

// ImportCertificate drives certID's CertificateImport aggregate through
// its full lifecycle for one hardware slot on
// serial: select, validate the DER against RFC 5280 and against the
// device-reported key for the slot, request the PIN, write the
// certificate, and record success or failure. It is the
// granular counterpart to ProvisionYubiKey's all-slots-at-once sweep,
// used when a single slot needs to be (re)imported on its own.
//
// The underlying YubiKeyProvisioningState guard is checked before any
// hardware call is issued: calling this while serial's provisioning saga
// has not yet reached KeysGenerated returns the saga's own
// InvalidTransition error and never touches the device.
func (o *Orchestrator) ImportCertificate(ctx context.Context, serial ids.YubiKeySerial, slot hardware.Slot, certID ids.CertID, pin *secret.Text) error {
	prov, ok := o.provisioning[serial]
	if !ok {
		return fmt.Errorf("orchestrator: yubikey %s not detected", serial)
	}
	if !prov.CanTransitionTo(workflow.CertificatesImported) {
		return transition.Invalid(prov.Status.String(), "import_certificate", "provisioning saga is not ready to import certificates")
	}

	der, ok := o.certDER[certID]
	if !ok {
		return fmt.Errorf("orchestrator: certificate %s not in memory", certID)
	}

	imp, ok := o.certImports[certID]
	if !ok {
		imp = certimport.NewImport(certID)
	}

	sourcePath := "generated-cert:" + string(certID)
	at := o.now()
	imp, err := imp.Select(sourcePath, at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.CertificateSelected{ImportID: certID, SourcePath: sourcePath, SelectedAt: at}); err != nil {
		return err
	}

	at = o.now()
	imp, err = imp.StartValidation(at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.CertificateImportValidationStarted{ImportID: certID, StartedAt: at}); err != nil {
		return err
	}

	cert, _, verr := crypto.ParseCertificate(der)
	if verr == nil {
		// A certificate written to a slot must embed the key the device
		// actually holds there; anything else produces a sealed token
		// whose certificate is unusable. The device-reported public key
		// is only known once GenerateKeyInSlot has run for this slot.
		if devicePub, known := o.slotPubs[serial][slot]; known && !bytes.Equal(cert.RawSubjectPublicKeyInfo, devicePub) {
			verr = fmt.Errorf("orchestrator: certificate %s public key does not match the key in %s slot %s", certID, serial, slot)
		}
	}
	if verr != nil {
		at = o.now()
		if failed, ferr := imp.FailValidation(verr.Error(), at); ferr == nil {
			o.certImports[certID] = failed
		}
		_ = o.persist(ctx, &events.CertificateImportValidationFailed{ImportID: certID, Reason: verr.Error(), FailedAt: at})
		return verr
	}
	at = o.now()
	imp, err = imp.Validate(at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.CertificateImportValidated{ImportID: certID, ValidatedAt: at}); err != nil {
		return err
	}

	at = o.now()
	imp, err = imp.RequestPin(at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.CertificateImportPinAwaited{ImportID: certID, AwaitedAt: at}); err != nil {
		return err
	}

	at = o.now()
	imp, err = imp.SubmitCorrectPin(string(slot), at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.CertificateImportStarted{ImportID: certID, Slot: string(slot), StartedAt: at}); err != nil {
		return err
	}
	o.certImports[certID] = imp

	if hwErr := o.hw.ImportCertificate(ctx, serial, slot, der, pin); hwErr != nil {
		at = o.now()
		if failed, ferr := imp.FailImport(hwErr.Error(), at); ferr == nil {
			o.certImports[certID] = failed
		}
		_ = o.persist(ctx, &events.CertificateImportFailed{ImportID: certID, Reason: hwErr.Error(), FailedAt: at})
		return hwErr
	}

	at = o.now()
	imp, err = imp.CompleteImport(at)
	if err != nil {
		return err
	}
	o.certImports[certID] = imp
	if err := o.persist(ctx, &events.CertificateImported{ImportID: certID, Slot: string(slot), ImportedAt: at}); err != nil {
		return err
	}
	o.log.Info("certificate imported", zap.String("serial", string(serial)), zap.String("slot", string(slot)), zap.String("cert_id", string(certID)))
	return nil
}

// CertificateImportState returns the current CertificateImport aggregate
// state for certID, if one has been started.
func (o *Orchestrator) CertificateImportState(certID ids.CertID) (certimport.State, bool) {
	s, ok := o.certImports[certID]
	return s, ok
}
