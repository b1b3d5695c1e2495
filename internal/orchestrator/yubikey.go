package orchestrator

import (
	"context"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"

	"go.uber.org/zap"

	"keyforge/internal/crypto"
	"keyforge/internal/domain/certificate"
	"keyforge/internal/domain/yubikey"
	"keyforge/internal/events"
	"keyforge/internal/hardware"
	"keyforge/internal/ids"
	"keyforge/internal/secret"
	"keyforge/internal/workflow"
)

// slotAlgorithm is the key algorithm requested in every PIV slot; the
// hardware port's generate-in-slot call takes a bare string rather than a
// crypto.Algorithm because a real device encodes algorithm choice in its
// own vendor command set, not in keyforge's internal enum.
const slotAlgorithm = "ECCP256"

// DetectYubiKeys lists every device hw currently reports and seeds a
// Detected YubiKey aggregate plus a Detected provisioning saga for any
// serial not already known to this orchestrator.
func (o *Orchestrator) DetectYubiKeys(ctx context.Context) ([]ids.YubiKeySerial, error) {
	devices, err := o.hw.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	at := o.now()
	var serials []ids.YubiKeySerial
	for _, d := range devices {
		if _, known := o.yubikeys[d.Serial]; known {
			continue
		}
		o.yubikeys[d.Serial] = yubikey.NewDetected(d.Serial, d.Firmware, at)
		o.provisioning[d.Serial] = workflow.NewYubiKeyProvisioning(d.Serial)
		if err := o.persist(ctx, &events.YubiKeyDetected{Serial: d.Serial, DetectedAt: at}); err != nil {
			return nil, err
		}
		serials = append(serials, d.Serial)
	}
	return serials, nil
}

// ProvisionYubiKey drives serial's YubiKeyProvisioningState from Detected
// through to Sealed in one call: PIN verification, PIN rotation,
// management-key rotation, slot planning, in-slot key generation for
// every planned slot, per-slot certificate issuance and import,
// attestation, and seal. The certificate written to each slot is issued
// over the public key the device itself generated there, so the slot's
// private key and its certificate always correspond. Events are persisted
// as the work happens for each slot key, each slot certificate and its
// import, and the device's Provisioned and Activated steps; the
// provisioning saga's own transitions emit no event. The saga state is
// stored after key generation and again at seal: a failure before key
// generation leaves it at Detected, a failure after that but before seal
// leaves it at KeysGenerated. ProvisionYubiKey does not resume a partly
// provisioned device.
func (o *Orchestrator) ProvisionYubiKey(
	ctx context.Context,
	serial ids.YubiKeySerial,
	currentPIN, newPIN, currentMgmtKey, newMgmtKey *secret.Text,
	slots []hardware.Slot,
) error {
	prov, ok := o.provisioning[serial]
	if !ok {
		return fmt.Errorf("orchestrator: yubikey %s not detected", serial)
	}

	if _, err := o.hw.VerifyPIN(ctx, serial, currentPIN); err != nil {
		return err
	}
	at := o.now()
	prov, err := prov.Authenticate(at)
	if err != nil {
		return err
	}

	if err := o.hw.ChangePIN(ctx, serial, currentPIN, newPIN); err != nil {
		return err
	}
	at = o.now()
	prov, err = prov.ChangePIN(at)
	if err != nil {
		return err
	}

	if err := o.hw.ChangeManagementKey(ctx, serial, currentMgmtKey, newMgmtKey); err != nil {
		return err
	}
	at = o.now()
	prov, err = prov.RotateManagementKey(at)
	if err != nil {
		return err
	}

	slotNames := make([]string, len(slots))
	for i, s := range slots {
		slotNames[i] = string(s)
	}
	prov, err = prov.PlanSlots(slotNames, o.now())
	if err != nil {
		return err
	}

	slotKeys := map[string]ids.KeyID{}
	o.slotPubs[serial] = map[hardware.Slot][]byte{}
	for _, slot := range slots {
		pub, err := o.hw.GenerateKeyInSlot(ctx, serial, slot, slotAlgorithm, newMgmtKey)
		if err != nil {
			return err
		}
		keyID := ids.NewKeyID()
		slotKeys[string(slot)] = keyID
		o.slotPubs[serial][slot] = pub
		if err := o.persist(ctx, &events.KeyGenerated{KeyID: keyID, Algorithm: slotAlgorithm, PurposeTag: "yubikey." + string(serial) + "." + string(slot), PublicKey: pub, GeneratedAt: o.now()}); err != nil {
			return err
		}
	}
	prov, err = prov.GenerateKeys(slotKeys, o.now())
	if err != nil {
		return err
	}
	// Committed here, ahead of the loop below, so ImportCertificate's own
	// guard (which reads o.provisioning[serial] fresh) sees KeysGenerated
	// rather than the stale pre-saga state.
	o.provisioning[serial] = prov

	slotCerts := map[string]ids.CertID{}
	for _, slot := range slots {
		certID, err := o.issueSlotCertificate(ctx, serial, slot, slotKeys[string(slot)])
		if err != nil {
			return err
		}
		if err := o.ImportCertificate(ctx, serial, slot, certID, newPIN); err != nil {
			return err
		}
		slotCerts[string(slot)] = certID
	}
	prov, err = prov.ImportCertificates(slotCerts, o.now())
	if err != nil {
		return err
	}

	for _, slot := range slots {
		if _, err := o.hw.GetAttestation(ctx, serial, slot); err != nil {
			return err
		}
	}
	at = o.now()
	prov, err = prov.Attest(at)
	if err != nil {
		return err
	}

	at = o.now()
	prov, err = prov.Seal(at)
	if err != nil {
		return err
	}
	o.provisioning[serial] = prov

	yk := o.yubikeys[serial]
	yk, err = yk.Provision(at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.YubiKeyProvisioned{Serial: serial, ProvisionedAt: at}); err != nil {
		return err
	}
	yk, err = yk.Activate(at)
	if err != nil {
		return err
	}
	o.yubikeys[serial] = yk
	if err := o.persist(ctx, &events.YubiKeyActivated{Serial: serial, ActivatedAt: at}); err != nil {
		return err
	}

	next, err := o.pki.ProvisionYubiKey(serial, at)
	if err != nil {
		return err
	}
	o.pki = next
	o.log.Info("yubikey sealed", zap.String("serial", string(serial)), zap.String("final_config_hash", prov.FinalConfigHash))
	return nil
}

// issueSlotCertificate signs a certificate over the public key the device
// generated in slot, chained under the intermediate CA, and records the
// Certificate aggregate. The device never reveals the slot's private
// half: correspondence between slot key and certificate is established
// here by construction and re-checked on import.
func (o *Orchestrator) issueSlotCertificate(ctx context.Context, serial ids.YubiKeySerial, slot hardware.Slot, keyID ids.KeyID) (ids.CertID, error) {
	devicePub, ok := o.slotPubs[serial][slot]
	if !ok {
		return "", fmt.Errorf("orchestrator: no device key recorded for %s slot %s", serial, slot)
	}
	pub, err := x509.ParsePKIXPublicKey(devicePub)
	if err != nil {
		return "", fmt.Errorf("orchestrator: device key for %s slot %s: %w", serial, slot, err)
	}

	issuerCertID := o.pki.IntermediateCertID
	issuerKP, ok := o.keyPairs[o.pki.IntermediateCAKeyID]
	if !ok {
		return "", fmt.Errorf("orchestrator: intermediate CA key pair not in memory")
	}
	issuerDER, ok := o.certDER[issuerCertID]
	if !ok {
		return "", fmt.Errorf("orchestrator: intermediate CA certificate not in memory")
	}
	issuerCert, _, err := crypto.ParseCertificate(issuerDER)
	if err != nil {
		return "", err
	}

	at := o.now()
	subject := pkix.Name{CommonName: "yubikey-" + string(serial) + "-" + string(slot), Organization: []string{o.orgName}}
	params := crypto.ServerCertDefaults(at)
	params.Subject = subject
	params.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth}
	der, err := crypto.GenerateCertificateForPublicKey(pub, params, issuerCert, issuerKP)
	if err != nil {
		return "", err
	}

	certID := ids.NewCertID()
	certState := certificate.NewRequested(certID, keyID, subject.String(), at)
	if err := o.persist(ctx, &events.CertificateRequested{CertID: certID, KeyID: keyID, Subject: subject.String(), RequestedAt: at}); err != nil {
		return "", err
	}
	certState, err = certState.Issue(issuerCertID, params.NotBefore, params.NotAfter, at)
	if err != nil {
		return "", err
	}
	if err := o.persist(ctx, &events.CertificateIssued{CertID: certID, DER: der, IssuerID: issuerCertID, NotBefore: params.NotBefore, NotAfter: params.NotAfter, IssuedAt: at}); err != nil {
		return "", err
	}
	certState, err = certState.Activate(at)
	if err != nil {
		return "", err
	}
	if err := o.persist(ctx, &events.CertificateActivated{CertID: certID, ActivatedAt: at}); err != nil {
		return "", err
	}

	o.certs[certID] = certState
	o.certDER[certID] = der
	o.log.Info("slot certificate issued", zap.String("serial", string(serial)), zap.String("slot", string(slot)), zap.String("cert_id", string(certID)))
	return certID, nil
}
