// Package orchestrator implements the bootstrap orchestrator: the
// single component that owns the active PKIBootstrapState, the
// map of per-device YubiKeyProvisioningState, the active
// ExportWorkflowState, and the aggregate state maps those sagas drive.
// It receives one call per saga step, dispatches into internal/crypto and
// internal/hardware, folds the resulting aggregate transitions, and
// persists the emitted events through an events.Store. Its status views
// are ReadModel values; a few accessors return other types: ids, the
// certificate chain, the live projection.Projection, and
// CertificateImportState, which returns the certimport.State aggregate
// itself.
package orchestrator

import (
	"context"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"time"

	"go.uber.org/zap"

	"keyforge/internal/bus"
	"keyforge/internal/crypto"
	"keyforge/internal/dispatch"
	"keyforge/internal/domain/certificate"
	"keyforge/internal/domain/certimport"
	"keyforge/internal/domain/key"
	"keyforge/internal/domain/manifest"
	"keyforge/internal/domain/natsaccount"
	"keyforge/internal/domain/natsoperator"
	"keyforge/internal/domain/natsuser"
	"keyforge/internal/domain/transition"
	"keyforge/internal/domain/yubikey"
	"keyforge/internal/events"
	"keyforge/internal/export"
	"keyforge/internal/hardware"
	"keyforge/internal/ids"
	"keyforge/internal/projection"
	"keyforge/internal/secret"
	"keyforge/internal/workflow"
	"keyforge/pkg/clock"
)

const (
	purposeRootCA = "root-ca"
	purposeInterCA = "intermediate-ca"
)

// Orchestrator drives one organization's bootstrap from Uninitialized to
// Bootstrapped. It is process-wide in practice (orchestrator, event
// store, and hardware port are singletons created at startup) but
// nothing here enforces that; cmd/
// constructs exactly one.
type Orchestrator struct {
	clock  clock.Clock
	log    *zap.Logger
	store  events.Store
	hw     hardware.Port
	writer *export.Writer
	pub    bus.Publisher

	dispatcher *dispatch.Dispatcher
	proj       *projection.Projection

	orgID         ids.OrgID
	orgName       string
	correlationID ids.CorrelationID
	lastEventID   *ids.EventID
	kdfParams     crypto.KDFParams

	pki          workflow.PKIBootstrapState
	keys         map[ids.KeyID]key.State
	keyPairs     map[ids.KeyID]crypto.KeyPair
	certs        map[ids.CertID]certificate.State
	certDER      map[ids.CertID][]byte
	yubikeys     map[ids.YubiKeySerial]yubikey.State
	provisioning map[ids.YubiKeySerial]workflow.YubiKeyProvisioningState
	slotPubs     map[ids.YubiKeySerial]map[hardware.Slot][]byte
	certImports  map[ids.CertID]certimport.State
	manifests    map[ids.ManifestID]manifest.State
	exportWF     *workflow.ExportWorkflowState

	natsOperators map[ids.NatsOperatorID]natsoperator.State
	natsAccounts  map[ids.NatsAccountID]natsaccount.State
	natsUsers     map[ids.NatsUserID]natsuser.State
}

// New constructs an Orchestrator for a single bootstrap run. log may be
// nil, in which case zap.NewNop() is used — tests construct an
// Orchestrator far more often than they want log output.
func New(clk clock.Clock, log *zap.Logger, store events.Store, hw hardware.Port, writer *export.Writer) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		clock:        clk,
		log:          log,
		store:        store,
		hw:           hw,
		writer:       writer,
		pub:          nil,
		dispatcher:   dispatch.New(clk),
		proj:         projection.New(),
		kdfParams:    crypto.DefaultKDFParams(),
		keys:         map[ids.KeyID]key.State{},
		keyPairs:     map[ids.KeyID]crypto.KeyPair{},
		certs:        map[ids.CertID]certificate.State{},
		certDER:      map[ids.CertID][]byte{},
		yubikeys:     map[ids.YubiKeySerial]yubikey.State{},
		provisioning: map[ids.YubiKeySerial]workflow.YubiKeyProvisioningState{},
		slotPubs:     map[ids.YubiKeySerial]map[hardware.Slot][]byte{},
		certImports:  map[ids.CertID]certimport.State{},
		manifests:    map[ids.ManifestID]manifest.State{},
		natsOperators: map[ids.NatsOperatorID]natsoperator.State{},
		natsAccounts:  map[ids.NatsAccountID]natsaccount.State{},
		natsUsers:     map[ids.NatsUserID]natsuser.State{},
	}
}

// WithPublisher attaches an external bus publisher. It is optional: a nil
// publisher (the default, per New) means events are persisted but never
// republished externally, which is the correct behavior for an offline
// bootstrap run with no messaging-system transport configured.
func (o *Orchestrator) WithPublisher(pub bus.Publisher) *Orchestrator {
	o.pub = pub
	return o
}

// now reads the injected clock in UTC, the only place Orchestrator
// touches time.
func (o *Orchestrator) now() time.Time {
	return o.clock.Now().UTC()
}

// persist wraps event in a fresh envelope carrying o's correlation id and
// the causation id of whichever event most recently advanced this
// orchestrator's state, then stores it idempotently. The new envelope's
// event id becomes the next causation id, so the chain of causation
// mirrors the chain of state transitions exactly.
func (o *Orchestrator) persist(ctx context.Context, ev events.DomainEvent) error {
	var causationID *ids.CausationID
	if o.lastEventID != nil {
		cid := ids.CausationID(*o.lastEventID)
		causationID = &cid
	}
	env := events.EventEnvelope{
		EventID:       ids.NewEventID(),
		CorrelationID: o.correlationID,
		CausationID:   causationID,
		Timestamp:     o.now(),
		Event:         ev,
		SubjectPath:   events.Subject(ev),
		KDFParams: &events.KDFParams{
			Time:        o.kdfParams.Time,
			MemoryKiB:   o.kdfParams.MemoryKiB,
			Parallelism: o.kdfParams.Parallelism,
			KeyLen:      o.kdfParams.KeyLen,
		},
	}
	domainCID, err := o.store.StoreOrGet(ctx, env)
	if err != nil {
		return fmt.Errorf("orchestrator: persist %s: %w", ev.Kind(), err)
	}
	eventID := env.EventID
	o.lastEventID = &eventID
	if err := o.proj.Apply(env); err != nil {
		return fmt.Errorf("orchestrator: project %s: %w", ev.Kind(), err)
	}
	o.log.Debug("persisted event", zap.String("kind", ev.Kind()), zap.String("domain_cid", string(domainCID)))
	if o.pub != nil {
		env.DomainCID = domainCID
		if err := o.pub.PublishEvent(ctx, env); err != nil {
			o.log.Warn("bus publish failed", zap.String("kind", ev.Kind()), zap.Error(err))
		}
	}
	return nil
}

// Projection returns the live snapshot this orchestrator has folded from
// every event it persisted. Callers treat it as read-only; a caller that
// wants an independent copy rebuilds one with projection.Load.
func (o *Orchestrator) Projection() *projection.Projection {
	return o.proj
}

// StartBootstrap begins a fresh PKIBootstrap saga for orgID/orgName. It is
// the orchestrator's one entry point that does not require a prior state:
// everything after this call is a guarded transition from Uninitialized.
func (o *Orchestrator) StartBootstrap(orgID ids.OrgID, orgName string) {
	o.orgID = orgID
	o.orgName = orgName
	o.correlationID = ids.NewCorrelationID()
	o.lastEventID = nil
	o.pki = workflow.NewPKIBootstrap(orgID, o.now())
	o.log.Info("bootstrap started", zap.String("org_id", string(orgID)), zap.String("correlation_id", string(o.correlationID)))
}

// PlanRootCA moves Uninitialized → RootCAPlanned. No cryptography happens
// here; it only records operator intent to proceed.
func (o *Orchestrator) PlanRootCA() error {
	next, err := o.pki.PlanRootCA(o.now())
	if err != nil {
		return err
	}
	o.pki = next
	return nil
}

// GenerateRootCA derives the root signing key from passphrase under the
// "root-ca" purpose tag, self-signs a CA certificate over it, and records
// both the CryptographicKey and Certificate aggregates before advancing
// the saga to RootCAGenerated.
func (o *Orchestrator) GenerateRootCA(ctx context.Context, passphrase *secret.Text, alg crypto.Algorithm) error {
	// Guard up front: key-generation events must not be persisted for a
	// transition the saga would reject afterwards.
	if !o.pki.CanTransitionTo(workflow.RootCAGenerated) {
		return transition.Invalid(o.pki.Status.String(), "generate_root_ca", "no such transition")
	}
	seed, err := crypto.DeriveSeed(passphrase, o.orgID, purposeRootCA, o.kdfParams)
	if err != nil {
		return err
	}
	kp, err := crypto.GenerateKeyPair(seed, alg)
	if err != nil {
		return err
	}
	at := o.now()
	keyID := ids.NewKeyID()
	pubBytes, err := publicKeyBytes(kp)
	if err != nil {
		return err
	}
	keyState := key.NewGenerated(keyID, kp.Algorithm.String(), purposeRootCA, pubBytes, at)
	if err := o.persist(ctx, &events.KeyGenerated{KeyID: keyID, Algorithm: kp.Algorithm.String(), PurposeTag: purposeRootCA, PublicKey: pubBytes, GeneratedAt: at}); err != nil {
		return err
	}
	keyState, err = keyState.Activate(at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.KeyActivated{KeyID: keyID, ActivatedAt: at}); err != nil {
		return err
	}

	subject := pkix.Name{CommonName: o.orgName, Organization: []string{o.orgName}}
	params := crypto.RootCADefaults(at)
	params.Subject = subject
	der, err := crypto.GenerateRootCA(kp, params)
	if err != nil {
		return err
	}

	certID := ids.NewCertID()
	certState := certificate.NewRequested(certID, keyID, subject.String(), at)
	if err := o.persist(ctx, &events.CertificateRequested{CertID: certID, KeyID: keyID, Subject: subject.String(), RequestedAt: at}); err != nil {
		return err
	}
	certState, err = certState.Issue(certID, params.NotBefore, params.NotAfter, at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.CertificateIssued{CertID: certID, DER: der, IssuerID: certID, NotBefore: params.NotBefore, NotAfter: params.NotAfter, IssuedAt: at}); err != nil {
		return err
	}
	certState, err = certState.Activate(at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.CertificateActivated{CertID: certID, ActivatedAt: at}); err != nil {
		return err
	}

	o.keys[keyID] = keyState
	o.keyPairs[keyID] = kp
	o.certs[certID] = certState
	o.certDER[certID] = der

	next, err := o.pki.GenerateRootCA(keyID, certID, at)
	if err != nil {
		return err
	}
	o.pki = next
	o.log.Info("root CA generated", zap.String("key_id", string(keyID)), zap.String("cert_id", string(certID)))
	return nil
}

// PlanIntermediateCA moves RootCAGenerated → IntermediateCAPlanned, the
// optional planning step; callers may skip straight to
// GenerateIntermediateCA instead.
func (o *Orchestrator) PlanIntermediateCA() error {
	next, err := o.pki.PlanIntermediateCA(o.now())
	if err != nil {
		return err
	}
	o.pki = next
	return nil
}

// GenerateIntermediateCA derives the intermediate signing key under the
// "intermediate-ca" purpose tag, inheriting the root's algorithm, and
// signs it with the root key.
func (o *Orchestrator) GenerateIntermediateCA(ctx context.Context, passphrase *secret.Text) error {
	if !o.pki.CanTransitionTo(workflow.IntermediateCAGenerated) {
		return transition.Invalid(o.pki.Status.String(), "generate_intermediate_ca", "no such transition")
	}
	rootKeyID := o.pki.RootCAKeyID
	rootKP, ok := o.keyPairs[rootKeyID]
	if !ok {
		return fmt.Errorf("orchestrator: root CA key pair not in memory")
	}
	rootCertID := o.pki.RootCACertID
	rootDER, ok := o.certDER[rootCertID]
	if !ok {
		return fmt.Errorf("orchestrator: root CA certificate not in memory")
	}
	rootCert, _, err := crypto.ParseCertificate(rootDER)
	if err != nil {
		return err
	}

	seed, err := crypto.DeriveSeed(passphrase, o.orgID, purposeInterCA, o.kdfParams)
	if err != nil {
		return err
	}
	kp, err := crypto.GenerateKeyPair(seed, rootKP.Algorithm)
	if err != nil {
		return err
	}
	at := o.now()
	keyID := ids.NewKeyID()
	pubBytes, err := publicKeyBytes(kp)
	if err != nil {
		return err
	}
	keyState := key.NewGenerated(keyID, kp.Algorithm.String(), purposeInterCA, pubBytes, at)
	if err := o.persist(ctx, &events.KeyGenerated{KeyID: keyID, Algorithm: kp.Algorithm.String(), PurposeTag: purposeInterCA, PublicKey: pubBytes, GeneratedAt: at}); err != nil {
		return err
	}
	keyState, err = keyState.Activate(at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.KeyActivated{KeyID: keyID, ActivatedAt: at}); err != nil {
		return err
	}

	subject := pkix.Name{CommonName: o.orgName + " Intermediate CA", Organization: []string{o.orgName}}
	params := crypto.IntermediateCADefaults(at, rootCert.MaxPathLen)
	params.Subject = subject
	der, err := crypto.GenerateIntermediateCA(kp, params, rootCert, rootKP)
	if err != nil {
		return err
	}

	certID := ids.NewCertID()
	certState := certificate.NewRequested(certID, keyID, subject.String(), at)
	if err := o.persist(ctx, &events.CertificateRequested{CertID: certID, KeyID: keyID, Subject: subject.String(), RequestedAt: at}); err != nil {
		return err
	}
	certState, err = certState.Issue(rootCertID, params.NotBefore, params.NotAfter, at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.CertificateIssued{CertID: certID, DER: der, IssuerID: rootCertID, NotBefore: params.NotBefore, NotAfter: params.NotAfter, IssuedAt: at}); err != nil {
		return err
	}
	certState, err = certState.Activate(at)
	if err != nil {
		return err
	}
	if err := o.persist(ctx, &events.CertificateActivated{CertID: certID, ActivatedAt: at}); err != nil {
		return err
	}

	o.keys[keyID] = keyState
	o.keyPairs[keyID] = kp
	o.certs[certID] = certState
	o.certDER[certID] = der

	next, err := o.pki.GenerateIntermediateCA(keyID, certID, at)
	if err != nil {
		return err
	}
	o.pki = next
	o.log.Info("intermediate CA generated", zap.String("key_id", string(keyID)), zap.String("cert_id", string(certID)))
	return nil
}

// GenerateLeafCert derives a leaf signing key under purposeTag (typically
// the destination service name), signs a non-CA server certificate under
// the intermediate CA, and appends the new certificate id to the saga's
// growing leaf set. The saga guarantees an intermediate exists before
// this transition is reachable.
func (o *Orchestrator) GenerateLeafCert(ctx context.Context, passphrase *secret.Text, purposeTag string, dnsNames []string) (ids.CertID, error) {
	if !o.pki.CanTransitionTo(workflow.LeafCertsGenerated) {
		return "", transition.Invalid(o.pki.Status.String(), "generate_leaf_cert", "no such transition")
	}
	issuerKeyID := o.pki.IntermediateCAKeyID
	issuerCertID := o.pki.IntermediateCertID
	issuerKP, ok := o.keyPairs[issuerKeyID]
	if !ok {
		return "", fmt.Errorf("orchestrator: issuer key pair not in memory")
	}
	issuerDER, ok := o.certDER[issuerCertID]
	if !ok {
		return "", fmt.Errorf("orchestrator: issuer certificate not in memory")
	}
	issuerCert, _, err := crypto.ParseCertificate(issuerDER)
	if err != nil {
		return "", err
	}

	seed, err := crypto.DeriveSeed(passphrase, o.orgID, purposeTag, o.kdfParams)
	if err != nil {
		return "", err
	}
	kp, err := crypto.GenerateKeyPair(seed, issuerKP.Algorithm)
	if err != nil {
		return "", err
	}
	at := o.now()
	keyID := ids.NewKeyID()
	pubBytes, err := publicKeyBytes(kp)
	if err != nil {
		return "", err
	}
	keyState := key.NewGenerated(keyID, kp.Algorithm.String(), purposeTag, pubBytes, at)
	if err := o.persist(ctx, &events.KeyGenerated{KeyID: keyID, Algorithm: kp.Algorithm.String(), PurposeTag: purposeTag, PublicKey: pubBytes, GeneratedAt: at}); err != nil {
		return "", err
	}
	keyState, err = keyState.Activate(at)
	if err != nil {
		return "", err
	}
	if err := o.persist(ctx, &events.KeyActivated{KeyID: keyID, ActivatedAt: at}); err != nil {
		return "", err
	}

	subject := pkix.Name{CommonName: purposeTag, Organization: []string{o.orgName}}
	params := crypto.ServerCertDefaults(at)
	params.Subject = subject
	params.DNSNames = dnsNames
	der, err := crypto.GenerateServerCertificate(kp, params, issuerCert, issuerKP)
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

	o.keys[keyID] = keyState
	o.keyPairs[keyID] = kp
	o.certs[certID] = certState
	o.certDER[certID] = der

	next, err := o.pki.GenerateLeafCert(certID, at)
	if err != nil {
		return "", err
	}
	o.pki = next
	o.log.Info("leaf certificate generated", zap.String("purpose_tag", purposeTag), zap.String("cert_id", string(certID)))
	return certID, nil
}

// CertificateChain assembles the verifiable chain for certID: itself,
// every intermediate between it and the root, and the root last.
func (o *Orchestrator) CertificateChain(certID ids.CertID) (crypto.CertificateChain, error) {
	var chain crypto.CertificateChain
	current := certID
	seen := map[ids.CertID]bool{}
	for {
		if seen[current] {
			return crypto.CertificateChain{}, fmt.Errorf("orchestrator: certificate chain cycle at %s", current)
		}
		seen[current] = true
		der, ok := o.certDER[current]
		if !ok {
			return crypto.CertificateChain{}, fmt.Errorf("orchestrator: certificate %s not in memory", current)
		}
		chain.DER = append(chain.DER, der)
		state := o.certs[current]
		if state.IssuerID == "" || state.IssuerID == current {
			break
		}
		current = state.IssuerID
	}
	return chain, nil
}

// publicKeyBytes extracts a PKIX DER encoding of kp's public half for
// embedding in events; it never touches Private.
func publicKeyBytes(kp crypto.KeyPair) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(kp.Public)
	if err != nil {
		return nil, &crypto.CryptoError{Kind: crypto.KeyGenFailed, Detail: err.Error()}
	}
	return der, nil
}
