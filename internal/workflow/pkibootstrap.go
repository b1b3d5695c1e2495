// Package workflow implements the three cross-aggregate saga state
// machines: PKIBootstrap, YubiKeyProvisioning, and Export.
// Each follows the same structural contract as the internal/domain
// aggregate machines but coordinates several aggregates at once, so it
// lives in its own package rather than under internal/domain.
package workflow

import (
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

// PKIBootstrapStatus is the closed set of states the whole-organization
// bootstrap saga passes through, Uninitialized through Bootstrapped,
// including the optional IntermediateCAPlanned step and its skip path.
type PKIBootstrapStatus int

const (
	Uninitialized PKIBootstrapStatus = iota
	RootCAPlanned
	RootCAGenerated
	IntermediateCAPlanned
	IntermediateCAGenerated
	LeafCertsGenerated
	YubiKeysProvisioned
	ExportReady
	Bootstrapped
)

func (s PKIBootstrapStatus) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case RootCAPlanned:
		return "RootCAPlanned"
	case RootCAGenerated:
		return "RootCAGenerated"
	case IntermediateCAPlanned:
		return "IntermediateCAPlanned"
	case IntermediateCAGenerated:
		return "IntermediateCAGenerated"
	case LeafCertsGenerated:
		return "LeafCertsGenerated"
	case YubiKeysProvisioned:
		return "YubiKeysProvisioned"
	case ExportReady:
		return "ExportReady"
	case Bootstrapped:
		return "Bootstrapped"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func (s PKIBootstrapStatus) IsTerminal() bool {
	return s == Bootstrapped
}

var pkiAllowed = map[PKIBootstrapStatus]map[PKIBootstrapStatus]bool{
	Uninitialized:           {RootCAPlanned: true},
	RootCAPlanned:           {RootCAGenerated: true},
	RootCAGenerated:         {IntermediateCAPlanned: true, IntermediateCAGenerated: true},
	IntermediateCAPlanned:   {IntermediateCAGenerated: true},
	IntermediateCAGenerated: {LeafCertsGenerated: true},
	LeafCertsGenerated:      {LeafCertsGenerated: true, YubiKeysProvisioned: true},
	YubiKeysProvisioned:     {YubiKeysProvisioned: true, ExportReady: true},
	ExportReady:             {Bootstrapped: true},
	Bootstrapped:            {},
}

// PKIBootstrapState is the saga's current state. It holds only identifiers
// of the aggregates it has driven into existence; it never embeds their
// full state.
type PKIBootstrapState struct {
	OrgID               ids.OrgID
	Status              PKIBootstrapStatus
	RootCAKeyID         ids.KeyID
	RootCACertID        ids.CertID
	IntermediateCAKeyID ids.KeyID
	IntermediateCertID  ids.CertID
	LeafCertIDs         []ids.CertID
	ProvisionedSerials  []ids.YubiKeySerial
	ExportManifestID    ids.ManifestID
	StartedAt           time.Time
	UpdatedAt           time.Time
}

// NewPKIBootstrap constructs the initial Uninitialized state for an
// organization.
func NewPKIBootstrap(orgID ids.OrgID, at time.Time) PKIBootstrapState {
	return PKIBootstrapState{OrgID: orgID, Status: Uninitialized, StartedAt: at, UpdatedAt: at}
}

// CanTransitionTo reports whether a transition from s's current status to
// target is legal.
func (s PKIBootstrapState) CanTransitionTo(target PKIBootstrapStatus) bool {
	return pkiAllowed[s.Status][target]
}

func (s PKIBootstrapState) guard(target PKIBootstrapStatus, event string) *transition.Error {
	if s.Status.IsTerminal() {
		return transition.Terminal(s.Status.String())
	}
	if !s.CanTransitionTo(target) {
		return transition.Invalid(s.Status.String(), event, "no such transition")
	}
	return nil
}

// PlanRootCA moves Uninitialized → RootCAPlanned. Guard: can_plan_root_ca.
func (s PKIBootstrapState) PlanRootCA(at time.Time) (PKIBootstrapState, error) {
	if err := s.guard(RootCAPlanned, "plan_root_ca"); err != nil {
		return s, err
	}
	next := s
	next.Status = RootCAPlanned
	next.UpdatedAt = at
	return next, nil
}

// GenerateRootCA moves RootCAPlanned → RootCAGenerated. Guard:
// can_generate_root_ca.
func (s PKIBootstrapState) GenerateRootCA(keyID ids.KeyID, certID ids.CertID, at time.Time) (PKIBootstrapState, error) {
	if err := s.guard(RootCAGenerated, "generate_root_ca"); err != nil {
		return s, err
	}
	next := s
	next.Status = RootCAGenerated
	next.RootCAKeyID = keyID
	next.RootCACertID = certID
	next.UpdatedAt = at
	return next, nil
}

// PlanIntermediateCA moves RootCAGenerated → IntermediateCAPlanned. Guard:
// can_plan_intermediate_ca.
func (s PKIBootstrapState) PlanIntermediateCA(at time.Time) (PKIBootstrapState, error) {
	if err := s.guard(IntermediateCAPlanned, "plan_intermediate_ca"); err != nil {
		return s, err
	}
	next := s
	next.Status = IntermediateCAPlanned
	next.UpdatedAt = at
	return next, nil
}

// GenerateIntermediateCA moves RootCAGenerated or IntermediateCAPlanned →
// IntermediateCAGenerated; the former is the "skip planning" path. Guard:
// can_generate_intermediate_ca.
func (s PKIBootstrapState) GenerateIntermediateCA(keyID ids.KeyID, certID ids.CertID, at time.Time) (PKIBootstrapState, error) {
	if err := s.guard(IntermediateCAGenerated, "generate_intermediate_ca"); err != nil {
		return s, err
	}
	next := s
	next.Status = IntermediateCAGenerated
	next.IntermediateCAKeyID = keyID
	next.IntermediateCertID = certID
	next.UpdatedAt = at
	return next, nil
}

// GenerateLeafCert moves IntermediateCAGenerated → LeafCertsGenerated, or
// self-loops within LeafCertsGenerated appending another leaf certificate
// id to the existing set. Guard: can_generate_leaf_cert.
func (s PKIBootstrapState) GenerateLeafCert(certID ids.CertID, at time.Time) (PKIBootstrapState, error) {
	if err := s.guard(LeafCertsGenerated, "generate_leaf_cert"); err != nil {
		return s, err
	}
	next := s
	next.Status = LeafCertsGenerated
	next.LeafCertIDs = append(append([]ids.CertID{}, s.LeafCertIDs...), certID)
	next.UpdatedAt = at
	return next, nil
}

// ProvisionYubiKey moves LeafCertsGenerated → YubiKeysProvisioned, or
// self-loops within YubiKeysProvisioned appending another provisioned
// device serial. Guard: can_provision_yubikey.
func (s PKIBootstrapState) ProvisionYubiKey(serial ids.YubiKeySerial, at time.Time) (PKIBootstrapState, error) {
	if err := s.guard(YubiKeysProvisioned, "provision_yubikey"); err != nil {
		return s, err
	}
	next := s
	next.Status = YubiKeysProvisioned
	next.ProvisionedSerials = append(append([]ids.YubiKeySerial{}, s.ProvisionedSerials...), serial)
	next.UpdatedAt = at
	return next, nil
}

// PrepareExport moves YubiKeysProvisioned → ExportReady. Guard:
// can_prepare_export.
func (s PKIBootstrapState) PrepareExport(at time.Time) (PKIBootstrapState, error) {
	if err := s.guard(ExportReady, "prepare_export"); err != nil {
		return s, err
	}
	next := s
	next.Status = ExportReady
	next.UpdatedAt = at
	return next, nil
}

// Export moves ExportReady → Bootstrapped, the terminal state. Guard:
// can_export.
func (s PKIBootstrapState) Export(manifestID ids.ManifestID, at time.Time) (PKIBootstrapState, error) {
	if err := s.guard(Bootstrapped, "export"); err != nil {
		return s, err
	}
	next := s
	next.Status = Bootstrapped
	next.ExportManifestID = manifestID
	next.UpdatedAt = at
	return next, nil
}

// IsTerminal reports whether s is in a terminal state.
func (s PKIBootstrapState) IsTerminal() bool {
	return s.Status.IsTerminal()
}
