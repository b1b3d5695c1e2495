package workflow

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"keyforge/internal/domain/transition"
	"keyforge/internal/ids"
)

// YubiKeyProvisioningStatus is the closed, strictly linear set of states a
// single device passes through on its way to being sealed.
type YubiKeyProvisioningStatus int

const (
	Detected YubiKeyProvisioningStatus = iota
	Authenticated
	PINChanged
	ManagementKeyRotated
	SlotsPlanned
	KeysGenerated
	CertificatesImported
	Attested
	Sealed
)

func (s YubiKeyProvisioningStatus) String() string {
	switch s {
	case Detected:
		return "Detected"
	case Authenticated:
		return "Authenticated"
	case PINChanged:
		return "PINChanged"
	case ManagementKeyRotated:
		return "ManagementKeyRotated"
	case SlotsPlanned:
		return "SlotsPlanned"
	case KeysGenerated:
		return "KeysGenerated"
	case CertificatesImported:
		return "CertificatesImported"
	case Attested:
		return "Attested"
	case Sealed:
		return "Sealed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func (s YubiKeyProvisioningStatus) IsTerminal() bool {
	return s == Sealed
}

var yubiProvisioningAllowed = map[YubiKeyProvisioningStatus]map[YubiKeyProvisioningStatus]bool{
	Detected:             {Authenticated: true},
	Authenticated:        {PINChanged: true},
	PINChanged:           {ManagementKeyRotated: true},
	ManagementKeyRotated: {SlotsPlanned: true},
	SlotsPlanned:         {KeysGenerated: true},
	KeysGenerated:        {CertificatesImported: true},
	CertificatesImported: {Attested: true},
	Attested:             {Sealed: true},
	Sealed:               {},
}

// YubiKeyProvisioningState is one device's provisioning saga state.
type YubiKeyProvisioningState struct {
	Serial                 ids.YubiKeySerial
	Status                 YubiKeyProvisioningStatus
	PINChangedAt           time.Time
	ManagementKeyRotatedAt time.Time
	PlannedSlots           []string
	SlotKeys               map[string]ids.KeyID
	ImportedCerts          map[string]ids.CertID
	AttestedAt             time.Time
	FinalConfigHash        string
	SealedAt               time.Time
}

// NewYubiKeyProvisioning constructs the initial Detected state for a
// freshly plugged-in device.
func NewYubiKeyProvisioning(serial ids.YubiKeySerial) YubiKeyProvisioningState {
	return YubiKeyProvisioningState{
		Serial:        serial,
		Status:        Detected,
		SlotKeys:      map[string]ids.KeyID{},
		ImportedCerts: map[string]ids.CertID{},
	}
}

// CanTransitionTo reports whether a transition from s's current status to
// target is legal.
func (s YubiKeyProvisioningState) CanTransitionTo(target YubiKeyProvisioningStatus) bool {
	return yubiProvisioningAllowed[s.Status][target]
}

func (s YubiKeyProvisioningState) guard(target YubiKeyProvisioningStatus, event string) *transition.Error {
	if s.Status.IsTerminal() {
		return transition.Terminal(s.Status.String())
	}
	if !s.CanTransitionTo(target) {
		return transition.Invalid(s.Status.String(), event, "no such transition")
	}
	return nil
}

// Authenticate moves Detected → Authenticated once the current PIN has
// been verified against the device.
func (s YubiKeyProvisioningState) Authenticate(at time.Time) (YubiKeyProvisioningState, error) {
	if err := s.guard(Authenticated, "authenticate"); err != nil {
		return s, err
	}
	next := s
	next.Status = Authenticated
	return next, nil
}

// ChangePIN moves Authenticated → PINChanged.
func (s YubiKeyProvisioningState) ChangePIN(at time.Time) (YubiKeyProvisioningState, error) {
	if err := s.guard(PINChanged, "change_pin"); err != nil {
		return s, err
	}
	next := s
	next.Status = PINChanged
	next.PINChangedAt = at
	return next, nil
}

// RotateManagementKey moves PINChanged → ManagementKeyRotated.
func (s YubiKeyProvisioningState) RotateManagementKey(at time.Time) (YubiKeyProvisioningState, error) {
	if err := s.guard(ManagementKeyRotated, "rotate_management_key"); err != nil {
		return s, err
	}
	next := s
	next.Status = ManagementKeyRotated
	next.ManagementKeyRotatedAt = at
	return next, nil
}

// PlanSlots moves ManagementKeyRotated → SlotsPlanned.
func (s YubiKeyProvisioningState) PlanSlots(slots []string, at time.Time) (YubiKeyProvisioningState, error) {
	if err := s.guard(SlotsPlanned, "plan_slots"); err != nil {
		return s, err
	}
	if len(slots) == 0 {
		return s, transition.Invalidated("at least one slot must be planned")
	}
	next := s
	next.Status = SlotsPlanned
	next.PlannedSlots = append([]string{}, slots...)
	return next, nil
}

// GenerateKeys moves SlotsPlanned → KeysGenerated.
func (s YubiKeyProvisioningState) GenerateKeys(slotKeys map[string]ids.KeyID, at time.Time) (YubiKeyProvisioningState, error) {
	if err := s.guard(KeysGenerated, "generate_keys"); err != nil {
		return s, err
	}
	next := s
	next.Status = KeysGenerated
	next.SlotKeys = map[string]ids.KeyID{}
	for slot, keyID := range slotKeys {
		next.SlotKeys[slot] = keyID
	}
	return next, nil
}

// ImportCertificates moves KeysGenerated → CertificatesImported.
func (s YubiKeyProvisioningState) ImportCertificates(slotCerts map[string]ids.CertID, at time.Time) (YubiKeyProvisioningState, error) {
	if err := s.guard(CertificatesImported, "import_certificates"); err != nil {
		return s, err
	}
	next := s
	next.Status = CertificatesImported
	next.ImportedCerts = map[string]ids.CertID{}
	for slot, certID := range slotCerts {
		next.ImportedCerts[slot] = certID
	}
	return next, nil
}

// Attest moves CertificatesImported → Attested.
func (s YubiKeyProvisioningState) Attest(at time.Time) (YubiKeyProvisioningState, error) {
	if err := s.guard(Attested, "attest"); err != nil {
		return s, err
	}
	next := s
	next.Status = Attested
	next.AttestedAt = at
	return next, nil
}

// Seal moves Attested → Sealed, the terminal state. It computes the
// SHA-256 fingerprint over "<serial>:sealed:<rfc3339-timestamp>"; the
// resulting FinalConfigHash and SealedAt are immutable thereafter.
func (s YubiKeyProvisioningState) Seal(at time.Time) (YubiKeyProvisioningState, error) {
	if err := s.guard(Sealed, "seal"); err != nil {
		return s, err
	}
	next := s
	next.Status = Sealed
	next.SealedAt = at
	sum := sha256.Sum256([]byte(string(s.Serial) + ":sealed:" + at.UTC().Format(time.RFC3339)))
	next.FinalConfigHash = hex.EncodeToString(sum[:])
	return next, nil
}

// IsTerminal reports whether s is in a terminal state.
func (s YubiKeyProvisioningState) IsTerminal() bool {
	return s.Status.IsTerminal()
}
