// Package mock implements an in-memory, deterministic hardware.Port for
// tests and for running the bootstrap without a physical device
// attached. Each simulated device is seeded per serial so the same
// serial always starts from the same known PIN/management-key/slot
// state across a test run.
package mock

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"io"
	"math/big"
	"sync"

	"golang.org/x/crypto/hkdf"

	"keyforge/internal/hardware"
	"keyforge/internal/ids"
	"keyforge/internal/secret"
)

const (
	defaultPIN           = "123456"
	defaultManagementKey = "010203040506070801020304050607080102030405060708"
)

type deviceState struct {
	firmware      string
	pin           string
	managementKey string
	attempts      int
	locked        bool
	slots         map[hardware.Slot][]byte
	certs         map[hardware.Slot][]byte
}

// Adapter is an in-memory hardware.Port.
type Adapter struct {
	mu      sync.Mutex
	devices map[ids.YubiKeySerial]*deviceState
}

var _ hardware.Port = (*Adapter)(nil)

// New constructs an Adapter with the given serials pre-detected, each
// seeded with the default factory PIN and management key.
func New(serials ...ids.YubiKeySerial) *Adapter {
	a := &Adapter{devices: map[ids.YubiKeySerial]*deviceState{}}
	for _, serial := range serials {
		a.devices[serial] = &deviceState{
			firmware:      "5.4.3",
			pin:           defaultPIN,
			managementKey: defaultManagementKey,
			slots:         map[hardware.Slot][]byte{},
			certs:         map[hardware.Slot][]byte{},
		}
	}
	return a
}

func (a *Adapter) ListDevices(ctx context.Context) ([]hardware.Device, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]hardware.Device, 0, len(a.devices))
	for serial, d := range a.devices {
		out = append(out, hardware.Device{Serial: serial, Firmware: d.firmware})
	}
	return out, nil
}

func (a *Adapter) VerifyPIN(ctx context.Context, serial ids.YubiKeySerial, pin *secret.Text) (int, error) {
	if err := hardware.ValidatePINFormat(pin); err != nil {
		return 0, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.devices[serial]
	if !ok {
		return 0, hardware.ErrDeviceNotFound
	}
	if d.locked {
		return 0, hardware.ErrDeviceLocked
	}
	if string(pin.Reveal()) != d.pin {
		d.attempts++
		remaining := hardware.MaxPINAttempts - d.attempts
		if remaining <= 0 {
			d.locked = true
			return 0, hardware.ErrDeviceLocked
		}
		return remaining, hardware.ErrInvalidPIN
	}
	d.attempts = 0
	return hardware.MaxPINAttempts, nil
}

func (a *Adapter) ChangePIN(ctx context.Context, serial ids.YubiKeySerial, oldPIN, newPIN *secret.Text) error {
	if _, err := a.VerifyPIN(ctx, serial, oldPIN); err != nil {
		return err
	}
	if err := hardware.ValidatePINFormat(newPIN); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.devices[serial]
	d.pin = string(newPIN.Reveal())
	return nil
}

func (a *Adapter) ChangeManagementKey(ctx context.Context, serial ids.YubiKeySerial, oldKey, newKey *secret.Text) error {
	a.mu.Lock()
	d, ok := a.devices[serial]
	a.mu.Unlock()
	if !ok {
		return hardware.ErrDeviceNotFound
	}
	if string(oldKey.Reveal()) != d.managementKey {
		return hardware.ErrInvalidManagementKey
	}
	if err := hardware.ValidateManagementKeyFormat(newKey); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	d.managementKey = string(newKey.Reveal())
	return nil
}

func (a *Adapter) GenerateKeyInSlot(ctx context.Context, serial ids.YubiKeySerial, slot hardware.Slot, algorithm string, managementKey *secret.Text) ([]byte, error) {
	a.mu.Lock()
	d, ok := a.devices[serial]
	a.mu.Unlock()
	if !ok {
		return nil, hardware.ErrDeviceNotFound
	}
	if string(managementKey.Reveal()) != d.managementKey {
		return nil, hardware.ErrInvalidManagementKey
	}
	// Derived per (serial, slot) rather than drawn from the OS so the
	// same simulated device always reports the same slot key, matching
	// the determinism the rest of the bootstrap is tested against. P-256
	// is what a real PIV applet generates for ECCP256; the returned
	// bytes are a PKIX SubjectPublicKeyInfo DER, the same shape a real
	// device reports. The scalar is read straight from the stream because
	// ecdsa.GenerateKey may consume an extra byte of its reader at random.
	stream := hkdf.New(sha256.New, []byte(string(serial)+":"+string(slot)), nil, []byte("mock.slot-key.v1"))
	curve := elliptic.P256()
	buf := make([]byte, 40)
	if _, err := io.ReadFull(stream, buf); err != nil {
		return nil, err
	}
	k := new(big.Int).SetBytes(buf)
	k.Mod(k, new(big.Int).Sub(curve.Params().N, big.NewInt(1))).Add(k, big.NewInt(1))
	priv := &ecdsa.PrivateKey{D: k}
	priv.PublicKey.Curve = curve
	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(k.FillBytes(make([]byte, 32)))
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	d.slots[slot] = der
	a.mu.Unlock()
	return der, nil
}

func (a *Adapter) ImportCertificate(ctx context.Context, serial ids.YubiKeySerial, slot hardware.Slot, certDER []byte, pin *secret.Text) error {
	if _, err := a.VerifyPIN(ctx, serial, pin); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.devices[serial]
	if _, ok := d.slots[slot]; !ok {
		return hardware.ErrSlotEmpty
	}
	d.certs[slot] = append([]byte{}, certDER...)
	return nil
}

func (a *Adapter) GetAttestation(ctx context.Context, serial ids.YubiKeySerial, slot hardware.Slot) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.devices[serial]
	if !ok {
		return nil, hardware.ErrDeviceNotFound
	}
	pub, ok := d.slots[slot]
	if !ok {
		return nil, hardware.ErrSlotEmpty
	}
	fingerprint := hex.EncodeToString(pub)
	return []byte("attestation:" + string(serial) + ":" + string(slot) + ":" + fingerprint), nil
}
