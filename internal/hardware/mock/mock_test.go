package mock

import (
	"context"
	"testing"

	"keyforge/internal/hardware"
	"keyforge/internal/ids"
	"keyforge/internal/secret"
)

func TestFullProvisioningFlow(t *testing.T) {
	ctx := context.Background()
	serial := ids.YubiKeySerial("12345678")
	a := New(serial)

	pin := secret.New("123456")
	defer pin.Close()
	if _, err := a.VerifyPIN(ctx, serial, pin); err != nil {
		t.Fatalf("VerifyPIN: %v", err)
	}

	newPIN := secret.New("654321")
	defer newPIN.Close()
	if err := a.ChangePIN(ctx, serial, pin, newPIN); err != nil {
		t.Fatalf("ChangePIN: %v", err)
	}

	oldKey := secret.New("010203040506070801020304050607080102030405060708")
	newKey := secret.New("112233445566778811223344556677881122334455667788")
	defer oldKey.Close()
	defer newKey.Close()
	if err := a.ChangeManagementKey(ctx, serial, oldKey, newKey); err != nil {
		t.Fatalf("ChangeManagementKey: %v", err)
	}

	pub, err := a.GenerateKeyInSlot(ctx, serial, hardware.SlotSigning, "ed25519", newKey)
	if err != nil || len(pub) == 0 {
		t.Fatalf("GenerateKeyInSlot: %v", err)
	}

	if err := a.ImportCertificate(ctx, serial, hardware.SlotSigning, []byte("fake-der"), newPIN); err != nil {
		t.Fatalf("ImportCertificate: %v", err)
	}

	att, err := a.GetAttestation(ctx, serial, hardware.SlotSigning)
	if err != nil || len(att) == 0 {
		t.Fatalf("GetAttestation: %v", err)
	}
}

func TestPINLocksAfterThreeFailures(t *testing.T) {
	ctx := context.Background()
	serial := ids.YubiKeySerial("x")
	a := New(serial)

	wrong := secret.New("000000")
	defer wrong.Close()
	for i := 0; i < hardware.MaxPINAttempts-1; i++ {
		if _, err := a.VerifyPIN(ctx, serial, wrong); err != hardware.ErrInvalidPIN {
			t.Fatalf("attempt %d: expected ErrInvalidPIN, got %v", i, err)
		}
	}
	if _, err := a.VerifyPIN(ctx, serial, wrong); err != hardware.ErrDeviceLocked {
		t.Fatalf("expected ErrDeviceLocked, got %v", err)
	}

	correct := secret.New("123456")
	defer correct.Close()
	if _, err := a.VerifyPIN(ctx, serial, correct); err != hardware.ErrDeviceLocked {
		t.Fatalf("expected device to stay locked, got %v", err)
	}
}

func TestRejectsMalformedPIN(t *testing.T) {
	ctx := context.Background()
	serial := ids.YubiKeySerial("x")
	a := New(serial)
	bad := secret.New("abc")
	defer bad.Close()
	if _, err := a.VerifyPIN(ctx, serial, bad); err != hardware.ErrInvalidPIN {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
}

func TestImportCertificateRequiresGeneratedKey(t *testing.T) {
	ctx := context.Background()
	serial := ids.YubiKeySerial("x")
	a := New(serial)
	pin := secret.New("123456")
	defer pin.Close()
	err := a.ImportCertificate(ctx, serial, hardware.SlotKeyManagement, []byte("der"), pin)
	if err != hardware.ErrSlotEmpty {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}
}

func TestGenerateKeyInSlotIsDeterministicPerSerialAndSlot(t *testing.T) {
	ctx := context.Background()
	serial := ids.YubiKeySerial("12345678")
	mgmt := secret.New("010203040506070801020304050607080102030405060708")
	defer mgmt.Close()

	pub1, err := New(serial).GenerateKeyInSlot(ctx, serial, hardware.SlotSigning, "ed25519", mgmt)
	if err != nil {
		t.Fatalf("GenerateKeyInSlot: %v", err)
	}
	pub2, err := New(serial).GenerateKeyInSlot(ctx, serial, hardware.SlotSigning, "ed25519", mgmt)
	if err != nil {
		t.Fatalf("GenerateKeyInSlot: %v", err)
	}
	if string(pub1) != string(pub2) {
		t.Fatalf("expected the same serial+slot to report the same key")
	}

	other, err := New(serial).GenerateKeyInSlot(ctx, serial, hardware.SlotAuthentication, "ed25519", mgmt)
	if err != nil {
		t.Fatalf("GenerateKeyInSlot: %v", err)
	}
	if string(other) == string(pub1) {
		t.Fatalf("expected distinct slots to hold distinct keys")
	}
}
