package config

import "testing"

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.EventStoreDir == "" {
		t.Fatalf("expected a default event store directory")
	}
	if cfg.KDFParams.Time == 0 || cfg.KDFParams.MemoryKiB == 0 {
		t.Fatalf("expected default KDF params to be populated")
	}
}

func TestIsFingerprintTrusted(t *testing.T) {
	cfg := Config{TrustedRootFingerprints: []string{"abc123"}}
	if !cfg.IsFingerprintTrusted("abc123") {
		t.Fatalf("expected abc123 to be trusted")
	}
	if cfg.IsFingerprintTrusted("def456") {
		t.Fatalf("expected def456 to be untrusted")
	}
}

func TestOverrideUint32RejectsGarbage(t *testing.T) {
	t.Setenv("KEYFORGE_KDF_TIME", "not-a-number")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Fatalf("expected an error for a non-numeric KEYFORGE_KDF_TIME")
	}
}
