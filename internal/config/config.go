// Package config loads keyforge's environment-level settings: where the
// event store lives, which root fingerprints are trusted, and what KDF
// cost parameters to derive seeds with. Nothing here ever defaults a
// secret value silently — a missing passphrase is a caller error, not a
// config concern.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"keyforge/internal/crypto"
)

// Config is the process-wide environment configuration for keyforge. It
// carries no secret material — only paths, fingerprints, and cost
// parameters.
type Config struct {
	EventStoreDir           string
	TrustedRootFingerprints []string
	KDFParams               crypto.KDFParams
}

// LoadConfigFromEnv reads KEYFORGE_EVENT_DIR, KEYFORGE_TRUSTED_ROOTS
// (comma-separated hex fingerprints), and the KEYFORGE_KDF_* overrides,
// falling back to crypto.DefaultKDFParams() for anything unset.
func LoadConfigFromEnv() (Config, error) {
	dir := os.Getenv("KEYFORGE_EVENT_DIR")
	if dir == "" {
		dir = "./keyforge-events"
	}

	var fingerprints []string
	if raw := os.Getenv("KEYFORGE_TRUSTED_ROOTS"); raw != "" {
		for _, fp := range strings.Split(raw, ",") {
			if fp = strings.TrimSpace(fp); fp != "" {
				fingerprints = append(fingerprints, fp)
			}
		}
	}

	params := crypto.DefaultKDFParams()
	if err := overrideUint32(&params.Time, "KEYFORGE_KDF_TIME"); err != nil {
		return Config{}, err
	}
	if err := overrideUint32(&params.MemoryKiB, "KEYFORGE_KDF_MEMORY_KIB"); err != nil {
		return Config{}, err
	}
	if err := overrideUint8(&params.Parallelism, "KEYFORGE_KDF_PARALLELISM"); err != nil {
		return Config{}, err
	}

	return Config{
		EventStoreDir:           dir,
		TrustedRootFingerprints: fingerprints,
		KDFParams:               params,
	}, nil
}

// IsFingerprintTrusted reports whether fp is in the configured trust set.
func (c Config) IsFingerprintTrusted(fp string) bool {
	for _, trusted := range c.TrustedRootFingerprints {
		if trusted == fp {
			return true
		}
	}
	return false
}

func overrideUint32(dst *uint32, envVar string) error {
	raw := os.Getenv(envVar)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("config: %s: %w", envVar, err)
	}
	*dst = uint32(v)
	return nil
}

func overrideUint8(dst *uint8, envVar string) error {
	raw := os.Getenv(envVar)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return fmt.Errorf("config: %s: %w", envVar, err)
	}
	*dst = uint8(v)
	return nil
}
