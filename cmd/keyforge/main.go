// Command keyforge drives the offline PKI bootstrap engine end to end:
// root CA, intermediate CA, leaf certificates, YubiKey provisioning, and
// the encrypted cold-start export manifest. Every run is a single
// process lifetime — the orchestrator holds the bootstrap saga in
// memory and persists each event to the content-addressed store as it
// goes, so a crash mid-run leaves a resumable audit trail even though
// this binary itself does not yet rehydrate from it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"keyforge/internal/config"
	"keyforge/internal/crypto"
	"keyforge/internal/eventstore"
	"keyforge/internal/export"
	"keyforge/internal/hardware"
	"keyforge/internal/hardware/mock"
	"keyforge/internal/ids"
	"keyforge/internal/orchestrator"
	"keyforge/internal/projection"
	"keyforge/internal/secret"
	"keyforge/pkg/clock"
)

const version = "0.1.0"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// env bundles the process-wide collaborators every subcommand needs.
// It is built once in PersistentPreRunE and threaded through via
// cobra's command context value; concrete adapters are wired at the
// process boundary and interfaces passed inward.
type env struct {
	log    *zap.Logger
	clk    clock.Clock
	store  *eventstore.FileStore
	hw     hardware.Port
	writer *export.Writer
	orch   *orchestrator.Orchestrator
}

func newRootCmd() *cobra.Command {
	var e env

	root := &cobra.Command{
		Use:           "keyforge",
		Short:         "Offline PKI bootstrap and identity engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := buildEnv()
			if err != nil {
				return err
			}
			e = built
			cmd.SetContext(withEnv(cmd.Context(), &e))
			return nil
		},
	}

	root.AddCommand(
		newBootstrapCmd(),
		newYubiKeyCmd(),
		newExportCmd(),
		newStatusCmd(),
		newReplayCmd(),
	)
	return root
}

// buildEnv wires the concrete adapters: a zap production logger, a real
// clock, an afero-OS-backed event store rooted at config's event
// directory, a mock hardware port (no physical device required to run
// the bootstrap end to end), and the export writer. Swapping the
// hardware port for a CLI-shell-out or direct-hardware adapter is the
// only change required to point this binary at a real YubiKey.
func buildEnv() (env, error) {
	cfg, err := config.LoadConfigFromEnv()
	if err != nil {
		return env{}, fmt.Errorf("keyforge: loading config: %w", err)
	}

	log, err := zap.NewProduction()
	if err != nil {
		return env{}, fmt.Errorf("keyforge: building logger: %w", err)
	}

	clk := clock.NewReal()
	fs := afero.NewOsFs()
	store, err := eventstore.New(fs, cfg.EventStoreDir)
	if err != nil {
		return env{}, fmt.Errorf("keyforge: opening event store at %s: %w", cfg.EventStoreDir, err)
	}

	hw := mock.New("00000001")
	writer := export.NewWriter(fs, clk)
	orch := orchestrator.New(clk, log, store, hw, writer)

	return env{log: log, clk: clk, store: store, hw: hw, writer: writer, orch: orch}, nil
}

func newBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Drive the PKI bootstrap saga",
	}
	cmd.AddCommand(newBootstrapRunCmd())
	return cmd
}

func newBootstrapRunCmd() *cobra.Command {
	var (
		orgID       string
		orgName     string
		algorithm   string
		leafPurpose string
		leafDNS     []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run root CA, intermediate CA, and one leaf certificate generation in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			defer func() { _ = e.log.Sync() }()

			passphrase, err := readPassphrase()
			if err != nil {
				return err
			}
			defer passphrase.Close()

			alg, err := parseAlgorithm(algorithm)
			if err != nil {
				return err
			}

			id := ids.OrgID(orgID)
			if id == "" {
				id = ids.NewOrgID()
			}
			e.orch.StartBootstrap(id, orgName)

			if err := e.orch.PlanRootCA(); err != nil {
				return fmt.Errorf("plan root ca: %w", err)
			}
			if err := e.orch.GenerateRootCA(cmd.Context(), passphrase, alg); err != nil {
				return fmt.Errorf("generate root ca: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "root CA generated")

			if err := e.orch.PlanIntermediateCA(); err != nil {
				return fmt.Errorf("plan intermediate ca: %w", err)
			}
			if err := e.orch.GenerateIntermediateCA(cmd.Context(), passphrase); err != nil {
				return fmt.Errorf("generate intermediate ca: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "intermediate CA generated")

			certID, err := e.orch.GenerateLeafCert(cmd.Context(), passphrase, leafPurpose, leafDNS)
			if err != nil {
				return fmt.Errorf("generate leaf certificate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "leaf certificate generated: %s\n", certID)

			rm := e.orch.ReadModel()
			fmt.Fprintf(cmd.OutOrStdout(), "bootstrap status: %s\n", rm.BootstrapStatus)
			return nil
		},
	}

	cmd.Flags().StringVar(&orgID, "org-id", "", "Organization id (generated if empty)")
	cmd.Flags().StringVar(&orgName, "org-name", "", "Organization display name")
	cmd.Flags().StringVar(&algorithm, "algorithm", "ed25519", "Root CA key algorithm: ed25519, ecdsa-p256, rsa-2048, rsa-4096")
	cmd.Flags().StringVar(&leafPurpose, "leaf-purpose", "server", "Purpose tag for the first leaf certificate")
	cmd.Flags().StringSliceVar(&leafDNS, "leaf-dns", nil, "DNS SANs for the first leaf certificate")
	_ = cmd.MarkFlagRequired("org-name")
	return cmd
}

func newYubiKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yubikey",
		Short: "Detect and provision hardware security devices",
	}
	cmd.AddCommand(newYubiKeyDetectCmd(), newYubiKeyProvisionCmd())
	return cmd
}

func newYubiKeyDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "List and register every attached device",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			serials, err := e.orch.DetectYubiKeys(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range serials {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newYubiKeyProvisionCmd() *cobra.Command {
	var (
		serial     string
		newPIN     string
		newMgmtKey string
		slots      []string
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Drive a detected device from Detected to Sealed",
		Long: "Drive a detected device from Detected to Sealed: rotate the PIN and\n" +
			"management key, generate a key in each requested slot, issue a\n" +
			"certificate over each device-generated key under the intermediate CA,\n" +
			"import it, attest, and seal. Requires a completed bootstrap run in the\n" +
			"same process so the intermediate CA key is available to sign with.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())

			currentPIN := secret.New("123456")
			defer currentPIN.Close()
			pin := secret.New(newPIN)
			defer pin.Close()
			currentMgmt := secret.New("010203040506070801020304050607080102030405060708")
			defer currentMgmt.Close()
			mgmt := secret.New(newMgmtKey)
			defer mgmt.Close()

			hwSlots := make([]hardware.Slot, len(slots))
			for i, s := range slots {
				hwSlots[i] = hardware.Slot(s)
			}

			if err := e.orch.ProvisionYubiKey(cmd.Context(), ids.YubiKeySerial(serial), currentPIN, pin, currentMgmt, mgmt, hwSlots); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "yubikey %s sealed\n", serial)
			return nil
		},
	}

	cmd.Flags().StringVar(&serial, "serial", "", "Device serial, as reported by detect")
	cmd.Flags().StringVar(&newPIN, "new-pin", "", "New 6-8 digit PIN")
	cmd.Flags().StringVar(&newMgmtKey, "new-management-key", "", "New 48-hex-char management key")
	cmd.Flags().StringSliceVar(&slots, "slots", []string{string(hardware.SlotAuthentication)}, "PIV slots to provision")
	_ = cmd.MarkFlagRequired("serial")
	_ = cmd.MarkFlagRequired("new-pin")
	_ = cmd.MarkFlagRequired("new-management-key")
	return cmd
}

func newExportCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Prepare and run the encrypted cold-start export",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())

			if err := e.orch.PrepareExport(); err != nil {
				return fmt.Errorf("prepare export: %w", err)
			}

			passphrase, err := readPassphrase()
			if err != nil {
				return err
			}
			defer passphrase.Close()

			manifestID, err := e.orch.RunExport(cmd.Context(), path, passphrase)
			if err != nil {
				return fmt.Errorf("run export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export manifest written: %s (%s)\n", manifestID, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "keyforge-export.bin", "Output path for the encrypted manifest")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current bootstrap saga read model",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			rm := e.orch.ReadModel()
			fmt.Fprintf(cmd.OutOrStdout(), "org:            %s\n", rm.OrgID)
			fmt.Fprintf(cmd.OutOrStdout(), "status:         %s\n", rm.BootstrapStatus)
			fmt.Fprintf(cmd.OutOrStdout(), "root ca:        %s\n", rm.RootCACertID)
			fmt.Fprintf(cmd.OutOrStdout(), "intermediate:   %s\n", rm.IntermediateCertID)
			fmt.Fprintf(cmd.OutOrStdout(), "leaf certs:     %d\n", rm.LeafCertCount)
			fmt.Fprintf(cmd.OutOrStdout(), "devices:        %d\n", rm.ProvisionedDevices)
			fmt.Fprintf(cmd.OutOrStdout(), "export manifest: %s\n", rm.ExportManifestID)
			return nil
		},
	}
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Rebuild the projection from the persisted event stream and print row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			p, err := projection.Load(cmd.Context(), e.store)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "organizations: %d\n", len(p.Organizations))
			fmt.Fprintf(cmd.OutOrStdout(), "persons:       %d\n", len(p.Persons))
			fmt.Fprintf(cmd.OutOrStdout(), "locations:     %d\n", len(p.Locations))
			fmt.Fprintf(cmd.OutOrStdout(), "keys:          %d\n", len(p.Keys))
			fmt.Fprintf(cmd.OutOrStdout(), "certificates:  %d\n", len(p.Certificates))
			fmt.Fprintf(cmd.OutOrStdout(), "yubikeys:      %d\n", len(p.YubiKeys))
			fmt.Fprintf(cmd.OutOrStdout(), "manifests:     %d\n", len(p.Manifests))
			return nil
		},
	}
}

// readPassphrase reads the bootstrap passphrase from KEYFORGE_PASSPHRASE
// rather than a flag, so it never appears in a process listing or shell
// history.
func readPassphrase() (*secret.Text, error) {
	raw := os.Getenv("KEYFORGE_PASSPHRASE")
	if raw == "" {
		return nil, fmt.Errorf("keyforge: KEYFORGE_PASSPHRASE must be set")
	}
	return secret.New(raw), nil
}

func parseAlgorithm(s string) (crypto.Algorithm, error) {
	switch s {
	case "ed25519":
		return crypto.Ed25519, nil
	case "ecdsa-p256":
		return crypto.ECDSAP256, nil
	case "rsa-2048":
		return crypto.RSA2048, nil
	case "rsa-4096":
		return crypto.RSA4096, nil
	default:
		return 0, fmt.Errorf("keyforge: unknown algorithm %q", s)
	}
}
