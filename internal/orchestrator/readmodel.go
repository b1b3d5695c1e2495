package orchestrator

import (
	"time"

	"keyforge/internal/ids"
)

// ReadModel is the status view internal/orchestrator hands back. It
// carries strings, counts, and timestamps only — never a workflow or
// aggregate State struct — so presentation code that reads it does not
// depend on an internal bounded context's own types. CertificateImportState
// is the one Orchestrator accessor that returns an aggregate State instead.
type ReadModel struct {
	OrgID              string    `json:"org_id,omitempty"`
	BootstrapStatus    string    `json:"bootstrap_status,omitempty"`
	RootCACertID       string    `json:"root_ca_cert_id,omitempty"`
	IntermediateCertID string    `json:"intermediate_cert_id,omitempty"`
	LeafCertCount      int       `json:"leaf_cert_count"`
	ProvisionedDevices int       `json:"provisioned_devices"`
	ExportManifestID   string    `json:"export_manifest_id,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`

	PersonID     string `json:"person_id,omitempty"`
	PersonStatus string `json:"person_status,omitempty"`

	OrganizationStatus string `json:"organization_status,omitempty"`

	LocationID     string `json:"location_id,omitempty"`
	LocationStatus string `json:"location_status,omitempty"`

	YubiKeySerial           string `json:"yubikey_serial,omitempty"`
	YubiKeyProvisioning     string `json:"yubikey_provisioning_status,omitempty"`
	YubiKeyFinalConfigHash  string `json:"yubikey_final_config_hash,omitempty"`

	ExportWorkflowStatus string `json:"export_workflow_status,omitempty"`

	CertImportStatus string `json:"cert_import_status,omitempty"`
}

// ReadModel derives the current snapshot of o's PKIBootstrap saga — the
// one view the presentation layer ever sees. It never exposes a
// workflow.PKIBootstrapState or any aggregate State directly: every field
// below is a plain string, id, count, or timestamp copied out of them.
func (o *Orchestrator) ReadModel() ReadModel {
	rm := ReadModel{
		OrgID:              string(o.orgID),
		BootstrapStatus:    o.pki.Status.String(),
		RootCACertID:       string(o.pki.RootCACertID),
		IntermediateCertID: string(o.pki.IntermediateCertID),
		LeafCertCount:      len(o.pki.LeafCertIDs),
		ProvisionedDevices: len(o.pki.ProvisionedSerials),
		ExportManifestID:   string(o.pki.ExportManifestID),
		UpdatedAt:          o.pki.UpdatedAt,
	}
	if o.exportWF != nil {
		rm.ExportWorkflowStatus = o.exportWF.Status.String()
	}
	return rm
}

// YubiKeyReadModel derives a snapshot of a single device's provisioning
// saga, for presentation code that needs per-device status rather than
// the aggregate bootstrap-wide view ReadModel returns.
func (o *Orchestrator) YubiKeyReadModel(serial string) (ReadModel, bool) {
	prov, ok := o.provisioning[ids.YubiKeySerial(serial)]
	if !ok {
		return ReadModel{}, false
	}
	rm := ReadModel{
		YubiKeySerial:          string(prov.Serial),
		YubiKeyProvisioning:    prov.Status.String(),
		YubiKeyFinalConfigHash: prov.FinalConfigHash,
	}
	return rm, true
}

// CertImportReadModel derives a snapshot of one certificate's hardware
// import progress, for presentation code that needs to show an
// individual slot write's status rather than the whole device's.
func (o *Orchestrator) CertImportReadModel(certID ids.CertID) (ReadModel, bool) {
	state, ok := o.certImports[certID]
	if !ok {
		return ReadModel{}, false
	}
	return ReadModel{CertImportStatus: state.Status.String()}, true
}
