// Package acl is the value-object and validation layer: an
// anti-corruption boundary between raw, string-keyed operator input and
// the typed value objects the rest of the system is built on. Forms carry
// only strings and optional strings; validators are pure, total, and
// accumulate every field error instead of stopping at the first one.
package acl

// PersonForm is raw input for inviting a Person.
type PersonForm struct {
	GivenName  string
	FamilyName string
	Email      string
}

// OrganizationForm is raw input for planning an Organization.
type OrganizationForm struct {
	Name       string
	Identifier string
}

// OrganizationalUnitForm is raw input for creating an OrganizationalUnit.
type OrganizationalUnitForm struct {
	Name     string
	ParentID string
}

// LocationKind discriminates the four location subtypes; it is purely
// a validation-time discriminator, distinct from the lifecycle machine's
// own Status.
type LocationKind string

const (
	LocationPhysical LocationKind = "physical"
	LocationVirtual  LocationKind = "virtual"
	LocationLogical  LocationKind = "logical"
	LocationHybrid   LocationKind = "hybrid"
)

// LocationForm is raw input for proposing a Location. Required fields
// depend on Kind: Physical needs Address, Virtual needs URI, Logical
// needs Namespace, Hybrid needs both Address and URI.
type LocationForm struct {
	Name      string
	Kind      LocationKind
	Address   string
	URI       string
	Namespace string
}

// ServiceAccountForm is raw input for creating a ServiceAccount. Both
// OwningUnitID and ResponsiblePersonID are required (accountability).
type ServiceAccountForm struct {
	Name                string
	Purpose             string
	OwningUnitID        string
	ResponsiblePersonID string
}

// CertificateMetadataForm is raw input describing a certificate request
// before it is handed to internal/crypto.
type CertificateMetadataForm struct {
	SubjectName    string
	SubjectAltName string
	ValidityDays   string
	KeyUsage       string
}

// PassphraseForm is raw input for the operator passphrase that seeds the
// entire bootstrap.
type PassphraseForm struct {
	Passphrase string
	Confirm    string
}
