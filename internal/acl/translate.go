package acl

import "fmt"

// PersonName is a value object combining a validated given and family
// name into the single display form events and certificates expect.
type PersonName struct {
	Given  string
	Family string
}

func (n PersonName) String() string {
	return fmt.Sprintf("%s %s", n.Given, n.Family)
}

// EmailAddress is a value object wrapping an already-validated address.
type EmailAddress string

// PersonValueObjects is the translated form of a ValidatedPersonForm.
type PersonValueObjects struct {
	Name  PersonName
	Email EmailAddress
}

// TranslatePerson converts a ValidatedPersonForm into its value objects.
func TranslatePerson(f ValidatedPersonForm) PersonValueObjects {
	return PersonValueObjects{
		Name:  PersonName{Given: f.GivenName, Family: f.FamilyName},
		Email: EmailAddress(f.Email),
	}
}

// OrganizationName is a value object wrapping an already-validated
// organization display name.
type OrganizationName string

// OrganizationIdentifier is a value object wrapping an already-validated
// organization identifier (distinct from its OrgID, which is assigned at
// creation time, not supplied by the operator).
type OrganizationIdentifier string

// TranslateOrganization converts a ValidatedOrganizationForm into its
// value objects.
func TranslateOrganization(f ValidatedOrganizationForm) (OrganizationName, OrganizationIdentifier) {
	return OrganizationName(f.Name), OrganizationIdentifier(f.Identifier)
}

// UnitName is a value object wrapping an already-validated organizational
// unit display name.
type UnitName string

// TranslateOrganizationalUnit converts a ValidatedOrganizationalUnitForm
// into its value objects. ParentID remains a plain string here; callers
// parse it into the appropriate phantom id type since acl does not
// depend on internal/ids.
func TranslateOrganizationalUnit(f ValidatedOrganizationalUnitForm) (UnitName, string) {
	return UnitName(f.Name), f.ParentID
}

// LocationName is a value object wrapping an already-validated location
// display name.
type LocationName string

// LocationAddress is a value object wrapping an already-validated
// physical or hybrid location address.
type LocationAddress string

// LocationURI is a value object wrapping an already-validated virtual or
// hybrid location URI.
type LocationURI string

// LocationNamespace is a value object wrapping an already-validated
// logical location namespace.
type LocationNamespace string

// LocationValueObjects is the translated form of a ValidatedLocationForm.
type LocationValueObjects struct {
	Name      LocationName
	Kind      LocationKind
	Address   LocationAddress
	URI       LocationURI
	Namespace LocationNamespace
}

// TranslateLocation converts a ValidatedLocationForm into its value
// objects.
func TranslateLocation(f ValidatedLocationForm) LocationValueObjects {
	return LocationValueObjects{
		Name:      LocationName(f.Name),
		Kind:      f.Kind,
		Address:   LocationAddress(f.Address),
		URI:       LocationURI(f.URI),
		Namespace: LocationNamespace(f.Namespace),
	}
}

// ServiceAccountName is a value object wrapping an already-validated
// service account display name.
type ServiceAccountName string

// ServiceAccountPurpose is a value object wrapping an already-validated
// service account purpose description.
type ServiceAccountPurpose string

// TranslateServiceAccount converts a ValidatedServiceAccountForm into its
// value objects. OwningUnitID and ResponsiblePersonID remain plain
// strings for the same reason as TranslateOrganizationalUnit.
func TranslateServiceAccount(f ValidatedServiceAccountForm) (ServiceAccountName, ServiceAccountPurpose, string, string) {
	return ServiceAccountName(f.Name), ServiceAccountPurpose(f.Purpose), f.OwningUnitID, f.ResponsiblePersonID
}

// SubjectName is a value object wrapping an already-validated certificate
// subject common name.
type SubjectName string

// TranslateCertificateMetadata converts a ValidatedCertificateMetadataForm
// into its value objects.
func TranslateCertificateMetadata(f ValidatedCertificateMetadataForm) (SubjectName, int, string) {
	return SubjectName(f.SubjectName), f.ValidityDays, f.KeyUsage
}
