package acl

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
)

// ValidationError is one field-level validation failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidatedPersonForm is a PersonForm that has passed validation.
type ValidatedPersonForm struct {
	GivenName  string
	FamilyName string
	Email      string
}

// ValidatePerson checks every field and accumulates all failures instead
// of stopping at the first.
func ValidatePerson(f PersonForm) (ValidatedPersonForm, []ValidationError) {
	var errs []ValidationError
	if strings.TrimSpace(f.GivenName) == "" {
		errs = append(errs, ValidationError{"given_name", "must not be empty"})
	}
	if strings.TrimSpace(f.FamilyName) == "" {
		errs = append(errs, ValidationError{"family_name", "must not be empty"})
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		errs = append(errs, ValidationError{"email", "not a valid email address"})
	}
	if len(errs) > 0 {
		return ValidatedPersonForm{}, errs
	}
	return ValidatedPersonForm{GivenName: f.GivenName, FamilyName: f.FamilyName, Email: f.Email}, nil
}

// ValidatedOrganizationForm is an OrganizationForm that has passed
// validation.
type ValidatedOrganizationForm struct {
	Name       string
	Identifier string
}

// ValidateOrganization validates an OrganizationForm.
func ValidateOrganization(f OrganizationForm) (ValidatedOrganizationForm, []ValidationError) {
	var errs []ValidationError
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, ValidationError{"name", "must not be empty"})
	}
	if strings.TrimSpace(f.Identifier) == "" {
		errs = append(errs, ValidationError{"identifier", "must not be empty"})
	}
	if len(errs) > 0 {
		return ValidatedOrganizationForm{}, errs
	}
	return ValidatedOrganizationForm{Name: f.Name, Identifier: f.Identifier}, nil
}

// ValidatedOrganizationalUnitForm is an OrganizationalUnitForm that has
// passed validation.
type ValidatedOrganizationalUnitForm struct {
	Name     string
	ParentID string
}

// ValidateOrganizationalUnit validates an OrganizationalUnitForm.
func ValidateOrganizationalUnit(f OrganizationalUnitForm) (ValidatedOrganizationalUnitForm, []ValidationError) {
	var errs []ValidationError
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, ValidationError{"name", "must not be empty"})
	}
	if strings.TrimSpace(f.ParentID) == "" {
		errs = append(errs, ValidationError{"parent_id", "must not be empty"})
	}
	if len(errs) > 0 {
		return ValidatedOrganizationalUnitForm{}, errs
	}
	return ValidatedOrganizationalUnitForm{Name: f.Name, ParentID: f.ParentID}, nil
}

// ValidatedLocationForm is a LocationForm that has passed validation.
type ValidatedLocationForm struct {
	Name      string
	Kind      LocationKind
	Address   string
	URI       string
	Namespace string
}

// ValidateLocation validates a LocationForm; the required-field set
// depends on Kind.
func ValidateLocation(f LocationForm) (ValidatedLocationForm, []ValidationError) {
	var errs []ValidationError
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, ValidationError{"name", "must not be empty"})
	}
	switch f.Kind {
	case LocationPhysical:
		if strings.TrimSpace(f.Address) == "" {
			errs = append(errs, ValidationError{"address", "required for a physical location"})
		}
	case LocationVirtual:
		if strings.TrimSpace(f.URI) == "" {
			errs = append(errs, ValidationError{"uri", "required for a virtual location"})
		}
	case LocationLogical:
		if strings.TrimSpace(f.Namespace) == "" {
			errs = append(errs, ValidationError{"namespace", "required for a logical location"})
		}
	case LocationHybrid:
		if strings.TrimSpace(f.Address) == "" {
			errs = append(errs, ValidationError{"address", "required for a hybrid location"})
		}
		if strings.TrimSpace(f.URI) == "" {
			errs = append(errs, ValidationError{"uri", "required for a hybrid location"})
		}
	default:
		errs = append(errs, ValidationError{"kind", "must be one of physical, virtual, logical, hybrid"})
	}
	if len(errs) > 0 {
		return ValidatedLocationForm{}, errs
	}
	return ValidatedLocationForm{
		Name:      f.Name,
		Kind:      f.Kind,
		Address:   f.Address,
		URI:       f.URI,
		Namespace: f.Namespace,
	}, nil
}

// ValidatedServiceAccountForm is a ServiceAccountForm that has passed
// validation.
type ValidatedServiceAccountForm struct {
	Name                string
	Purpose             string
	OwningUnitID        string
	ResponsiblePersonID string
}

// ValidateServiceAccount validates a ServiceAccountForm. Both
// OwningUnitID and ResponsiblePersonID are required for accountability.
func ValidateServiceAccount(f ServiceAccountForm) (ValidatedServiceAccountForm, []ValidationError) {
	var errs []ValidationError
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, ValidationError{"name", "must not be empty"})
	}
	if strings.TrimSpace(f.OwningUnitID) == "" {
		errs = append(errs, ValidationError{"owning_unit_id", "is required"})
	}
	if strings.TrimSpace(f.ResponsiblePersonID) == "" {
		errs = append(errs, ValidationError{"responsible_person_id", "is required"})
	}
	if len(errs) > 0 {
		return ValidatedServiceAccountForm{}, errs
	}
	return ValidatedServiceAccountForm{
		Name:                f.Name,
		Purpose:             f.Purpose,
		OwningUnitID:        f.OwningUnitID,
		ResponsiblePersonID: f.ResponsiblePersonID,
	}, nil
}

// ValidatedCertificateMetadataForm is a CertificateMetadataForm that has
// passed validation.
type ValidatedCertificateMetadataForm struct {
	SubjectName    string
	SubjectAltName string
	ValidityDays   int
	KeyUsage       string
}

// ValidateCertificateMetadata validates a CertificateMetadataForm.
func ValidateCertificateMetadata(f CertificateMetadataForm) (ValidatedCertificateMetadataForm, []ValidationError) {
	var errs []ValidationError
	if strings.TrimSpace(f.SubjectName) == "" {
		errs = append(errs, ValidationError{"subject_name", "must not be empty"})
	}
	days, err := strconv.Atoi(strings.TrimSpace(f.ValidityDays))
	if err != nil || days <= 0 {
		errs = append(errs, ValidationError{"validity_days", "must be a positive integer"})
	}
	if strings.TrimSpace(f.KeyUsage) == "" {
		errs = append(errs, ValidationError{"key_usage", "must not be empty"})
	}
	if len(errs) > 0 {
		return ValidatedCertificateMetadataForm{}, errs
	}
	return ValidatedCertificateMetadataForm{
		SubjectName:    f.SubjectName,
		SubjectAltName: f.SubjectAltName,
		ValidityDays:   days,
		KeyUsage:       f.KeyUsage,
	}, nil
}

// MinPassphraseLength is the shortest passphrase this system will accept
// as a KDF input.
const MinPassphraseLength = 12

// ValidatedPassphraseForm is a PassphraseForm that has passed validation.
type ValidatedPassphraseForm struct {
	Passphrase string
}

// ValidatePassphrase validates a PassphraseForm. The passphrase value
// itself is returned as a plain string here; callers are responsible for
// immediately wrapping it in internal/secret.Text and never retaining
// this intermediate form.
func ValidatePassphrase(f PassphraseForm) (ValidatedPassphraseForm, []ValidationError) {
	var errs []ValidationError
	if len(f.Passphrase) < MinPassphraseLength {
		errs = append(errs, ValidationError{"passphrase", fmt.Sprintf("must be at least %d characters", MinPassphraseLength)})
	}
	if f.Passphrase != f.Confirm {
		errs = append(errs, ValidationError{"confirm", "does not match passphrase"})
	}
	if len(errs) > 0 {
		return ValidatedPassphraseForm{}, errs
	}
	return ValidatedPassphraseForm{Passphrase: f.Passphrase}, nil
}
