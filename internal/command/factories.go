package command

import (
	"keyforge/internal/acl"
	"keyforge/internal/ids"
	"keyforge/pkg/clock"
)

// Each factory below follows the same three-stage shape:
//
//	WithCorrelation(ids.CorrelationID) -> WithCausation
//	WithCausation(*ids.EventID)        -> WithForm
//	WithForm(acl.XForm)                -> (Envelope, []acl.ValidationError)
//
// fixing a correlation id once (the start of a user-initiated flow) and
// reusing the resulting WithCausation stage to issue many commands that
// all causally descend from the same parent event.

// InvitePerson is the validated payload of a person-invitation command.
type InvitePerson struct {
	commandMarker
	Form acl.ValidatedPersonForm
}

func (InvitePerson) Kind() string { return "person.invite" }

type invitePersonWithForm func(acl.PersonForm) (Envelope, []acl.ValidationError)
type invitePersonWithCausation func(*ids.EventID) invitePersonWithForm
type invitePersonWithCorrelation func(ids.CorrelationID) invitePersonWithCausation

// NewInvitePerson returns the first stage of the curried InvitePerson
// command factory.
func NewInvitePerson(clk clock.Clock) invitePersonWithCorrelation {
	return func(correlationID ids.CorrelationID) invitePersonWithCausation {
		return func(causationID *ids.EventID) invitePersonWithForm {
			return func(form acl.PersonForm) (Envelope, []acl.ValidationError) {
				validated, errs := acl.ValidatePerson(form)
				if len(errs) > 0 {
					return Envelope{}, errs
				}
				return newEnvelope(clk, correlationID, causationID, InvitePerson{Form: validated}), nil
			}
		}
	}
}

// PlanOrganization is the validated payload of an organization-planning
// command.
type PlanOrganization struct {
	commandMarker
	Form acl.ValidatedOrganizationForm
}

func (PlanOrganization) Kind() string { return "organization.plan" }

type planOrganizationWithForm func(acl.OrganizationForm) (Envelope, []acl.ValidationError)
type planOrganizationWithCausation func(*ids.EventID) planOrganizationWithForm
type planOrganizationWithCorrelation func(ids.CorrelationID) planOrganizationWithCausation

// NewPlanOrganization returns the first stage of the curried
// PlanOrganization command factory.
func NewPlanOrganization(clk clock.Clock) planOrganizationWithCorrelation {
	return func(correlationID ids.CorrelationID) planOrganizationWithCausation {
		return func(causationID *ids.EventID) planOrganizationWithForm {
			return func(form acl.OrganizationForm) (Envelope, []acl.ValidationError) {
				validated, errs := acl.ValidateOrganization(form)
				if len(errs) > 0 {
					return Envelope{}, errs
				}
				return newEnvelope(clk, correlationID, causationID, PlanOrganization{Form: validated}), nil
			}
		}
	}
}

// ProposeLocation is the validated payload of a location-proposal command.
type ProposeLocation struct {
	commandMarker
	Form acl.ValidatedLocationForm
}

func (ProposeLocation) Kind() string { return "location.propose" }

type proposeLocationWithForm func(acl.LocationForm) (Envelope, []acl.ValidationError)
type proposeLocationWithCausation func(*ids.EventID) proposeLocationWithForm
type proposeLocationWithCorrelation func(ids.CorrelationID) proposeLocationWithCausation

// NewProposeLocation returns the first stage of the curried
// ProposeLocation command factory.
func NewProposeLocation(clk clock.Clock) proposeLocationWithCorrelation {
	return func(correlationID ids.CorrelationID) proposeLocationWithCausation {
		return func(causationID *ids.EventID) proposeLocationWithForm {
			return func(form acl.LocationForm) (Envelope, []acl.ValidationError) {
				validated, errs := acl.ValidateLocation(form)
				if len(errs) > 0 {
					return Envelope{}, errs
				}
				return newEnvelope(clk, correlationID, causationID, ProposeLocation{Form: validated}), nil
			}
		}
	}
}

// CreateServiceAccount is the validated payload of a service-account
// creation command.
type CreateServiceAccount struct {
	commandMarker
	Form acl.ValidatedServiceAccountForm
}

func (CreateServiceAccount) Kind() string { return "service-account.create" }

type createServiceAccountWithForm func(acl.ServiceAccountForm) (Envelope, []acl.ValidationError)
type createServiceAccountWithCausation func(*ids.EventID) createServiceAccountWithForm
type createServiceAccountWithCorrelation func(ids.CorrelationID) createServiceAccountWithCausation

// NewCreateServiceAccount returns the first stage of the curried
// CreateServiceAccount command factory.
func NewCreateServiceAccount(clk clock.Clock) createServiceAccountWithCorrelation {
	return func(correlationID ids.CorrelationID) createServiceAccountWithCausation {
		return func(causationID *ids.EventID) createServiceAccountWithForm {
			return func(form acl.ServiceAccountForm) (Envelope, []acl.ValidationError) {
				validated, errs := acl.ValidateServiceAccount(form)
				if len(errs) > 0 {
					return Envelope{}, errs
				}
				return newEnvelope(clk, correlationID, causationID, CreateServiceAccount{Form: validated}), nil
			}
		}
	}
}

// RequestCertificate is the validated payload of a certificate-request
// command, the entry point into the PKIBootstrap leaf-cert transitions.
type RequestCertificate struct {
	commandMarker
	Form acl.ValidatedCertificateMetadataForm
}

func (RequestCertificate) Kind() string { return "certificate.request" }

type requestCertificateWithForm func(acl.CertificateMetadataForm) (Envelope, []acl.ValidationError)
type requestCertificateWithCausation func(*ids.EventID) requestCertificateWithForm
type requestCertificateWithCorrelation func(ids.CorrelationID) requestCertificateWithCausation

// NewRequestCertificate returns the first stage of the curried
// RequestCertificate command factory.
func NewRequestCertificate(clk clock.Clock) requestCertificateWithCorrelation {
	return func(correlationID ids.CorrelationID) requestCertificateWithCausation {
		return func(causationID *ids.EventID) requestCertificateWithForm {
			return func(form acl.CertificateMetadataForm) (Envelope, []acl.ValidationError) {
				validated, errs := acl.ValidateCertificateMetadata(form)
				if len(errs) > 0 {
					return Envelope{}, errs
				}
				return newEnvelope(clk, correlationID, causationID, RequestCertificate{Form: validated}), nil
			}
		}
	}
}

// BeginBootstrap is the payload of the command that starts a
// PKIBootstrapState saga for an organization. It carries no form: the
// passphrase and org id are supplied separately through the orchestrator
// so they never transit a Form's plain strings any longer than needed.
type BeginBootstrap struct {
	commandMarker
	OrgID ids.OrgID
}

func (BeginBootstrap) Kind() string { return "pki-bootstrap.begin" }

type beginBootstrapWithOrg func(ids.OrgID) (Envelope, []acl.ValidationError)
type beginBootstrapWithCausation func(*ids.EventID) beginBootstrapWithOrg
type beginBootstrapWithCorrelation func(ids.CorrelationID) beginBootstrapWithCausation

// NewBeginBootstrap returns the first stage of the curried BeginBootstrap
// command factory. Its final stage takes an OrgID directly in place of a
// Form since there is nothing left to validate beyond identifier
// well-formedness, which ids.OrgID's constructor already guarantees.
func NewBeginBootstrap(clk clock.Clock) beginBootstrapWithCorrelation {
	return func(correlationID ids.CorrelationID) beginBootstrapWithCausation {
		return func(causationID *ids.EventID) beginBootstrapWithOrg {
			return func(orgID ids.OrgID) (Envelope, []acl.ValidationError) {
				return newEnvelope(clk, correlationID, causationID, BeginBootstrap{OrgID: orgID}), nil
			}
		}
	}
}
