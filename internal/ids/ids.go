// Package ids defines the phantom-typed identifiers used across keyforge.
//
// Every domain entity carries a time-ordered 128-bit identifier (UUID v7:
// sortable, embeds a millisecond timestamp). Identifiers are defined as
// distinct named types over the same underlying representation so that a
// KeyID and a CertID are not interchangeable at compile time — passing one
// where the other is expected is a type error, not a runtime bug.
package ids

import (
	"fmt"

	"github.com/google/uuid"
)

// KeyID identifies a CryptographicKey aggregate.
type KeyID string

// CertID identifies a Certificate aggregate.
type CertID string

// PersonID identifies a Person aggregate.
type PersonID string

// OrgID identifies an Organization aggregate.
type OrgID string

// OUID identifies an OrganizationalUnit aggregate.
type OUID string

// LocationID identifies a Location aggregate.
type LocationID string

// RoleID identifies a Role aggregate.
type RoleID string

// PolicyID identifies a Policy aggregate.
type PolicyID string

// ServiceAccountID identifies a ServiceAccount aggregate.
type ServiceAccountID string

// RelationshipID identifies a Relationship aggregate.
type RelationshipID string

// YubiKeySerial identifies a physical hardware token by its device serial.
type YubiKeySerial string

// ManifestID identifies an exported Manifest.
type ManifestID string

// NatsOperatorID identifies a NatsOperator aggregate.
type NatsOperatorID string

// NatsAccountID identifies a NatsAccount aggregate.
type NatsAccountID string

// NatsUserID identifies a NatsUser aggregate.
type NatsUserID string

// CommandID identifies one issued command.
type CommandID string

// EventID identifies one emitted event envelope.
type EventID string

// CorrelationID links every event/command belonging to one user-initiated
// flow.
type CorrelationID string

// CausationID names the directly preceding event in a causal chain.
type CausationID string

// generator is a function that produces a fresh UUID v7; newUUID holds
// the one New uses, and a test can assign a deterministic sequence to it.
type generator func() (uuid.UUID, error)

var newUUID generator = uuid.NewV7

// New returns a fresh time-ordered identifier string (UUID v7).
// It panics only if the platform CSPRNG is unavailable, which callers
// cannot meaningfully recover from (mirrors crypto/rand.Read's own
// documented behavior in a broken environment).
func New() string {
	u, err := newUUID()
	if err != nil {
		panic(fmt.Sprintf("ids: failed to generate UUIDv7: %v", err))
	}
	return u.String()
}

// NewKeyID returns a fresh KeyID.
func NewKeyID() KeyID { return KeyID(New()) }

// NewCertID returns a fresh CertID.
func NewCertID() CertID { return CertID(New()) }

// NewPersonID returns a fresh PersonID.
func NewPersonID() PersonID { return PersonID(New()) }

// NewOrgID returns a fresh OrgID.
func NewOrgID() OrgID { return OrgID(New()) }

// NewOUID returns a fresh OUID.
func NewOUID() OUID { return OUID(New()) }

// NewLocationID returns a fresh LocationID.
func NewLocationID() LocationID { return LocationID(New()) }

// NewRoleID returns a fresh RoleID.
func NewRoleID() RoleID { return RoleID(New()) }

// NewPolicyID returns a fresh PolicyID.
func NewPolicyID() PolicyID { return PolicyID(New()) }

// NewServiceAccountID returns a fresh ServiceAccountID.
func NewServiceAccountID() ServiceAccountID { return ServiceAccountID(New()) }

// NewRelationshipID returns a fresh RelationshipID.
func NewRelationshipID() RelationshipID { return RelationshipID(New()) }

// NewManifestID returns a fresh ManifestID.
func NewManifestID() ManifestID { return ManifestID(New()) }

// NewNatsOperatorID returns a fresh NatsOperatorID.
func NewNatsOperatorID() NatsOperatorID { return NatsOperatorID(New()) }

// NewNatsAccountID returns a fresh NatsAccountID.
func NewNatsAccountID() NatsAccountID { return NatsAccountID(New()) }

// NewNatsUserID returns a fresh NatsUserID.
func NewNatsUserID() NatsUserID { return NatsUserID(New()) }

// NewCommandID returns a fresh CommandID.
func NewCommandID() CommandID { return CommandID(New()) }

// NewEventID returns a fresh EventID.
func NewEventID() EventID { return EventID(New()) }

// NewCorrelationID returns a fresh CorrelationID, used to start a new
// user-initiated flow.
func NewCorrelationID() CorrelationID { return CorrelationID(New()) }
