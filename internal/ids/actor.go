package ids

// ActorID identifies whoever caused a command or event: a named system
// component, an authenticated user, or — only when reading historical
// input from a legacy source — an opaque string.
//
// Implemented as a closed sum via an unexported marker method: the set
// of concrete actor kinds is fixed by this package, not extensible by
// callers.
type ActorID interface {
	isActorID()
	String() string
}

// SystemActor identifies a named internal component (e.g. "orchestrator",
// "export-workflow") acting without a human operator behind it.
type SystemActor struct {
	Component string
}

func (SystemActor) isActorID() {}

// String returns "system:<component>".
func (a SystemActor) String() string {
	return "system:" + a.Component
}

// UserActor identifies an authenticated human operator.
type UserActor struct {
	ID PersonID
}

func (UserActor) isActorID() {}

// String returns "user:<person-id>".
func (a UserActor) String() string {
	return "user:" + string(a.ID)
}

// LegacyActor carries an opaque actor string read from historical input
// that predates typed actor identifiers. It must never be constructed by
// new code paths — only by the translators that read pre-existing event
// logs or import bundles.
type LegacyActor struct {
	Raw string
}

func (LegacyActor) isActorID() {}

// String returns "legacy:<raw>".
func (a LegacyActor) String() string {
	return "legacy:" + a.Raw
}
