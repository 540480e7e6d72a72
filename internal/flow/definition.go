package flow

import "strings"

const (
	// PersistenceContextAttribute is the definition attribute that opts a flow
	// into a persistence context. It is also the scope key under which the
	// context is stored.
	PersistenceContextAttribute = "persistenceContext"

	// CommitAttribute is the end state attribute that requests a commit when
	// a session ends in that state.
	CommitAttribute = "commit"
)

// Definition describes a flow that sessions can be started for.
type Definition struct {
	ID         string
	Attributes map[string]string
	EndStates  map[string]*EndState
}

// NewDefinition creates an empty definition with the given ID.
func NewDefinition(id string) *Definition {
	return &Definition{
		ID:         id,
		Attributes: make(map[string]string),
		EndStates:  make(map[string]*EndState),
	}
}

// IsPersistenceContext reports whether sessions of this flow request a
// persistence context.
func (d *Definition) IsPersistenceContext() bool {
	if d == nil {
		return false
	}
	return isTrue(d.Attributes[PersistenceContextAttribute])
}

// AddEndState registers an end state and returns it for further setup.
func (d *Definition) AddEndState(id string, commit bool) *EndState {
	es := &EndState{ID: id, Attributes: make(map[string]string)}
	if commit {
		es.Attributes[CommitAttribute] = "true"
	}
	if d.EndStates == nil {
		d.EndStates = make(map[string]*EndState)
	}
	d.EndStates[id] = es
	return es
}

// EndState returns the end state for the given outcome.
func (d *Definition) EndState(outcome string) (*EndState, bool) {
	es, ok := d.EndStates[outcome]
	return es, ok
}

// EndState is a terminal state of a flow. Its attributes carry the metadata
// that listeners act on when a session ends.
type EndState struct {
	ID         string
	Attributes map[string]string
}

// Commit reports whether ending in this state should commit the session's
// persistence context.
func (e *EndState) Commit() bool {
	if e == nil {
		return false
	}
	return isTrue(e.Attributes[CommitAttribute])
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
