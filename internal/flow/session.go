package flow

import "github.com/google/uuid"

// Session is one running instance of a flow definition. Sessions started as
// subflows point at the session that spawned them.
type Session struct {
	ID         string
	Definition *Definition
	Parent     *Session

	// State is the end state the session is terminating in. It is nil while
	// the session is active.
	State *EndState

	scope *Scope
}

// NewSession creates a session for def. A nil parent makes it a root session.
func NewSession(def *Definition, parent *Session) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Definition: def,
		Parent:     parent,
		scope:      NewScope(),
	}
}

// Scope returns the session's attribute store.
func (s *Session) Scope() *Scope {
	return s.scope
}

// IsRoot reports whether the session has no parent.
func (s *Session) IsRoot() bool {
	return s.Parent == nil
}

// Depth returns the number of ancestors.
func (s *Session) Depth() int {
	d := 0
	for p := s.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// FlowID returns the ID of the session's definition.
func (s *Session) FlowID() string {
	if s.Definition == nil {
		return ""
	}
	return s.Definition.ID
}
