package config

import (
	"fmt"

	"github.com/specialistvlad/flowpc/internal/flow"
)

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Flows     map[string]*Flow
	Scenarios []*Scenario
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Flows: make(map[string]*Flow)}
}

// AddFlow adds f, rejecting duplicate IDs.
func (m *Model) AddFlow(f *Flow) error {
	if _, exists := m.Flows[f.ID]; exists {
		return fmt.Errorf("flow %q defined more than once", f.ID)
	}
	m.Flows[f.ID] = f
	return nil
}

// Flow is the format-agnostic representation of a flow definition.
type Flow struct {
	ID                 string
	PersistenceContext bool
	Attributes         map[string]string
	EndStates          []*EndState
}

// EndState is a terminal state of a Flow.
type EndState struct {
	ID     string
	Commit bool
}

// Definition converts the flow into its runtime form.
func (f *Flow) Definition() *flow.Definition {
	def := flow.NewDefinition(f.ID)
	for k, v := range f.Attributes {
		def.Attributes[k] = v
	}
	if f.PersistenceContext {
		def.Attributes[flow.PersistenceContextAttribute] = "true"
	}
	for _, es := range f.EndStates {
		def.AddEndState(es.ID, es.Commit)
	}
	return def
}

// Scenario is a scripted run: a root session and its nested subflows.
type Scenario struct {
	Name string
	Root *Invocation
}

// Invocation describes one session in a scenario. Statements are queued on
// the bound persistence context while the session is active, then subflows
// run in order, then the session ends with Outcome. With Pause set, the
// request is paused and a new one resumes the execution before the session
// ends.
type Invocation struct {
	Flow       string
	Outcome    string
	Statements []string
	Pause      bool
	Subflows   []*Invocation
}

// Walk visits inv and all nested invocations depth first.
func (inv *Invocation) Walk(fn func(*Invocation) error) error {
	if err := fn(inv); err != nil {
		return err
	}
	for _, sub := range inv.Subflows {
		if err := sub.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Merge adds other's flows and scenarios to m. Duplicate flow IDs are an
// error.
func (m *Model) Merge(other *Model) error {
	if other == nil {
		return nil
	}
	for _, f := range other.Flows {
		if err := m.AddFlow(f); err != nil {
			return err
		}
	}
	m.Scenarios = append(m.Scenarios, other.Scenarios...)
	return nil
}
