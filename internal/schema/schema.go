// Package schema holds the gohcl decoding targets for flow configuration
// files.
package schema

import "github.com/hashicorp/hcl/v2"

// File represents the top-level structure of a configuration file. Any
// block may appear in any file.
type File struct {
	Flows     []*Flow     `hcl:"flow,block"`
	Scenarios []*Scenario `hcl:"scenario,block"`
	Remain    hcl.Body    `hcl:",remain"`
}

// --- Flow definitions ---

// Flow represents a `flow` block.
type Flow struct {
	ID                 string         `hcl:"id,label"`
	PersistenceContext *bool          `hcl:"persistence_context,optional"`
	Attributes         hcl.Expression `hcl:"attributes,optional"`
	EndStates          []*EndState    `hcl:"end_state,block"`
}

// EndState represents an `end_state` block inside a flow.
type EndState struct {
	ID     string `hcl:"id,label"`
	Commit *bool  `hcl:"commit,optional"`
}

// --- Scenarios ---

// Scenario represents a `scenario` block. Its single `session` block is the
// root session of the run.
type Scenario struct {
	Name    string      `hcl:"name,label"`
	Session *Invocation `hcl:"session,block"`
}

// Invocation is a `session` or `subflow` block. The label names the flow to
// start.
type Invocation struct {
	Flow       string        `hcl:"flow,label"`
	Outcome    string        `hcl:"outcome"`
	Statements []string      `hcl:"statements,optional"`
	Pause      *bool         `hcl:"pause,optional"`
	Subflows   []*Invocation `hcl:"subflow,block"`
}
