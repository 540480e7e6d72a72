package registry

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/flowpc/internal/config"
	"github.com/specialistvlad/flowpc/internal/flow"
)

// Registry holds flow definitions by ID and the scenarios to run. It is
// read-only once populated and safe to share between goroutines.
type Registry struct {
	Definitions map[string]*flow.Definition
	Scenarios   []*config.Scenario
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{Definitions: make(map[string]*flow.Definition)}
}

// PopulateFromModel converts the model's flows into runtime definitions and
// copies its scenarios.
func (r *Registry) PopulateFromModel(model *config.Model) {
	for id, f := range model.Flows {
		r.Definitions[id] = f.Definition()
	}
	r.Scenarios = append(r.Scenarios, model.Scenarios...)
}

// Register adds a definition directly.
func (r *Registry) Register(def *flow.Definition) {
	r.Definitions[def.ID] = def
}

// Definition looks up a flow by ID.
func (r *Registry) Definition(id string) (*flow.Definition, error) {
	def, ok := r.Definitions[id]
	if !ok {
		return nil, fmt.Errorf("unknown flow %q", id)
	}
	return def, nil
}

// FlowIDs returns the registered flow IDs in sorted order.
func (r *Registry) FlowIDs() []string {
	ids := make([]string, 0, len(r.Definitions))
	for id := range r.Definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
