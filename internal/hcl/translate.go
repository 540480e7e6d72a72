package hcl

import (
	"context"
	"fmt"

	"github.com/specialistvlad/flowpc/internal/config"
	"github.com/specialistvlad/flowpc/internal/ctxlog"
	"github.com/specialistvlad/flowpc/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateFlow converts the HCL-specific flow schema into the agnostic model.
func (l *Loader) translateFlow(ctx context.Context, s *schema.Flow) (*config.Flow, error) {
	f := &config.Flow{
		ID:                 s.ID,
		PersistenceContext: boolValue(s.PersistenceContext),
	}

	attrs, err := l.translateAttributes(ctx, s)
	if err != nil {
		return nil, err
	}
	f.Attributes = attrs

	seen := make(map[string]struct{}, len(s.EndStates))
	for _, es := range s.EndStates {
		if _, dup := seen[es.ID]; dup {
			return nil, fmt.Errorf("flow %q: end state %q defined more than once", s.ID, es.ID)
		}
		seen[es.ID] = struct{}{}
		f.EndStates = append(f.EndStates, &config.EndState{ID: es.ID, Commit: boolValue(es.Commit)})
	}
	return f, nil
}

// translateAttributes evaluates the optional `attributes` object into a
// string map. Non-string primitives are converted ("true", "3").
func (l *Loader) translateAttributes(ctx context.Context, s *schema.Flow) (map[string]string, error) {
	if s.Attributes == nil {
		return nil, nil
	}
	val, diags := s.Attributes.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("flow %q: attributes: %w", s.ID, diags)
	}
	if val.IsNull() {
		return nil, nil
	}

	converted, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("flow %q: attributes must be a map of strings: %w", s.ID, err)
	}
	if !val.Type().Equals(converted.Type()) {
		ctxlog.FromContext(ctx).Debug("Implicitly converted flow attributes.",
			"flow", s.ID,
			"from", val.Type().FriendlyName(),
			"to", converted.Type().FriendlyName(),
		)
	}

	var out map[string]string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, fmt.Errorf("flow %q: attributes: %w", s.ID, err)
	}
	return out, nil
}

// translateScenario converts the HCL-specific scenario schema into the agnostic model.
func (l *Loader) translateScenario(s *schema.Scenario) (*config.Scenario, error) {
	if s.Session == nil {
		return nil, fmt.Errorf("scenario %q: missing session block", s.Name)
	}
	return &config.Scenario{Name: s.Name, Root: translateInvocation(s.Session)}, nil
}

func translateInvocation(s *schema.Invocation) *config.Invocation {
	inv := &config.Invocation{
		Flow:       s.Flow,
		Outcome:    s.Outcome,
		Statements: s.Statements,
		Pause:      boolValue(s.Pause),
	}
	for _, sub := range s.Subflows {
		inv.Subflows = append(inv.Subflows, translateInvocation(sub))
	}
	return inv
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
