package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/flowpc/internal/config"
	"github.com/specialistvlad/flowpc/internal/ctxlog"
)

// ValidateRegistry checks that every scenario only starts known flows and
// ends them in outcomes those flows define, and that statements are only
// queued by sessions that will have a persistence context bound.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for id, def := range r.Definitions {
		if len(def.EndStates) == 0 {
			errs = append(errs, fmt.Sprintf("flow '%s': no end states defined", id))
		}
	}

	names := make(map[string]struct{})
	for _, sc := range r.Scenarios {
		if _, dup := names[sc.Name]; dup {
			errs = append(errs, fmt.Sprintf("scenario '%s': defined more than once", sc.Name))
		}
		names[sc.Name] = struct{}{}

		_ = sc.Root.Walk(func(inv *config.Invocation) error {
			def, ok := r.Definitions[inv.Flow]
			if !ok {
				errs = append(errs, fmt.Sprintf("scenario '%s': unknown flow '%s'", sc.Name, inv.Flow))
				return nil
			}
			if _, ok := def.EndState(inv.Outcome); !ok {
				errs = append(errs, fmt.Sprintf("scenario '%s': flow '%s' has no end state '%s'", sc.Name, inv.Flow, inv.Outcome))
			}
			if len(inv.Statements) > 0 && !def.IsPersistenceContext() {
				errs = append(errs, fmt.Sprintf("scenario '%s': flow '%s' queues statements without a persistence context", sc.Name, inv.Flow))
			}
			return nil
		})
	}

	if len(errs) > 0 {
		logger.Debug("Registry validation failed.", "error_count", len(errs))
		return errors.New("registry validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}
	logger.Debug("Registry validation passed.", "flows", len(r.Definitions), "scenarios", len(r.Scenarios))
	return nil
}
