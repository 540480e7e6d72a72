package execution

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/flowpc/internal/flow"
)

// ErrAlreadyBound is returned when a different resource is bound under a key
// that is already occupied.
var ErrAlreadyBound = errors.New("resource already bound")

// RequestContext is the state of a single request against an Execution. Its
// resource map is the binding slot: whatever is bound here is what code
// running inside the request sees as "current". A RequestContext must not be
// shared between goroutines.
type RequestContext struct {
	execution *Execution
	resources map[any]any
}

// NewRequestContext creates a request against exec. A nil exec creates a
// detached request, which is enough for driving listeners directly.
func NewRequestContext(exec *Execution) *RequestContext {
	if exec == nil {
		exec = NewExecution()
	}
	return &RequestContext{
		execution: exec,
		resources: make(map[any]any),
	}
}

// Execution returns the flow execution this request runs against.
func (r *RequestContext) Execution() *Execution {
	return r.execution
}

// ActiveSession returns the innermost active session, or nil.
func (r *RequestContext) ActiveSession() *flow.Session {
	return r.execution.ActiveSession()
}

// BindResource binds value under key. Binding the identical value again is a
// no-op.
func (r *RequestContext) BindResource(key, value any) error {
	if existing, ok := r.resources[key]; ok {
		if existing == value {
			return nil
		}
		return fmt.Errorf("%w for key %T", ErrAlreadyBound, key)
	}
	r.resources[key] = value
	return nil
}

// UnbindResource removes the binding for key and returns what was bound.
func (r *RequestContext) UnbindResource(key any) (any, bool) {
	v, ok := r.resources[key]
	if ok {
		delete(r.resources, key)
	}
	return v, ok
}

// Resource returns the value bound under key.
func (r *RequestContext) Resource(key any) (any, bool) {
	v, ok := r.resources[key]
	return v, ok
}

// HasResource reports whether anything is bound under key.
func (r *RequestContext) HasResource(key any) bool {
	_, ok := r.resources[key]
	return ok
}
