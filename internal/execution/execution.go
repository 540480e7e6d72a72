package execution

import "github.com/specialistvlad/flowpc/internal/flow"

// Execution is the session stack of one flow execution. It outlives the
// requests that drive it; each request gets its own RequestContext.
type Execution struct {
	stack []*flow.Session
}

// NewExecution creates an execution with no active session.
func NewExecution() *Execution {
	return &Execution{}
}

// ActiveSession returns the innermost session, or nil if nothing is running.
func (e *Execution) ActiveSession() *flow.Session {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

// Depth returns the number of active sessions.
func (e *Execution) Depth() int {
	return len(e.stack)
}

// IsActive reports whether the execution has at least one running session.
func (e *Execution) IsActive() bool {
	return len(e.stack) > 0
}

func (e *Execution) push(s *flow.Session) {
	e.stack = append(e.stack, s)
}

func (e *Execution) pop() *flow.Session {
	if len(e.stack) == 0 {
		return nil
	}
	top := e.stack[len(e.stack)-1]
	e.stack[len(e.stack)-1] = nil
	e.stack = e.stack[:len(e.stack)-1]
	return top
}
