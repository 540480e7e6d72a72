package execution

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/flowpc/internal/ctxlog"
	"github.com/specialistvlad/flowpc/internal/flow"
)

var (
	// ErrNoActiveSession is returned by End when nothing is running.
	ErrNoActiveSession = errors.New("no active session")
	// ErrUnknownOutcome is returned by End when the active flow has no end
	// state matching the outcome.
	ErrUnknownOutcome = errors.New("unknown outcome")
	// ErrNotActive is returned by Pause and Resume on an execution with no
	// running session.
	ErrNotActive = errors.New("execution is not active")
)

// Executor drives sessions on behalf of a caller and notifies listeners.
// It keeps no per-request state and can be shared between goroutines as long
// as each goroutine uses its own Execution and RequestContext.
type Executor struct {
	listeners []Listener
}

// NewExecutor creates an executor that notifies listeners in order.
func NewExecutor(listeners ...Listener) *Executor {
	return &Executor{listeners: listeners}
}

// Start starts a session for def. If the request has an active session, the
// new one becomes its subflow. On a listener error the session is not
// pushed and ExceptionThrown is fired.
func (e *Executor) Start(ctx context.Context, req *RequestContext, def *flow.Definition) (*flow.Session, error) {
	parent := req.ActiveSession()
	session := flow.NewSession(def, parent)

	logger := ctxlog.FromContext(ctx).With("flow", def.ID, "session", session.ID)
	if parent != nil {
		logger = logger.With("parent_flow", parent.FlowID())
	}
	logger.Debug("Starting session.", "depth", session.Depth())

	for _, l := range e.listeners {
		if err := l.SessionStarting(ctx, req, session); err != nil {
			err = fmt.Errorf("starting flow %q: %w", def.ID, err)
			logger.Error("Session failed to start.", "error", err)
			e.exceptionThrown(ctx, req, err)
			return nil, err
		}
	}

	req.Execution().push(session)
	logger.Debug("Session started.")
	return session, nil
}

// End ends the active session in the end state named by outcome. The session
// is popped even when a SessionEnding listener fails, so that SessionEnded
// can hand control back to the parent; all listener errors are returned
// joined.
func (e *Executor) End(ctx context.Context, req *RequestContext, outcome string) error {
	session := req.ActiveSession()
	if session == nil {
		return ErrNoActiveSession
	}
	logger := ctxlog.FromContext(ctx).With("flow", session.FlowID(), "session", session.ID, "outcome", outcome)

	state, ok := session.Definition.EndState(outcome)
	if !ok {
		return fmt.Errorf("%w %q for flow %q", ErrUnknownOutcome, outcome, session.FlowID())
	}
	session.State = state
	logger.Debug("Ending session.", "commit", state.Commit())

	var errs []error
	for _, l := range e.listeners {
		if err := l.SessionEnding(ctx, req, session, outcome); err != nil {
			errs = append(errs, err)
		}
	}

	req.Execution().pop()

	for _, l := range e.listeners {
		if err := l.SessionEnded(ctx, req, session, outcome); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		err = fmt.Errorf("ending flow %q: %w", session.FlowID(), err)
		logger.Error("Session ended with errors.", "error", err)
		e.exceptionThrown(ctx, req, err)
		return err
	}
	logger.Debug("Session ended.", "remaining_depth", req.Execution().Depth())
	return nil
}

// Abort ends the active session without an end state after cause made it
// impossible to finish normally. Listeners see a nil session State, so
// nothing is committed, but owned resources are still released and the
// parent becomes active again. The returned error wraps cause and any
// listener errors.
func (e *Executor) Abort(ctx context.Context, req *RequestContext, cause error) error {
	session := req.ActiveSession()
	if session == nil {
		return ErrNoActiveSession
	}
	logger := ctxlog.FromContext(ctx).With("flow", session.FlowID(), "session", session.ID)
	logger.Debug("Aborting session.", "cause", cause)

	e.exceptionThrown(ctx, req, cause)
	session.State = nil

	errs := []error{cause}
	for _, l := range e.listeners {
		if err := l.SessionEnding(ctx, req, session, ""); err != nil {
			errs = append(errs, err)
		}
	}

	req.Execution().pop()

	for _, l := range e.listeners {
		if err := l.SessionEnded(ctx, req, session, ""); err != nil {
			errs = append(errs, err)
		}
	}
	logger.Debug("Session aborted.", "remaining_depth", req.Execution().Depth())
	return errors.Join(errs...)
}

// Pause notifies listeners that req stops driving the execution.
func (e *Executor) Pause(ctx context.Context, req *RequestContext) error {
	if !req.Execution().IsActive() {
		return ErrNotActive
	}
	ctxlog.FromContext(ctx).Debug("Pausing execution.", "flow", req.ActiveSession().FlowID())
	for _, l := range e.listeners {
		if err := l.Paused(ctx, req); err != nil {
			return fmt.Errorf("pausing execution: %w", err)
		}
	}
	return nil
}

// Resume notifies listeners that req now drives the execution.
func (e *Executor) Resume(ctx context.Context, req *RequestContext) error {
	if !req.Execution().IsActive() {
		return ErrNotActive
	}
	ctxlog.FromContext(ctx).Debug("Resuming execution.", "flow", req.ActiveSession().FlowID())
	for _, l := range e.listeners {
		if err := l.Resumed(ctx, req); err != nil {
			return fmt.Errorf("resuming execution: %w", err)
		}
	}
	return nil
}

func (e *Executor) exceptionThrown(ctx context.Context, req *RequestContext, err error) {
	for _, l := range e.listeners {
		l.ExceptionThrown(ctx, req, err)
	}
}
