package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/flowpc/internal/ctxlog"
	"github.com/specialistvlad/flowpc/internal/execution"
	"github.com/specialistvlad/flowpc/internal/flow"
)

// Listener is an execution.Listener that manages one persistence context per
// chain of opted-in sessions. It holds no per-request state.
type Listener struct {
	factory  Factory
	observer Observer
}

var _ execution.Listener = (*Listener)(nil)

// Option configures a Listener.
type Option func(*Listener)

// WithObserver reports lifecycle events to o.
func WithObserver(o Observer) Option {
	return func(l *Listener) {
		if o != nil {
			l.observer = o
		}
	}
}

// NewListener creates a listener that obtains contexts from factory.
func NewListener(factory Factory, opts ...Option) *Listener {
	l := &Listener{factory: factory, observer: noopObserver{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Current returns the context bound in req by this listener.
func (l *Listener) Current(req *execution.RequestContext) (Context, bool) {
	v, ok := req.Resource(l.factory)
	if !ok {
		return nil, false
	}
	pc, ok := v.(Context)
	return pc, ok
}

// SessionStarting reuses the parent's context, creates a new one, or
// unbinds the parent's context for a subflow that does not want one.
func (l *Listener) SessionStarting(ctx context.Context, req *execution.RequestContext, session *flow.Session) error {
	logger := sessionLogger(ctx, session)
	wants := session.Definition.IsPersistenceContext()

	if isParentPersistenceContext(session) {
		parentPC, ok, err := contextOf(session.Parent)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: parent flow %q has none in scope", ErrNotContext, session.Parent.FlowID())
		}
		if wants {
			session.Scope().Put(flow.PersistenceContextAttribute, parentPC)
			if err := l.bind(req, parentPC); err != nil {
				session.Scope().Remove(flow.PersistenceContextAttribute)
				return err
			}
			l.observer.ContextReused()
			logger.Debug("Reusing parent persistence context.")
			return nil
		}
		l.unbind(req)
		logger.Debug("Unbound parent persistence context for subflow without one.")
	}

	if !wants {
		return nil
	}

	pc, err := l.factory.Create(ctx)
	if err != nil {
		l.observer.ContextFailed(OpCreate)
		return fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	if err := l.bind(req, pc); err != nil {
		// Nothing else has seen pc yet.
		_ = pc.Close()
		return err
	}
	session.Scope().Put(flow.PersistenceContextAttribute, pc)
	l.observer.ContextCreated()
	logger.Debug("Created and bound persistence context.")
	return nil
}

// SessionEnding commits (when the end state asks for it), unbinds and closes
// the context owned by session. Sessions that share their parent's context
// leave it alone. Release happens even when commit fails.
func (l *Listener) SessionEnding(ctx context.Context, req *execution.RequestContext, session *flow.Session, outcome string) error {
	logger := sessionLogger(ctx, session).With("outcome", outcome)
	if isParentPersistenceContext(session) {
		logger.Debug("Persistence context belongs to parent, nothing to release.")
		return nil
	}
	if !session.Definition.IsPersistenceContext() {
		return nil
	}

	pc, ok, err := contextOf(session)
	if err != nil {
		return err
	}
	if !ok {
		logger.Debug("Persistence context already released.")
		return nil
	}

	var errs []error
	if session.State.Commit() {
		if err := pc.Commit(ctx); err != nil {
			l.observer.ContextFailed(OpCommit)
			errs = append(errs, fmt.Errorf("%w: %w", ErrCommitFailed, err))
		} else {
			l.observer.ContextCommitted()
			logger.Debug("Committed persistence context.")
		}
	}

	l.unbind(req)
	session.Scope().Remove(flow.PersistenceContextAttribute)

	if err := pc.Close(); err != nil {
		l.observer.ContextFailed(OpClose)
		errs = append(errs, fmt.Errorf("%w: %w", ErrCloseFailed, err))
	} else {
		l.observer.ContextClosed()
	}
	logger.Debug("Released persistence context.", "failed", len(errs) > 0)
	return errors.Join(errs...)
}

// SessionEnded binds the parent's context again once a subflow of an
// opted-in parent has ended.
func (l *Listener) SessionEnded(ctx context.Context, req *execution.RequestContext, session *flow.Session, outcome string) error {
	if !isParentPersistenceContext(session) {
		return nil
	}
	parentPC, ok, err := contextOf(session.Parent)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: parent flow %q has none in scope", ErrNotContext, session.Parent.FlowID())
	}
	if err := l.bind(req, parentPC); err != nil {
		return err
	}
	sessionLogger(ctx, session).Debug("Rebound parent persistence context.", "outcome", outcome)
	return nil
}

// Paused unbinds the active session's context from the outgoing request.
func (l *Listener) Paused(ctx context.Context, req *execution.RequestContext) error {
	active := req.ActiveSession()
	if active == nil || !active.Definition.IsPersistenceContext() {
		return nil
	}
	l.unbind(req)
	sessionLogger(ctx, active).Debug("Unbound persistence context on pause.")
	return nil
}

// Resumed binds the active session's context into the incoming request.
func (l *Listener) Resumed(ctx context.Context, req *execution.RequestContext) error {
	active := req.ActiveSession()
	if active == nil || !active.Definition.IsPersistenceContext() {
		return nil
	}
	pc, ok, err := contextOf(active)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: flow %q has none in scope", ErrNotContext, active.FlowID())
	}
	if err := l.bind(req, pc); err != nil {
		return err
	}
	sessionLogger(ctx, active).Debug("Bound persistence context on resume.")
	return nil
}

// ExceptionThrown unbinds the active session's context. The context itself
// stays open in the session scope.
func (l *Listener) ExceptionThrown(ctx context.Context, req *execution.RequestContext, err error) {
	active := req.ActiveSession()
	if active == nil || !active.Definition.IsPersistenceContext() {
		return
	}
	l.unbind(req)
	sessionLogger(ctx, active).Debug("Unbound persistence context after error.", "error", err)
}

func (l *Listener) bind(req *execution.RequestContext, pc Context) error {
	return req.BindResource(l.factory, pc)
}

func (l *Listener) unbind(req *execution.RequestContext) {
	req.UnbindResource(l.factory)
}

// isParentPersistenceContext reports whether session runs under a parent
// that opted in.
func isParentPersistenceContext(session *flow.Session) bool {
	return !session.IsRoot() && session.Parent.Definition.IsPersistenceContext()
}

// contextOf returns the context kept in the session scope.
func contextOf(session *flow.Session) (Context, bool, error) {
	scope := session.Scope()
	if !scope.Contains(flow.PersistenceContextAttribute) {
		return nil, false, nil
	}
	pc, ok := scope.Get(flow.PersistenceContextAttribute).(Context)
	if !ok {
		return nil, false, fmt.Errorf("%w: flow %q", ErrNotContext, session.FlowID())
	}
	return pc, true, nil
}

func sessionLogger(ctx context.Context, session *flow.Session) *slog.Logger {
	return ctxlog.FromContext(ctx).With("flow", session.FlowID(), "session", session.ID)
}
