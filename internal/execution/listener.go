package execution

import (
	"context"

	"github.com/specialistvlad/flowpc/internal/flow"
)

// Listener observes session lifecycle events. All callbacks are synchronous;
// a returned error aborts the transition that fired it.
type Listener interface {
	// SessionStarting fires before the session becomes active. The session's
	// parent, if any, is still the active session.
	SessionStarting(ctx context.Context, req *RequestContext, session *flow.Session) error
	// SessionEnding fires while the session is still active and its end
	// state has been set. An aborted session has a nil State.
	SessionEnding(ctx context.Context, req *RequestContext, session *flow.Session, outcome string) error
	// SessionEnded fires after the session has been popped; the parent, if
	// any, is active again.
	SessionEnded(ctx context.Context, req *RequestContext, session *flow.Session, outcome string) error
	// Paused fires when a request stops driving a still active execution.
	Paused(ctx context.Context, req *RequestContext) error
	// Resumed fires when a new request picks the execution back up.
	Resumed(ctx context.Context, req *RequestContext) error
	// ExceptionThrown fires when a transition failed.
	ExceptionThrown(ctx context.Context, req *RequestContext, err error)
}

// NoopListener implements Listener with empty callbacks. Embed it to
// implement only the callbacks you need.
type NoopListener struct{}

func (NoopListener) SessionStarting(context.Context, *RequestContext, *flow.Session) error {
	return nil
}

func (NoopListener) SessionEnding(context.Context, *RequestContext, *flow.Session, string) error {
	return nil
}

func (NoopListener) SessionEnded(context.Context, *RequestContext, *flow.Session, string) error {
	return nil
}

func (NoopListener) Paused(context.Context, *RequestContext) error  { return nil }
func (NoopListener) Resumed(context.Context, *RequestContext) error { return nil }

func (NoopListener) ExceptionThrown(context.Context, *RequestContext, error) {}
