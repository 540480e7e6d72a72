package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/flowpc/internal/config"
	"github.com/specialistvlad/flowpc/internal/ctxlog"
	"github.com/specialistvlad/flowpc/internal/execution"
	"github.com/specialistvlad/flowpc/internal/persistence"
	"github.com/specialistvlad/flowpc/internal/registry"
	"github.com/specialistvlad/flowpc/internal/sqlpc"
)

// RequestPlaceholder in a statement is replaced with the 1-based number of
// the concurrent run, so parallel runs can insert distinct keys.
const RequestPlaceholder = "{request}"

var errNoUnitOfWork = errors.New("no unit of work bound")

// scenarioRunner plays a scenario's invocation tree against an executor.
type scenarioRunner struct {
	registry *registry.Registry
	executor *execution.Executor
	listener *persistence.Listener
}

// run executes one independent run of sc.
func (r *scenarioRunner) run(ctx context.Context, sc *config.Scenario, request int) error {
	ctx = ctxlog.With(ctx, "scenario", sc.Name, "request", request)
	req := execution.NewRequestContext(execution.NewExecution())
	_, err := r.invoke(ctx, req, sc.Root, request)
	return err
}

// invoke starts inv, queues its statements, runs its subflows and ends it.
// A pause swaps in a new request context, which is returned to the caller.
// If anything fails after the session started, the session is aborted so
// its unit of work is closed and the parent gets its binding back.
func (r *scenarioRunner) invoke(ctx context.Context, req *execution.RequestContext, inv *config.Invocation, request int) (*execution.RequestContext, error) {
	def, err := r.registry.Definition(inv.Flow)
	if err != nil {
		return req, err
	}
	if _, err := r.executor.Start(ctx, req, def); err != nil {
		return req, err
	}

	req, err = r.drive(ctx, req, inv, request)
	if err != nil {
		return req, r.executor.Abort(ctx, req, err)
	}
	return req, r.executor.End(ctx, req, inv.Outcome)
}

// drive runs everything between the start and the end of inv's session.
func (r *scenarioRunner) drive(ctx context.Context, req *execution.RequestContext, inv *config.Invocation, request int) (*execution.RequestContext, error) {
	for _, stmt := range inv.Statements {
		if err := r.queue(req, expand(stmt, request)); err != nil {
			return req, fmt.Errorf("flow %q: %w", inv.Flow, err)
		}
	}

	var err error
	for _, sub := range inv.Subflows {
		if req, err = r.invoke(ctx, req, sub, request); err != nil {
			return req, err
		}
	}

	if inv.Pause {
		if err := r.executor.Pause(ctx, req); err != nil {
			return req, err
		}
		req = execution.NewRequestContext(req.Execution())
		if err := r.executor.Resume(ctx, req); err != nil {
			return req, err
		}
		ctxlog.FromContext(ctx).Debug("Execution resumed in a new request.", "flow", inv.Flow)
	}
	return req, nil
}

func (r *scenarioRunner) queue(req *execution.RequestContext, stmt string) error {
	pc, ok := r.listener.Current(req)
	if !ok {
		return errNoUnitOfWork
	}
	uow, ok := pc.(*sqlpc.UnitOfWork)
	if !ok {
		return fmt.Errorf("bound context is %T, not a unit of work", pc)
	}
	return uow.Exec(stmt)
}

func expand(stmt string, request int) string {
	return strings.ReplaceAll(stmt, RequestPlaceholder, strconv.Itoa(request))
}
