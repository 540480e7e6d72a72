package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/flowpc/internal/ctxlog"
	"github.com/specialistvlad/flowpc/internal/execution"
	"github.com/specialistvlad/flowpc/internal/fixture"
	"github.com/specialistvlad/flowpc/internal/persistence"
	"github.com/specialistvlad/flowpc/internal/sqlpc"
	"golang.org/x/sync/errgroup"
)

// Run opens the database, optionally seeds it, and runs every configured
// scenario. Each scenario is run Requests times concurrently; every run has
// its own execution and request context.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.MetricsPort > 0 {
		a.startServer(a.config.MetricsPort)
		defer func() {
			if cerr := a.closeServer(context.WithoutCancel(ctx)); err == nil && cerr != nil {
				err = cerr
			}
		}()
	}

	db, err := fixture.Open(ctx, a.config.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if a.config.Seed {
		if err := fixture.Populate(ctx, db); err != nil {
			return err
		}
		a.logger.Info("Database seeded.")
	}

	listener := persistence.NewListener(sqlpc.NewFactory(db), persistence.WithObserver(a.metrics))
	runner := &scenarioRunner{
		registry: a.registry,
		executor: execution.NewExecutor(listener),
		listener: listener,
	}

	if len(a.registry.Scenarios) == 0 {
		a.logger.Warn("No scenarios configured, nothing to run.", "flows", a.registry.FlowIDs())
		return nil
	}

	a.logger.Info("🚀 Running scenarios...", "count", len(a.registry.Scenarios), "requests", a.config.Requests)
	for _, sc := range a.registry.Scenarios {
		g, gctx := errgroup.WithContext(ctx)
		for i := 1; i <= a.config.Requests; i++ {
			g.Go(func() error {
				return runner.run(gctx, sc, i)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("scenario %q failed: %w", sc.Name, err)
		}
		a.logger.Info("✅ Scenario finished.", "scenario", sc.Name)
		fmt.Fprintf(a.outW, "scenario %s: %d run(s) ok\n", sc.Name, a.config.Requests)
	}

	a.logger.Info("🏁 Execution finished.")
	a.logger.Debug("App.Run method finished.")
	return nil
}
