package stackcheck

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/internal/stackcheck/report"
	"github.com/cirisai/stackcheck/internal/stackcheck/suite"
)

type E2EConfig struct {
	// Groups to run. Empty means all of them.
	Groups []suite.Group
	// If set, results are also written to this file as JUnit XML.
	JUnitFile string
}

// E2E runs the live checks of the selected groups and prints a summary.
// Checks that need the stack are skipped, not failed, when it isn't running.
func (a *App) E2E(ctx context.Context, config *E2EConfig) error {
	stopMetrics := a.serveMetrics()
	defer stopMetrics()

	env := a.newEnv()
	defer env.Close()

	start := time.Now()
	results := suite.New(a.Out, suite.DefaultCases(), a.Metrics).Run(ctx, env, config.Groups...)

	entries := report.FromSuite(results)
	report.PrintSummary(a.Out, entries, time.Since(start))
	if config.JUnitFile != "" {
		if err := report.WriteJUnitFile(config.JUnitFile, "stackcheck e2e", entries); err != nil {
			return err
		}
	}
	if ctx.Err() != nil {
		return errors.WithMessage(ctx.Err(), "e2e checks interrupted")
	}
	if failed := report.Count(entries).Failed; failed > 0 {
		return errors.Errorf("%d of %d check(s) failed", failed, len(entries))
	}
	return nil
}

// Mock runs the checks that substitute a canned engine response for the live engine.
// It needs no running stack.
func (a *App) Mock(ctx context.Context) error {
	return a.E2E(ctx, &E2EConfig{Groups: []suite.Group{suite.GroupMock}})
}
