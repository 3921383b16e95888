package stackcheck

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
	"github.com/cirisai/stackcheck/internal/stackcheck/benchmark"
	"github.com/cirisai/stackcheck/internal/stackcheck/webhook"
	"github.com/cirisai/stackcheck/pkg/client/cirisnode"
)

type BenchmarkConfig struct {
	Request cirisnode.RunRequest
	// Number of sequential runs of Request.
	Runs int
	// Report format: text, yaml or json.
	Output string
}

func (config *BenchmarkConfig) Validate() error {
	if config.Runs <= 0 {
		return errors.WithStack(&stackerrors.ErrInvalidArgument{
			Name:    "Runs",
			Value:   config.Runs,
			Message: "number of runs must be positive",
		})
	}
	return nil
}

// Benchmark submits Request to the node Runs times, one after the other, polling each job
// until it finishes or times out, and prints the resulting report.
// A run the node refuses to authorise is skipped and doesn't fail the command.
func (a *App) Benchmark(ctx context.Context, config *BenchmarkConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	formatter, err := benchmark.FormatterByName(config.Output)
	if err != nil {
		return err
	}

	stopMetrics := a.serveMetrics()
	defer stopMetrics()

	env := a.newEnv()
	defer env.Close()
	node := env.AuthenticatedNode(ctx)

	observers := env.BenchmarkObservers
	if a.Params.Config.Webhook.Enabled() {
		observers = append(observers, webhook.NewNotifier(a.Params.Config.Webhook, config.Request))
	}
	runConfig := benchmark.Config{
		Request:  config.Request,
		Timeout:  env.BenchmarkTimeout,
		Interval: env.BenchmarkInterval,
	}

	var reports []*benchmark.Report
	var result *multierror.Error
	for i := 0; i < config.Runs; i++ {
		if ctx.Err() != nil {
			result = multierror.Append(result, errors.WithStack(ctx.Err()))
			break
		}
		report, err := benchmark.NewRunner(node, runConfig, observers...).Run(ctx)
		reports = append(reports, report)
		logger := log.WithFields(log.Fields{"run": i + 1, "runId": report.RunId, "outcome": report.Outcome})
		switch {
		case err == nil:
			logger.Info("benchmark run finished")
		case stackerrors.IsSkipped(err):
			logger.WithError(err).Warn("benchmark run skipped")
		default:
			logger.WithError(err).Error("benchmark run failed")
			result = multierror.Append(result, errors.WithMessagef(err, "run %d", i+1))
		}
	}

	if err := a.printReports(reports, formatter); err != nil {
		return err
	}
	return result.ErrorOrNil()
}

func (a *App) printReports(reports []*benchmark.Report, formatter benchmark.Formatter) error {
	if len(reports) == 0 {
		return nil
	}
	if formatter == nil {
		if len(reports) == 1 {
			reports[0].Print(a.Out)
		} else {
			benchmark.Aggregate(reports).Print(a.Out)
		}
		return nil
	}

	var out []byte
	var err error
	if len(reports) == 1 {
		out, err = reports[0].Generate(formatter)
	} else {
		out, err = benchmark.Aggregate(reports).Generate(formatter)
	}
	if err != nil {
		return err
	}
	_, err = a.Out.Write(append(out, '\n'))
	return errors.WithStack(err)
}
