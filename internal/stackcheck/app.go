package stackcheck

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cirisai/stackcheck/internal/common"
	"github.com/cirisai/stackcheck/internal/common/health"
	"github.com/cirisai/stackcheck/internal/stackcheck/build"
	"github.com/cirisai/stackcheck/internal/stackcheck/configuration"
	"github.com/cirisai/stackcheck/internal/stackcheck/metrics"
	"github.com/cirisai/stackcheck/internal/stackcheck/probe"
	"github.com/cirisai/stackcheck/internal/stackcheck/suite"
	"github.com/cirisai/stackcheck/pkg/client"
)

type App struct {
	// Parameters passed to the CLI by the user.
	Params *Params
	// Out is used to write the output. Defaults to standard out,
	// but can be overridden in tests to make assertions on the applications's output.
	Out io.Writer
	// Collects check, probe and benchmark metrics for the lifetime of the app.
	Metrics *metrics.Metrics
}

// Params struct holds all user-customizable parameters.
// Using a single struct for all CLI commands ensures that all flags are distinct
// and that they can be provided either dynamically on a command line, or
// statically in a config file that's reused between command runs.
type Params struct {
	ApiConnectionDetails *client.ApiConnectionDetails
	Config               *configuration.StackcheckConfig
}

// New instantiates an App with default parameters, including standard output.
func New() *App {
	return &App{
		Params:  &Params{},
		Out:     os.Stdout,
		Metrics: metrics.New(),
	}
}

// Version prints build information (e.g., current git commit) to the app output.
func (a *App) Version() error {
	w := tabwriter.NewWriter(a.Out, 1, 1, 1, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "Version:\t%s\n", build.ReleaseVersion)
	fmt.Fprintf(w, "Commit:\t%s\n", build.GitCommit)
	fmt.Fprintf(w, "Go version:\t%s\n", build.GoVersion)
	fmt.Fprintf(w, "Built:\t%s\n", build.BuildTime)
	return nil
}

func (a *App) newProber() *probe.Prober {
	return probe.New(a.Params.Config.ProbeTimeout, a.Metrics)
}

func (a *App) newEnv() *suite.Env {
	cfg := a.Params.Config
	env := suite.NewEnv(a.Params.ApiConnectionDetails, a.newProber())
	env.BenchmarkTimeout = cfg.Benchmark.Timeout
	env.BenchmarkInterval = cfg.Benchmark.Interval
	env.BenchmarkObservers = append(env.BenchmarkObservers, a.Metrics)
	return env
}

// serveMetrics starts the /metrics listener if one is configured. The returned function stops it.
// The listener's /health reports the configured backing services.
func (a *App) serveMetrics() func() {
	cfg := a.Params.Config
	if cfg.MetricsAddr == "" {
		return func() {}
	}
	return common.ServeMetrics(cfg.MetricsAddr, a.Metrics.Registry(), health.DependencyCheckers(cfg.Redis, cfg.Postgres))
}
