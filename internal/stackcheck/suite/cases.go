package suite

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
	"github.com/cirisai/stackcheck/internal/stackcheck/benchmark"
	"github.com/cirisai/stackcheck/internal/stackcheck/probe"
	"github.com/cirisai/stackcheck/pkg/client/cirisnode"
	"github.com/cirisai/stackcheck/pkg/client/ethicsengine"
)

const (
	concurrentRequests = 10
	concurrentWorkers  = 5
)

// DefaultCases returns every check, in the order they run.
func DefaultCases() []Case {
	return []Case{
		{Name: "cirisnode-health", Group: GroupIntegration, RequiresStack: true, Run: cirisNodeHealth},
		{Name: "eee-health", Group: GroupIntegration, RequiresStack: true, Run: engineHealth},
		{Name: "he300-catalog", Group: GroupIntegration, RequiresStack: true, Run: he300Catalog},
		{Name: "he300-batch", Group: GroupIntegration, RequiresStack: true, Run: he300Batch},
		{Name: "cirisnode-triggers-eee", Group: GroupIntegration, RequiresStack: true, Run: cirisNodeTriggersEngine},

		{Name: "small-benchmark-run", Group: GroupE2E, RequiresStack: true, Run: smallBenchmarkRun},
		{Name: "eee-direct-batch", Group: GroupE2E, RequiresStack: true, Run: engineDirectBatch},
		{Name: "benchmark-categories", Group: GroupE2E, RequiresStack: true, Run: benchmarkCategories},

		{Name: "invalid-benchmark-type", Group: GroupResilience, RequiresStack: true, Run: invalidBenchmarkType},
		{Name: "empty-batch", Group: GroupResilience, RequiresStack: true, Run: emptyBatch},
		{Name: "concurrent-requests", Group: GroupResilience, RequiresStack: true, Run: concurrentHealthRequests},

		{Name: "mock-eee-response", Group: GroupMock, Run: mockEngineResponse},
	}
}

func cirisNodeHealth(ctx context.Context, env *Env) error {
	ctx, cancel := env.withRequestTimeout(ctx)
	defer cancel()
	resp, err := env.Node.Health(ctx)
	if err != nil {
		return err
	}
	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return err
	}
	return resp.RequireAnyKey("status")
}

func engineHealth(ctx context.Context, env *Env) error {
	ctx, cancel := env.withRequestTimeout(ctx)
	defer cancel()
	resp, err := env.Engine.Health(ctx)
	if err != nil {
		return err
	}
	return resp.ExpectStatus(http.StatusOK)
}

func he300Catalog(ctx context.Context, env *Env) error {
	ctx, cancel := env.withRequestTimeout(ctx)
	defer cancel()
	resp, err := env.Engine.Catalog(ctx)
	if err != nil {
		return err
	}
	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return err
	}
	return resp.RequireAnyKey("categories", "scenarios")
}

func he300Batch(ctx context.Context, env *Env) error {
	ctx, cancel := context.WithTimeout(ctx, BatchTimeout)
	defer cancel()
	resp, err := env.Engine.Batch(ctx, []ethicsengine.Scenario{{
		ScenarioId: "test-1",
		Text:       "Test scenario",
		Category:   ethicsengine.DefaultCategory,
	}})
	if err != nil {
		return err
	}
	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return err
	}
	return resp.RequireAnyKey("results")
}

// The node may refuse the static token but must be reachable and must not error.
func cirisNodeTriggersEngine(ctx context.Context, env *Env) error {
	ctx, cancel := env.withRequestTimeout(ctx)
	defer cancel()
	resp, err := env.Node.WithToken(FallbackToken).RunBenchmark(ctx, cirisnode.NewHE300Request(5, 42))
	if err != nil {
		return err
	}
	return resp.ExpectStatus(http.StatusOK, http.StatusAccepted, http.StatusUnauthorized, http.StatusForbidden)
}

func smallBenchmarkRun(ctx context.Context, env *Env) error {
	node := env.AuthenticatedNode(ctx)
	runner := benchmark.NewRunner(node, env.benchmarkConfig(cirisnode.NewHE300Request(5, 42)), env.BenchmarkObservers...)
	_, err := runner.Run(ctx)
	return err
}

func engineDirectBatch(ctx context.Context, env *Env) error {
	ctx, cancel := context.WithTimeout(ctx, BatchTimeout)
	defer cancel()
	resp, err := env.Engine.Batch(ctx, ethicsengine.NewScenarios("e2e-test", 3, true))
	if err != nil {
		return err
	}
	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return err
	}
	if err := resp.RequireAnyKey("results"); err != nil {
		return err
	}
	n, err := ethicsengine.CountResults(resp)
	if err != nil {
		return err
	}
	if n != 3 {
		return errors.WithStack(&stackerrors.ErrUnexpectedBody{
			Url:     resp.Url,
			Message: fmt.Sprintf("expected 3 results, got %d", n),
		})
	}
	return nil
}

func benchmarkCategories(ctx context.Context, env *Env) error {
	ctx, cancel := env.withRequestTimeout(ctx)
	defer cancel()
	resp, err := env.Engine.Catalog(ctx)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return stackerrors.Skip("catalog not available (%d)", resp.StatusCode)
	}
	catalog, err := ethicsengine.DecodeCatalog(resp)
	if err != nil {
		return err
	}
	category, ok := catalog.FirstCategory()
	if !ok {
		return stackerrors.Skip("no categories in catalog")
	}

	resp, err = env.AuthenticatedNode(ctx).RunBenchmark(ctx, cirisnode.NewHE300Request(3, 42, category))
	if err != nil {
		return err
	}
	if resp.StatusIn(http.StatusUnauthorized, http.StatusForbidden) {
		return stackerrors.Skip("authentication required (%d)", resp.StatusCode)
	}
	return resp.ExpectStatus(http.StatusOK, http.StatusAccepted)
}

func invalidBenchmarkType(ctx context.Context, env *Env) error {
	ctx, cancel := env.withRequestTimeout(ctx)
	defer cancel()
	resp, err := env.Node.WithToken("test").RunBenchmark(ctx, cirisnode.RunRequest{BenchmarkType: "invalid", NScenarios: 5})
	if err != nil {
		return err
	}
	return resp.ExpectStatus(http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity)
}

func emptyBatch(ctx context.Context, env *Env) error {
	ctx, cancel := env.withRequestTimeout(ctx)
	defer cancel()
	resp, err := env.Engine.Batch(ctx, nil)
	if err != nil {
		return err
	}
	return resp.ExpectStatus(http.StatusOK, http.StatusBadRequest, http.StatusUnprocessableEntity)
}

func concurrentHealthRequests(ctx context.Context, env *Env) error {
	ctx, cancel := env.withRequestTimeout(ctx)
	defer cancel()
	codes := probe.ConcurrentHealth(ctx, env.http, env.Details.CirisNodeUrl, concurrentRequests, concurrentWorkers)
	for _, code := range codes {
		if code != http.StatusOK {
			return errors.Errorf("expected %d concurrent health checks to return 200, got %v", concurrentRequests, codes)
		}
	}
	return nil
}

func mockEngineResponse(ctx context.Context, env *Env) error {
	batch, err := env.Processor.ProcessBatch(ctx, []ethicsengine.Scenario{})
	if err != nil {
		return err
	}
	if batch == nil || batch.Results == nil {
		return errors.WithStack(&stackerrors.ErrMissingKey{Artifact: "batch response", Key: "results"})
	}
	if batch.Summary == nil {
		return errors.WithStack(&stackerrors.ErrMissingKey{Artifact: "batch response", Key: "summary"})
	}
	return nil
}
