package stackcheck

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/internal/common/health"
)

// Probe checks the liveness of both services and of every configured backing service,
// printing one line per service. It returns an error naming everything that is down.
func (a *App) Probe(ctx context.Context) error {
	details := a.Params.ApiConnectionDetails
	status := a.newProber().Stack(ctx, details)

	var down []string
	w := tabwriter.NewWriter(a.Out, 1, 1, 2, ' ', 0)
	printLine := func(service string, up bool, detail string) {
		state := "up"
		if !up {
			state = "down"
			down = append(down, service)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", service, state, detail)
	}
	printLine("cirisnode", status.CirisNode, details.CirisNodeUrl)
	printLine("ethicsengine", status.Engine, details.EeeUrl)

	dependencies := health.DependencyCheckers(a.Params.Config.Redis, a.Params.Config.Postgres)
	results := dependencies.Results(ctx)
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		err := results[name]
		detail := ""
		if err != nil {
			detail = err.Error()
		}
		printLine(name, err == nil, detail)
	}
	w.Flush()

	if len(down) > 0 {
		return errors.Errorf("services down: %v", down)
	}
	return nil
}
