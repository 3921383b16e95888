package stackcheck

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/internal/stackcheck/artifacts"
	"github.com/cirisai/stackcheck/internal/stackcheck/report"
)

type ValidateConfig struct {
	// Validators to run. Empty means all of them.
	Only []string
	// If set, results are also written to this file as JUnit XML.
	JUnitFile string
}

// Validate runs the artifact validators against the configured root and prints a summary.
// It returns an error if any validator failed.
func (a *App) Validate(config *ValidateConfig) error {
	validators, err := artifacts.Lookup(config.Only...)
	if err != nil {
		return err
	}
	root := a.Params.Config.Root

	start := time.Now()
	results := artifacts.Run(root, validators)
	for _, r := range results {
		if r.Err != nil {
			a.Metrics.RecordValidationFailure(r.Name)
			fmt.Fprintf(a.Out, "FAIL artifacts/%s: %s\n", r.Name, r.Err)
		} else {
			fmt.Fprintf(a.Out, "PASS artifacts/%s (%s)\n", r.Name, r.Duration.Round(time.Microsecond))
		}
	}

	entries := report.FromArtifacts(results)
	report.PrintSummary(a.Out, entries, time.Since(start))
	if config.JUnitFile != "" {
		if err := report.WriteJUnitFile(config.JUnitFile, "stackcheck validate", entries); err != nil {
			return err
		}
	}
	if failed := report.Count(entries).Failed; failed > 0 {
		return errors.Errorf("%d of %d artifact validator(s) failed under %s", failed, len(entries), root)
	}
	return nil
}
