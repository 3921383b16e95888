// Package artifacts checks the CI/CD files of a staging repository: compose files, workflows,
// configs, scripts, and the version file. Each validator covers one class of artifact and reports
// every problem it finds, aggregated into a single *multierror.Error.
package artifacts

import (
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
)

// Validator checks one class of artifact under a repository root.
type Validator struct {
	Name        string
	Description string
	Validate    func(root string) error
}

var registry = []Validator{
	{Name: "version", Description: "VERSION holds a three-part numeric version", Validate: ValidateVersion},
	{Name: "env-example", Description: ".env.example exists and parses", Validate: ValidateEnvExample},
	{Name: "feature-flags", Description: "config/feature-flags.yaml defines flags", Validate: ValidateFeatureFlags},
	{Name: "models", Description: "config/models.yaml defines providers", Validate: ValidateModels},
	{Name: "forks", Description: "config/forks.yaml lists both forked repositories", Validate: ValidateForks},
	{Name: "environments", Description: "config/environments/*.yaml name their environment", Validate: ValidateEnvironments},
	{Name: "compose", Description: "docker compose files exist and define the stack services", Validate: ValidateCompose},
	{Name: "workflows", Description: "GitHub Actions workflows exist and are well formed", Validate: ValidateWorkflows},
	{Name: "makefile", Description: "Makefile has the required targets", Validate: ValidateMakefile},
	{Name: "jenkinsfile", Description: "Jenkinsfile defines a pipeline with stages", Validate: ValidateJenkinsfile},
	{Name: "scripts", Description: "scripts/*.sh exist and are bash scripts", Validate: ValidateScripts},
}

// Validators returns every registered validator, in run order.
func Validators() []Validator {
	return append([]Validator(nil), registry...)
}

// Names returns the names of all registered validators.
func Names() []string {
	names := make([]string, len(registry))
	for i, v := range registry {
		names[i] = v.Name
	}
	return names
}

// Lookup returns the named validators in registry order. No names means all.
func Lookup(names ...string) ([]Validator, error) {
	if len(names) == 0 {
		return Validators(), nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var validators []Validator
	for _, v := range registry {
		if wanted[v.Name] {
			validators = append(validators, v)
			delete(wanted, v.Name)
		}
	}
	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for name := range wanted {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, errors.WithStack(&stackerrors.ErrInvalidArgument{
			Name:    "validator",
			Value:   unknown,
			Message: fmt.Sprintf("expected names from %v", Names()),
		})
	}
	return validators, nil
}

type Result struct {
	Name     string
	Duration time.Duration
	// Err is nil when the artifact class is valid.
	Err error
}

// Run runs validators against root, in order. It never stops early.
func Run(root string, validators []Validator) []Result {
	results := make([]Result, 0, len(validators))
	for _, v := range validators {
		start := time.Now()
		err := v.Validate(root)
		results = append(results, Result{
			Name:     v.Name,
			Duration: time.Since(start),
			Err:      err,
		})
	}
	return results
}
