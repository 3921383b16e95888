package artifacts

import (
	"github.com/hashicorp/go-multierror"
)

const WorkflowsDir = ".github/workflows"

// Workflows must exist under WorkflowsDir.
var Workflows = []string{
	"ci.yml",
	"he300-benchmark.yml",
	"regression.yml",
	"release.yml",
	"benchmark.yml",
	"submodule-sync.yml",
}

// triggerKeys are the spellings of the trigger key that YAML 1.1 loaders read as on or as boolean true.
// y and n are not among them.
var triggerKeys = []string{"on", "On", "ON", "true", "True", "TRUE", "yes", "Yes", "YES"}

// ValidateWorkflows checks that the workflows exist and that each has a name, a trigger, and jobs.
func ValidateWorkflows(root string) error {
	var result *multierror.Error
	required := make([]string, len(Workflows))
	for i, f := range Workflows {
		required[i] = WorkflowsDir + "/" + f
	}
	if err := requireArtifacts(root, required...); err != nil {
		result = multierror.Append(result, err)
	}

	files, err := glob(root, WorkflowsDir, "*.yml")
	if err != nil {
		return multierror.Append(result, err)
	}
	for _, rel := range files {
		m, err := loadYaml(root, rel)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if err := m.require("name"); err != nil {
			result = multierror.Append(result, err)
		}
		if m.get(triggerKeys...) == nil {
			result = multierror.Append(result, m.missing("on", "no trigger"))
		}
		if err := m.require("jobs"); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
