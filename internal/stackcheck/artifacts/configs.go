package artifacts

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const (
	FeatureFlagsFile = "config/feature-flags.yaml"
	ModelsFile       = "config/models.yaml"
	ForksFile        = "config/forks.yaml"
)

// Environments that must each have config/environments/<name>.yaml.
var Environments = []string{"development", "staging", "production"}

// Repositories that config/forks.yaml must list.
var ForkedRepositories = []string{"ethicsengine", "cirisnode"}

// ValidateFeatureFlags checks that flags is a non-empty mapping, or a non-empty list whose
// mapping entries each have a name and a default.
func ValidateFeatureFlags(root string) error {
	m, err := loadYaml(root, FeatureFlagsFile)
	if err != nil {
		return err
	}
	flags := m.get("flags")
	if flags == nil {
		return m.missing("flags", "")
	}
	if isEmpty(flags) {
		return m.missing("flags", "no flags defined")
	}

	var result *multierror.Error
	if flags.Kind == yaml.SequenceNode {
		for i, flag := range flags.Content {
			if flag.Kind != yaml.MappingNode {
				continue
			}
			name := lookup(flag, "name")
			if name == nil {
				result = multierror.Append(result, m.missing(fmt.Sprintf("flags[%d].name", i), ""))
				continue
			}
			if lookup(flag, "default") == nil {
				result = multierror.Append(result, m.missing(fmt.Sprintf("flags[%d].default", i), "flag "+name.Value))
			}
		}
	}
	return result.ErrorOrNil()
}

func ValidateModels(root string) error {
	m, err := loadYaml(root, ModelsFile)
	if err != nil {
		return err
	}
	providers := m.get("providers")
	if providers == nil {
		return m.missing("providers", "")
	}
	if isEmpty(providers) {
		return m.missing("providers", "no providers defined")
	}
	return nil
}

func ValidateForks(root string) error {
	m, err := loadYaml(root, ForksFile)
	if err != nil {
		return err
	}
	repositories := m.get("repositories")
	if repositories == nil {
		return m.missing("repositories", "")
	}
	var result *multierror.Error
	for _, repo := range ForkedRepositories {
		if !containsKey(repositories, repo) {
			result = multierror.Append(result, m.missing("repositories."+repo, ""))
		}
	}
	return result.ErrorOrNil()
}

// ValidateEnvironments checks that every environment file exists and names its own environment.
func ValidateEnvironments(root string) error {
	var result *multierror.Error
	for _, env := range Environments {
		rel := "config/environments/" + env + ".yaml"
		m, err := loadYaml(root, rel)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		value := m.get("environment")
		if value == nil {
			result = multierror.Append(result, m.missing("environment", ""))
			continue
		}
		if value.Kind != yaml.ScalarNode || value.Value != env {
			result = multierror.Append(result, m.missing("environment", fmt.Sprintf("expected %q, got %q", env, value.Value)))
		}
	}
	return result.ErrorOrNil()
}
