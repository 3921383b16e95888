package artifacts

import (
	"github.com/hashicorp/go-multierror"
)

const ComposeDir = "docker"

// ComposeFiles must exist under ComposeDir.
var ComposeFiles = []string{
	"docker-compose.he300.yml",
	"docker-compose.dev.yml",
	"docker-compose.test.yml",
	"docker-compose.prod.yml",
}

const he300ComposeFile = ComposeDir + "/docker-compose.he300.yml"

// Services the HE-300 compose file must define. The database may be called postgres or db.
var he300Services = []string{"cirisnode", "eee", "redis"}

// ValidateCompose checks that the compose files exist, that each defines services,
// and that the HE-300 file defines the whole stack.
func ValidateCompose(root string) error {
	var result *multierror.Error
	required := make([]string, len(ComposeFiles))
	for i, f := range ComposeFiles {
		required[i] = ComposeDir + "/" + f
	}
	if err := requireArtifacts(root, required...); err != nil {
		result = multierror.Append(result, err)
	}

	files, err := glob(root, ComposeDir, "*.yml")
	if err != nil {
		return multierror.Append(result, err)
	}
	for _, rel := range files {
		m, err := loadYaml(root, rel)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		services := m.get("services")
		if services == nil {
			result = multierror.Append(result, m.missing("services", ""))
			continue
		}
		if rel != he300ComposeFile {
			continue
		}
		for _, service := range he300Services {
			if !containsKey(services, service) {
				result = multierror.Append(result, m.missing("services."+service, ""))
			}
		}
		if !containsKey(services, "postgres") && !containsKey(services, "db") {
			result = multierror.Append(result, m.missing("services.postgres", "neither postgres nor db is defined"))
		}
	}
	return result.ErrorOrNil()
}
