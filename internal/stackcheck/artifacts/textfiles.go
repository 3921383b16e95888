package artifacts

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
)

const (
	Makefile    = "Makefile"
	Jenkinsfile = "Jenkinsfile"
	ScriptsDir  = "scripts"
)

// MakeTargets must each appear as "<target>:" in the Makefile.
var MakeTargets = []string{"help", "setup", "test", "dev-up", "dev-down", "benchmark"}

// Scripts must exist under ScriptsDir.
var Scripts = []string{
	"setup-submodules.sh",
	"run-tests.sh",
	"run-benchmark.sh",
	"version-bump.sh",
	"build-images.sh",
	"sync-forks.sh",
	"deploy.sh",
}

func ValidateMakefile(root string) error {
	data, err := readArtifact(root, Makefile)
	if err != nil {
		return err
	}
	markers := make([]string, len(MakeTargets))
	for i, target := range MakeTargets {
		markers[i] = target + ":"
	}
	return requireStrings(Makefile, string(data), markers...)
}

func ValidateJenkinsfile(root string) error {
	data, err := readArtifact(root, Jenkinsfile)
	if err != nil {
		return err
	}
	return requireStrings(Jenkinsfile, string(data), "pipeline", "stages")
}

// ValidateScripts checks that the scripts exist and that every script starts with a bash shebang.
func ValidateScripts(root string) error {
	var result *multierror.Error
	required := make([]string, len(Scripts))
	for i, f := range Scripts {
		required[i] = ScriptsDir + "/" + f
	}
	if err := requireArtifacts(root, required...); err != nil {
		result = multierror.Append(result, err)
	}

	files, err := glob(root, ScriptsDir, "*.sh")
	if err != nil {
		return multierror.Append(result, err)
	}
	for _, rel := range files {
		data, err := readArtifact(root, rel)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if err := checkShebang(rel, string(data)); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func checkShebang(artifact string, content string) error {
	if !strings.HasPrefix(content, "#!/") {
		return errors.WithStack(&stackerrors.ErrMissingKey{Artifact: artifact, Key: "#!/", Message: "missing shebang"})
	}
	firstLine := strings.SplitN(content, "\n", 2)[0]
	if !strings.Contains(firstLine, "bash") {
		return errors.WithStack(&stackerrors.ErrMissingKey{Artifact: artifact, Key: "bash", Message: "not a bash script"})
	}
	return nil
}
