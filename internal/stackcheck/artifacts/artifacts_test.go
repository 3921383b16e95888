package artifacts

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
)

const fixtureRoot = "testdata/staging"

// stagingCopy copies the fixture repository into a temporary directory.
func stagingCopy(t *testing.T) string {
	root := t.TempDir()
	err := filepath.WalkDir(fixtureRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(fixtureRoot, path)
		if err != nil {
			return err
		}
		target := filepath.Join(root, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)
	return root
}

func writeFile(t *testing.T, root string, rel string, content string) {
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func removeFile(t *testing.T, root string, rel string) {
	require.NoError(t, os.Remove(filepath.Join(root, filepath.FromSlash(rel))))
}

// kinds returns the kind of every error aggregated in err.
func kinds(err error) []stackerrors.Kind {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return []stackerrors.Kind{stackerrors.KindFromError(err)}
	}
	result := make([]stackerrors.Kind, len(merr.Errors))
	for i, e := range merr.Errors {
		result[i] = stackerrors.KindFromError(e)
	}
	return result
}

func TestValidators_Fixture(t *testing.T) {
	for _, result := range Run(fixtureRoot, Validators()) {
		assert.NoError(t, result.Err, result.Name)
	}
}

func TestValidators(t *testing.T) {
	tests := map[string]struct {
		validator     string
		mutate        func(t *testing.T, root string)
		expectedKinds []stackerrors.Kind
		expectedText  []string
	}{
		"missing VERSION": {
			validator:     "version",
			mutate:        func(t *testing.T, root string) { removeFile(t, root, "VERSION") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingArtifact},
			expectedText:  []string{"VERSION not found"},
		},
		"two-part VERSION": {
			validator:     "version",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, "VERSION", "1.4\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindInvalidArgument},
		},
		"non-numeric VERSION": {
			validator:     "version",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, "VERSION", "1.4.2-rc1") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindInvalidArgument},
			expectedText:  []string{"non-numeric"},
		},
		"missing .env.example": {
			validator:     "env-example",
			mutate:        func(t *testing.T, root string) { removeFile(t, root, ".env.example") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingArtifact},
		},
		"feature flags without flags": {
			validator:     "feature-flags",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, FeatureFlagsFile, "other: 1\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey},
			expectedText:  []string{`missing "flags"`},
		},
		"feature flags empty mapping": {
			validator:     "feature-flags",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, FeatureFlagsFile, "flags: {}\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey},
			expectedText:  []string{"no flags defined"},
		},
		"feature flags entries without name or default": {
			validator: "feature-flags",
			mutate: func(t *testing.T, root string) {
				writeFile(t, root, FeatureFlagsFile, "flags:\n  - name: a\n  - default: true\n  - plain\n")
			},
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey, stackerrors.KindMissingKey},
			expectedText:  []string{"flags[0].default", "flags[1].name"},
		},
		"empty providers": {
			validator:     "models",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, ModelsFile, "providers: []\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey},
			expectedText:  []string{"no providers defined"},
		},
		"forks missing cirisnode": {
			validator:     "forks",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, ForksFile, "repositories:\n  ethicsengine: {}\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey},
			expectedText:  []string{"repositories.cirisnode"},
		},
		"forks as a list": {
			validator: "forks",
			mutate: func(t *testing.T, root string) {
				writeFile(t, root, ForksFile, "repositories:\n  - ethicsengine\n  - cirisnode\n")
			},
		},
		"environment mismatch and missing file": {
			validator: "environments",
			mutate: func(t *testing.T, root string) {
				writeFile(t, root, "config/environments/staging.yaml", "environment: production\n")
				removeFile(t, root, "config/environments/production.yaml")
			},
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey, stackerrors.KindMissingArtifact},
			expectedText:  []string{`expected "staging", got "production"`, "config/environments/production.yaml not found"},
		},
		"invalid environment yaml": {
			validator:     "environments",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, "config/environments/development.yaml", "environment: [\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindUnknown},
			expectedText:  []string{"not valid YAML"},
		},
		"missing compose file": {
			validator:     "compose",
			mutate:        func(t *testing.T, root string) { removeFile(t, root, "docker/docker-compose.prod.yml") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingArtifact},
		},
		"extra compose file without services": {
			validator:     "compose",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, "docker/docker-compose.extra.yml", "version: '3'\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey},
			expectedText:  []string{"docker/docker-compose.extra.yml missing \"services\""},
		},
		"he300 compose missing services": {
			validator: "compose",
			mutate: func(t *testing.T, root string) {
				writeFile(t, root, "docker/docker-compose.he300.yml", "services:\n  cirisnode: {}\n  eee: {}\n")
			},
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey, stackerrors.KindMissingKey},
			expectedText:  []string{"services.redis", "neither postgres nor db"},
		},
		"he300 compose with postgres": {
			validator: "compose",
			mutate: func(t *testing.T, root string) {
				writeFile(t, root, "docker/docker-compose.he300.yml", "services:\n  cirisnode: {}\n  eee: {}\n  redis: {}\n  postgres: {}\n")
			},
		},
		"missing workflow": {
			validator:     "workflows",
			mutate:        func(t *testing.T, root string) { removeFile(t, root, ".github/workflows/regression.yml") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingArtifact},
		},
		"workflow without trigger or jobs": {
			validator:     "workflows",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, ".github/workflows/ci.yml", "name: ci\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey, stackerrors.KindMissingKey},
			expectedText:  []string{"no trigger", `missing "jobs"`},
		},
		"workflow trigger spelled ON": {
			validator: "workflows",
			mutate: func(t *testing.T, root string) {
				writeFile(t, root, ".github/workflows/ci.yml", "name: ci\nON:\n  push: {}\njobs:\n  build: {}\n")
			},
		},
		"workflow trigger spelled yes": {
			validator: "workflows",
			mutate: func(t *testing.T, root string) {
				writeFile(t, root, ".github/workflows/ci.yml", "name: ci\nyes:\n  push: {}\njobs:\n  build: {}\n")
			},
		},
		"workflow trigger spelled True": {
			validator: "workflows",
			mutate: func(t *testing.T, root string) {
				writeFile(t, root, ".github/workflows/ci.yml", "name: ci\nTrue:\n  push: {}\njobs:\n  build: {}\n")
			},
		},
		"workflow trigger spelled y": {
			validator: "workflows",
			mutate: func(t *testing.T, root string) {
				writeFile(t, root, ".github/workflows/ci.yml", "name: ci\ny:\n  push: {}\njobs:\n  build: {}\n")
			},
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey},
			expectedText:  []string{"no trigger"},
		},
		"makefile missing targets": {
			validator:     "makefile",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, "Makefile", "help:\n\techo\nsetup:\n\techo\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey, stackerrors.KindMissingKey, stackerrors.KindMissingKey, stackerrors.KindMissingKey},
			expectedText:  []string{`"test:"`, `"dev-up:"`, `"dev-down:"`, `"benchmark:"`},
		},
		"missing Jenkinsfile": {
			validator:     "jenkinsfile",
			mutate:        func(t *testing.T, root string) { removeFile(t, root, "Jenkinsfile") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingArtifact},
		},
		"Jenkinsfile without stages": {
			validator:     "jenkinsfile",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, "Jenkinsfile", "pipeline {}\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey},
			expectedText:  []string{`"stages"`},
		},
		"script without shebang": {
			validator:     "scripts",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, "scripts/deploy.sh", "echo deploy\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey},
			expectedText:  []string{"missing shebang"},
		},
		"extra sh script": {
			validator:     "scripts",
			mutate:        func(t *testing.T, root string) { writeFile(t, root, "scripts/lint.sh", "#!/bin/sh\necho lint\n") },
			expectedKinds: []stackerrors.Kind{stackerrors.KindMissingKey},
			expectedText:  []string{"scripts/lint.sh", "not a bash script"},
		},
		"missing scripts dir": {
			validator: "scripts",
			mutate: func(t *testing.T, root string) {
				require.NoError(t, os.RemoveAll(filepath.Join(root, "scripts")))
			},
			expectedKinds: []stackerrors.Kind{
				stackerrors.KindMissingArtifact, stackerrors.KindMissingArtifact, stackerrors.KindMissingArtifact,
				stackerrors.KindMissingArtifact, stackerrors.KindMissingArtifact, stackerrors.KindMissingArtifact,
				stackerrors.KindMissingArtifact,
			},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			root := stagingCopy(t)
			tc.mutate(t, root)

			validators, err := Lookup(tc.validator)
			require.NoError(t, err)
			require.Len(t, validators, 1)

			err = validators[0].Validate(root)
			if len(tc.expectedKinds) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.expectedKinds, kinds(err))
			for _, text := range tc.expectedText {
				assert.Contains(t, err.Error(), text)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	validators, err := Lookup("scripts", "version")
	require.NoError(t, err)
	require.Len(t, validators, 2)
	assert.Equal(t, "version", validators[0].Name)
	assert.Equal(t, "scripts", validators[1].Name)

	all, err := Lookup()
	require.NoError(t, err)
	assert.Len(t, all, len(Names()))

	_, err = Lookup("version", "helm")
	assert.Equal(t, stackerrors.KindInvalidArgument, stackerrors.KindFromError(err))
}

func TestRun_EmptyRoot(t *testing.T) {
	results := Run(t.TempDir(), Validators())
	require.Len(t, results, len(Names()))
	for _, r := range results {
		assert.Error(t, r.Err, r.Name)
	}
}

func TestParseVersion(t *testing.T) {
	tests := map[string]struct {
		input   string
		valid   bool
		major   uint64
		patches uint64
	}{
		"plain":            {input: "1.2.3", valid: true, major: 1, patches: 3},
		"trailing newline": {input: "0.10.7\n", valid: true, major: 0, patches: 7},
		"v prefix":         {input: "v1.2.3"},
		"four parts":       {input: "1.2.3.4"},
		"empty part":       {input: "1..3"},
		"empty":            {input: ""},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := ParseVersion(tc.input)
			if !tc.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.major, v.Major())
			assert.Equal(t, tc.patches, v.Patch())
		})
	}
}
