package main

import (
	"fmt"
	"strings"
	"time"

	semver "github.com/Masterminds/semver/v3"
	"github.com/magefile/mage/sh"
)

const GO_VERSION_CONSTRAINT = ">= 1.21.0"

func goBinary() string {
	return binaryWithExt("go")
}

func goOutput(args ...string) (string, error) {
	return sh.Output(goBinary(), args...)
}

func goRun(args ...string) error {
	return sh.RunV(goBinary(), args...)
}

// "go version go1.21.0 linux/amd64"
func goVersion() (*semver.Version, error) {
	return toolVersion(2, "go", goBinary(), "version")
}

func goCheck() error {
	version, err := goVersion()
	return checkVersion(version, err, GO_VERSION_CONSTRAINT)
}

func buildLdflags() string {
	const pkg = "github.com/cirisai/stackcheck/internal/stackcheck/build"
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "UNKNOWN"
	}
	version, err := goOutput("env", "GOVERSION")
	if err != nil {
		version = "UNKNOWN"
	}
	release := "dev"
	if contents, err := readFile("VERSION"); err == nil {
		release = strings.TrimSpace(contents)
	}
	return strings.Join([]string{
		fmt.Sprintf("-X %s.ReleaseVersion=%s", pkg, release),
		fmt.Sprintf("-X %s.GitCommit=%s", pkg, commit),
		fmt.Sprintf("-X %s.GoVersion=%s", pkg, version),
		fmt.Sprintf("-X %s.BuildTime=%s", pkg, time.Now().UTC().Format(time.RFC3339)),
	}, " ")
}
