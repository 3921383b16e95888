package main

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const GOLANGCI_LINT_VERSION_CONSTRAINT = ">= 1.52.0"

// "golangci-lint has version v1.52.2 built with ..."
func golangciLintVersion() (*semver.Version, error) {
	return toolVersion(3, "v", golangcilintBinary(), "--version")
}

func golangciLintCheck() error {
	version, err := golangciLintVersion()
	return checkVersion(version, err, GOLANGCI_LINT_VERSION_CONSTRAINT)
}

// Fixing Linting
func LintFix() error {
	mg.Deps(golangciLintCheck)
	output, err := golangcilintOutput("run", "--fix", "--timeout", "10m")
	if err != nil {
		fmt.Printf("error fixing linting cmd: %v", err)
		fmt.Printf("\nOutput: %s\n", output)
	}
	return err
}

// Linting Check
func CheckLint() error {
	mg.Deps(golangciLintCheck)
	output, err := golangcilintOutput("run", "--timeout", "10m")
	if err != nil {
		fmt.Printf("error running linting cmd: %v", err)
		fmt.Printf("\nOutput: %s\n", output)
	}
	return err
}

func golangcilintBinary() string {
	return binaryWithExt("golangci-lint")
}

func golangcilintOutput(args ...string) (string, error) {
	return sh.Output(golangcilintBinary(), args...)
}
