package main

import (
	"fmt"
	"os"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/pkg/errors"
)

// Check dependent tools are present and the correct version.
func CheckDeps() error {
	checks := []struct {
		name  string
		check func() error
	}{
		{"docker", dockerCheck},
		{"docker compose", dockerComposeCheck},
		{"go", goCheck},
	}
	failures := false
	for _, check := range checks {
		fmt.Printf("Checking %s... ", check.name)
		if err := check.check(); err != nil {
			fmt.Printf("FAILED\nReason: %v\n", err)
			failures = true
		} else {
			fmt.Println("PASSED")
		}
	}
	if failures {
		return errors.New("check(s) failed.")
	}
	return nil
}

// Removes build output and test reports.
func Clean() {
	fmt.Println("Cleaning...")
	for _, path := range []string{"bin", "dist", "test_reports", "junit.xml"} {
		os.RemoveAll(path)
	}
}

// Builds the stackcheck binary into ./bin.
func Build() error {
	mg.Deps(goCheck)
	return goRun("build", "-ldflags", buildLdflags(), "-o", binaryWithExt("bin/stackcheck"), "./cmd/stackcheck")
}

// Validates the CI/CD artifacts of the staging checkout at STACKCHECK_ROOT (default: current directory).
func Validate() error {
	return goRun("run", "./cmd/stackcheck", "validate", "--junit", "junit-artifacts.xml")
}

// Starts the staging stack with docker compose and waits until both services answer /health.
func LocalDev() error {
	timeTaken := time.Now()
	mg.Deps(dockerComposeCheck)
	if err := dockerComposeRun("up", "-d"); err != nil {
		return err
	}
	fmt.Println("Waiting for the stack to start...")
	if err := waitForStack(3 * time.Minute); err != nil {
		return err
	}
	fmt.Println("Time to start stack:", time.Since(timeTaken))
	fmt.Println("Run: `docker compose -f " + composeFile() + " logs -f` to see logs")
	return nil
}

// Stops the staging stack.
func LocalDevStop() error {
	mg.Deps(dockerComposeCheck)
	return dockerComposeRun("down", "-v")
}

// Serves a fake stack on the default ports, for running the live checks without docker.
func FakeStack() error {
	return goRun("run", "./cmd/stackcheck", "fakestack")
}
