package main

import (
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

const stackPollInterval = 5 * time.Second

// waitForStack runs `stackcheck probe` every stackPollInterval until it succeeds or timeout elapses.
func waitForStack(timeout time.Duration) error {
	err := retry.Do(
		func() error {
			return sh.Run(goBinary(), "run", "./cmd/stackcheck", "probe", "--log-level", "warn")
		},
		retry.Attempts(uint(timeout/stackPollInterval)+1),
		retry.Delay(stackPollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			fmt.Printf("stack not up yet (attempt %d): %v\n", n+1, err)
		}),
	)
	if err != nil {
		return errors.Errorf("stack not up after %s: %v", timeout, err)
	}
	return nil
}

func ciSetup() error {
	if err := os.MkdirAll("test_reports", os.ModeDir|0o755); err != nil {
		return err
	}
	if err := dockerComposeRun("up", "-d", "redis", "postgres"); err != nil {
		return err
	}
	if err := dockerComposeRun("up", "-d"); err != nil {
		return err
	}
	return waitForStack(3 * time.Minute)
}

// Starts the staging stack, runs the live checks against it and writes junit.xml.
func CI() error {
	mg.Deps(dockerComposeCheck)
	timeTaken := time.Now()
	defer func() {
		output, err := dockerComposeOutput("logs", "--tail", "200")
		fmt.Println(output)
		if err != nil {
			fmt.Println(err)
		}
	}()

	if err := ciSetup(); err != nil {
		return err
	}
	fmt.Println("Time to start stack:", time.Since(timeTaken))
	return ciRunTests()
}

func ciRunTests() error {
	err := goRun("run", "./cmd/stackcheck", "e2e",
		"--junit", "junit.xml",
	)
	if err != nil {
		return err
	}
	return goRun("run", "./cmd/stackcheck", "benchmark",
		"--scenarios", "5",
		"--output", "yaml",
	)
}
