package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

var Gotestsum string

var LocalBin = filepath.Join(os.Getenv("PWD"), "/bin")

func makeLocalBin() error {
	if _, err := os.Stat(LocalBin); os.IsNotExist(err) {
		err = os.MkdirAll(LocalBin, os.ModePerm)
		if err != nil {
			return err
		}
	}
	return nil
}

// Gotestsum downloads gotestsum locally if necessary
func gotestsum() error {
	mg.Deps(makeLocalBin)
	Gotestsum = filepath.Join(LocalBin, "/gotestsum")

	if _, err := os.Stat(Gotestsum); os.IsNotExist(err) {
		fmt.Println(Gotestsum)
		cmd := exec.Command("go", "install", "gotest.tools/gotestsum@v1.8.2")
		cmd.Env = append(os.Environ(), "GOBIN="+LocalBin)
		return cmd.Run()
	}
	return nil
}

// Tests runs the unit tests and generates coverage reports.
func Tests() error {
	mg.Deps(gotestsum)
	if err := os.MkdirAll("test_reports", os.ModePerm); err != nil {
		return err
	}
	if err := runtest("internal_coverage.xml", "internal.txt", false, "./internal/..."); err != nil {
		return err
	}
	if err := runtest("pkg_coverage.xml", "pkg.txt", false, "./pkg/..."); err != nil {
		return err
	}
	return runtest("cmd_coverage.xml", "cmd.txt", false, "./cmd/...")
}

// TestsE2E runs the live checks as go tests against CIRISNODE_URL and EEE_URL.
// They skip when the stack isn't running.
func TestsE2E() error {
	mg.Deps(gotestsum)
	if err := os.MkdirAll("test_reports", os.ModePerm); err != nil {
		return err
	}
	return runtest("", "e2e.txt", false, "-count=1", "./e2e/...")
}

func runtest(coverageFileName, outputFileName string, appendOutput bool, directories ...string) error {
	args := []string{"--", "-v"}
	if coverageFileName != "" {
		args = append(args, "-coverprofile", coverageFileName)
	}
	args = append(args, directories...)

	cmd := exec.Command(Gotestsum, args...)

	fileFlags := os.O_WRONLY | os.O_CREATE
	if appendOutput {
		fileFlags |= os.O_APPEND
	} else {
		fileFlags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filepath.Join("test_reports", outputFileName), fileFlags, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	cmd.Stdout = io.MultiWriter(os.Stdout, file)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
