package main

import (
	"os"

	semver "github.com/Masterminds/semver/v3"
	"github.com/magefile/mage/sh"
)

const (
	DOCKER_VERSION_CONSTRAINT         = ">= 19.0.0"
	DOCKER_COMPOSE_VERSION_CONSTRAINT = ">= 2.0.0"
	DEFAULT_COMPOSE_FILE              = "docker/docker-compose.he300.yml"
)

func dockerBinary() string {
	return binaryWithExt("docker")
}

// composeFile is the compose file of the staging stack, overridable with COMPOSE_FILE.
func composeFile() string {
	if f := os.Getenv("COMPOSE_FILE"); f != "" {
		return f
	}
	return DEFAULT_COMPOSE_FILE
}

func dockerComposeArgs(args ...string) []string {
	return append([]string{"compose", "-f", composeFile()}, args...)
}

func dockerComposeOutput(args ...string) (string, error) {
	return sh.Output(dockerBinary(), dockerComposeArgs(args...)...)
}

func dockerComposeRun(args ...string) error {
	return sh.Run(dockerBinary(), dockerComposeArgs(args...)...)
}

// "Docker version 24.0.5, build ced0996"
func dockerVersion() (*semver.Version, error) {
	return toolVersion(2, "", dockerBinary(), "--version")
}

// "v2.20.2" or "2.20.2"
func dockerComposeVersion() (*semver.Version, error) {
	return toolVersion(0, "v", dockerBinary(), "compose", "version", "--short")
}

func dockerCheck() error {
	version, err := dockerVersion()
	return checkVersion(version, err, DOCKER_VERSION_CONSTRAINT)
}

// The stack targets need the compose plugin, which itself needs docker.
func dockerComposeCheck() error {
	if err := dockerCheck(); err != nil {
		return err
	}
	version, err := dockerComposeVersion()
	return checkVersion(version, err, DOCKER_COMPOSE_VERSION_CONSTRAINT)
}
