package artifacts

import (
	"bytes"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
)

const (
	VersionFile    = "VERSION"
	EnvExampleFile = ".env.example"
)

// ValidateVersion checks that VERSION holds MAJOR.MINOR.PATCH with all-digit parts.
func ValidateVersion(root string) error {
	data, err := readArtifact(root, VersionFile)
	if err != nil {
		return err
	}
	_, err = ParseVersion(string(data))
	return err
}

// ParseVersion parses the trimmed content of a VERSION file. Pre-release and build suffixes are rejected.
func ParseVersion(content string) (*semver.Version, error) {
	version := strings.TrimSpace(content)
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return nil, errors.WithStack(&stackerrors.ErrInvalidArgument{
			Name:    VersionFile,
			Value:   version,
			Message: "expected exactly three dot-separated parts",
		})
	}
	for _, part := range parts {
		if !isDigits(part) {
			return nil, errors.WithStack(&stackerrors.ErrInvalidArgument{
				Name:    VersionFile,
				Value:   version,
				Message: "non-numeric version part " + part,
			})
		}
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.WithStack(&stackerrors.ErrInvalidArgument{
			Name:    VersionFile,
			Value:   version,
			Message: err.Error(),
		})
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateEnvExample checks that .env.example exists and parses as a dotenv file.
func ValidateEnvExample(root string) error {
	data, err := readArtifact(root, EnvExampleFile)
	if err != nil {
		return err
	}
	if _, err := godotenv.Parse(bytes.NewReader(data)); err != nil {
		return errors.WithMessagef(err, "%s is not a valid dotenv file", EnvExampleFile)
	}
	return nil
}
