package common

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ConfigureCommandLineLogging sets up logrus for interactive use:
// human-readable text with full timestamps written to stdout.
func ConfigureCommandLineLogging() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)
}

// ConfigureLogLevel parses level (e.g. "debug", "info") and applies it to the standard logger.
// An empty level leaves the current level untouched.
func ConfigureLogLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.WithMessagef(err, "invalid log level %q", level)
	}
	log.SetLevel(lvl)
	return nil
}
