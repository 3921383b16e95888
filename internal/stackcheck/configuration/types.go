package configuration

import (
	"time"

	"github.com/cirisai/stackcheck/internal/common/config"
	"github.com/cirisai/stackcheck/internal/stackcheck/webhook"
)

// StackcheckConfig holds everything besides the api connection details.
// Every field can be set in the config file or through the environment variable bound to it.
type StackcheckConfig struct {
	// Repository checkout that artifact validators run against.
	Root string `validate:"required"`
	// Timeout of a single liveness probe.
	ProbeTimeout time.Duration `validate:"gt=0"`
	Benchmark    BenchmarkConfig
	Redis        config.RedisConfig
	Postgres     config.PostgresConfig
	Webhook      webhook.Config
	// Address of the /metrics listener. Empty disables it.
	MetricsAddr string
}

type BenchmarkConfig struct {
	// How long to poll a job before giving up. E2E_TIMEOUT, in seconds.
	Timeout  time.Duration `validate:"gt=0"`
	Interval time.Duration `validate:"gt=0"`
}
