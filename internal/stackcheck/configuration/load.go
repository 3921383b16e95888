package configuration

import (
	"github.com/spf13/viper"

	"github.com/cirisai/stackcheck/internal/common/config"
	"github.com/cirisai/stackcheck/internal/stackcheck/benchmark"
	"github.com/cirisai/stackcheck/internal/stackcheck/probe"
)

var envBindings = map[string][]string{
	"root":               {"STACKCHECK_ROOT"},
	"benchmark.timeout":  {"E2E_TIMEOUT"},
	"benchmark.interval": {"E2E_POLL_INTERVAL"},
	"redis.addr":         {"REDIS_ADDR"},
	"redis.password":     {"REDIS_PASSWORD"},
	"postgres.url":       {"DATABASE_URL"},
	"webhook.url":        {"WEBHOOK_URL"},
	"webhook.secret":     {"WEBHOOK_SECRET"},
	"webhook.model":      {"BENCHMARK_MODEL"},
	"webhook.runnerType": {"RUNNER_TYPE"},
	"webhook.branch":     {"GITHUB_REF_NAME"},
	"webhook.commitSha":  {"GITHUB_SHA"},
	"metricsAddr":        {"STACKCHECK_METRICS_ADDR"},
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("probeTimeout", probe.DefaultTimeout)
	v.SetDefault("benchmark.timeout", benchmark.DefaultTimeout)
	v.SetDefault("benchmark.interval", benchmark.DefaultInterval)
	v.SetDefault("redis.dialTimeout", "5s")
	v.SetDefault("webhook.runnerType", "stackcheck")
	v.SetDefault("webhook.environment", "staging")

	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}

// Load decodes v into a StackcheckConfig and validates it.
func Load(v *viper.Viper) (*StackcheckConfig, error) {
	cfg := &StackcheckConfig{}
	if err := v.Unmarshal(cfg, config.CustomHooks...); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
