package health

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/cirisai/stackcheck/internal/common/config"
)

// RedisChecker pings the Redis instance of the compose stack.
type RedisChecker struct {
	cfg config.RedisConfig
}

func NewRedisChecker(cfg config.RedisConfig) *RedisChecker {
	return &RedisChecker{cfg: cfg}
}

func (c *RedisChecker) Name() string {
	return "redis"
}

func (c *RedisChecker) Check(ctx context.Context) error {
	client := redis.NewClient(c.cfg.AsOptions())
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		return errors.Wrapf(err, "failed to ping redis at %s", c.cfg.Addr)
	}
	return nil
}

// PostgresChecker opens a single connection to Postgres and pings it.
type PostgresChecker struct {
	cfg config.PostgresConfig
}

func NewPostgresChecker(cfg config.PostgresConfig) *PostgresChecker {
	return &PostgresChecker{cfg: cfg}
}

func (c *PostgresChecker) Name() string {
	return "postgres"
}

func (c *PostgresChecker) Check(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, c.cfg.Url)
	if err != nil {
		return errors.Wrap(err, "failed to connect to postgres")
	}
	defer conn.Close(context.Background())
	if err := conn.Ping(ctx); err != nil {
		return errors.Wrap(err, "failed to ping postgres")
	}
	return nil
}

// DependencyCheckers returns a checker for every backing service that has been configured.
func DependencyCheckers(redisConfig config.RedisConfig, postgresConfig config.PostgresConfig) *MultiChecker {
	mc := NewMultiChecker()
	if redisConfig.Enabled() {
		mc.Add(NewRedisChecker(redisConfig))
	}
	if postgresConfig.Enabled() {
		mc.Add(NewPostgresChecker(postgresConfig))
	}
	return mc
}
