package config

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the Redis instance of the compose stack.
// An empty Addr disables the Redis dependency probe.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int `validate:"gte=0,lte=16"`
	DialTimeout time.Duration
}

func (rc RedisConfig) Enabled() bool {
	return rc.Addr != ""
}

func (rc RedisConfig) AsOptions() *redis.Options {
	return &redis.Options{
		Addr:        rc.Addr,
		Password:    rc.Password,
		DB:          rc.DB,
		DialTimeout: rc.DialTimeout,
		MaxRetries:  -1,
	}
}

// PostgresConfig describes the Postgres instance of the compose stack.
// An empty Url disables the Postgres dependency probe.
type PostgresConfig struct {
	Url string
}

func (pc PostgresConfig) Enabled() bool {
	return pc.Url != ""
}
