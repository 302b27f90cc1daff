package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort))
	}

	switch strings.ToLower(strings.TrimSpace(c.Logs.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logs.level %q", c.Logs.Level))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/': %q", c.Metrics.Path))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required (or AUTH_JWT_SECRET)"))
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Storage.Postgres.DSN == "" {
			errs = append(errs, errors.New("storage.postgres.dsn is required for postgres driver"))
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr is required for redis driver"))
		}
	case DriverS3:
		if c.Storage.S3.Bucket == "" {
			errs = append(errs, errors.New("storage.s3.bucket is required for s3 driver"))
		}
	case DriverMongo:
		if c.Storage.Mongo.URI == "" {
			errs = append(errs, errors.New("storage.mongo.uri is required for mongo driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	switch c.Roster.Source {
	case RosterSourceBlob:
	case RosterSourceHTTP:
		if c.Roster.URL == "" {
			errs = append(errs, errors.New("roster.url is required for http source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown roster.source %q", c.Roster.Source))
	}

	switch c.Availability.Strategy {
	case "sharded", "shared":
	default:
		errs = append(errs, fmt.Errorf("unknown availability.strategy %q", c.Availability.Strategy))
	}

	if c.Availability.ReadConcurrency <= 0 {
		errs = append(errs, errors.New("availability.read_concurrency must be positive"))
	}

	r := c.Availability.Retry
	if r.MaxAttempts <= 0 {
		errs = append(errs, errors.New("availability.retry.max_attempts must be positive"))
	}
	if r.BaseDelayMs < 0 || r.StepMs < 0 || r.JitterMs < 0 {
		errs = append(errs, errors.New("availability.retry delays must not be negative"))
	}

	return errors.Join(errs...)
}
