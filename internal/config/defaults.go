package config

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			ServiceName: "availability-service",
			Path:        "/metrics",
		},
		Auth: AuthConfig{
			CookieName: "playsure_token",
		},
		Storage: StorageConfig{
			Driver:            DriverMemory,
			ScheduleNamespace: "playsure-schedule",
			AuthNamespace:     "playsure-auth",
			ConnectTimeout:    5,
			Postgres: PostgresConfig{
				Table:           "availability_blobs",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "blob:",
			},
			S3: S3Config{
				Region: "us-east-1",
			},
			Mongo: MongoConfig{
				Database:   "playsure",
				Collection: "availability_blobs",
			},
		},
		Roster: RosterConfig{
			Source:       RosterSourceBlob,
			WhitelistKey: "whitelist.json",
			Timeout:      5,
		},
		Availability: AvailabilityConfig{
			Strategy:        "sharded",
			ReadConcurrency: 8,
			Retry: RetryConfig{
				MaxAttempts: 10,
				BaseDelayMs: 30,
				StepMs:      25,
				JitterMs:    25,
			},
		},
	}
}
