package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Драйверы blob store
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverS3       = "s3"
	DriverMongo    = "mongo"
)

// Источники ростера
const (
	RosterSourceBlob = "blob"
	RosterSourceHTTP = "http"
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Auth         AuthConfig         `toml:"auth"`
	Storage      StorageConfig      `toml:"storage"`
	Roster       RosterConfig       `toml:"roster"`
	Availability AvailabilityConfig `toml:"availability"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig параметры логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig параметры Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// AuthConfig параметры проверки сессии
type AuthConfig struct {
	JWTSecret  string `toml:"jwt_secret"`
	CookieName string `toml:"cookie_name"`
}

// StorageConfig параметры blob store
type StorageConfig struct {
	Driver            string         `toml:"driver"`
	ScheduleNamespace string         `toml:"schedule_namespace"`
	AuthNamespace     string         `toml:"auth_namespace"`
	ConnectTimeout    int            `toml:"connect_timeout"`
	Postgres          PostgresConfig `toml:"postgres"`
	Redis             RedisConfig    `toml:"redis"`
	S3                S3Config       `toml:"s3"`
	Mongo             MongoConfig    `toml:"mongo"`
}

// PostgresConfig параметры PostgreSQL бэкенда
type PostgresConfig struct {
	DSN             string `toml:"dsn"`
	Table           string `toml:"table"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// RedisConfig параметры Redis бэкенда
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// S3Config параметры S3 бэкенда
type S3Config struct {
	Endpoint        string `toml:"endpoint"`
	Region          string `toml:"region"`
	Bucket          string `toml:"bucket"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// MongoConfig параметры MongoDB бэкенда
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// RosterConfig параметры источника ростера
type RosterConfig struct {
	Source        string            `toml:"source"`
	WhitelistKey  string            `toml:"whitelist_key"`
	URL           string            `toml:"url"`
	Timeout       int               `toml:"timeout"`
	RoleOverrides map[string]string `toml:"role_overrides"`
}

// AvailabilityConfig параметры записи и агрегации
type AvailabilityConfig struct {
	Strategy        string      `toml:"strategy"`
	ReadConcurrency int         `toml:"read_concurrency"`
	ReportOrphans   bool        `toml:"report_orphans"`
	Retry           RetryConfig `toml:"retry"`
}

// RetryConfig backoff для общего документа (миллисекунды)
type RetryConfig struct {
	MaxAttempts int `toml:"max_attempts"`
	BaseDelayMs int `toml:"base_delay_ms"`
	StepMs      int `toml:"step_ms"`
	JitterMs    int `toml:"jitter_ms"`
}

// BaseDelay задержка перед первым повтором
func (r RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMs) * time.Millisecond
}

// Step прирост задержки на каждую попытку
func (r RetryConfig) Step() time.Duration {
	return time.Duration(r.StepMs) * time.Millisecond
}

// Jitter верхняя граница случайной добавки
func (r RetryConfig) Jitter() time.Duration {
	return time.Duration(r.JitterMs) * time.Millisecond
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию,
// переопределения из окружения и валидирует результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
