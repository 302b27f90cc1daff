package config

import "strings"

type lookupFunc func(key string) (string, bool)

// applyEnv переопределяет секреты и адреса из переменных окружения
func (c *Config) applyEnv(lookup lookupFunc) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set("AUTH_JWT_SECRET", &c.Auth.JWTSecret)
	set("AUTH_COOKIE_NAME", &c.Auth.CookieName)
	set("STORAGE_DRIVER", &c.Storage.Driver)
	set("AVAILABILITY_STORE", &c.Storage.ScheduleNamespace)
	set("AUTH_STORE", &c.Storage.AuthNamespace)
	set("AUTH_WHITELIST_KEY", &c.Roster.WhitelistKey)
	set("STORAGE_DSN", &c.Storage.Postgres.DSN)
	set("REDIS_ADDR", &c.Storage.Redis.Addr)
	set("REDIS_PASSWORD", &c.Storage.Redis.Password)
	set("S3_ENDPOINT", &c.Storage.S3.Endpoint)
	set("S3_ACCESS_KEY_ID", &c.Storage.S3.AccessKeyID)
	set("S3_SECRET_ACCESS_KEY", &c.Storage.S3.SecretAccessKey)
	set("MONGO_URI", &c.Storage.Mongo.URI)
	set("ROSTER_URL", &c.Roster.URL)
}
