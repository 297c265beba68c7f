package config

const (
	EnvPrefix = "BREWLYTICS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

const (
	EnvAppEnv   = "BREWLYTICS_APP_ENV"
	EnvPort     = "BREWLYTICS_APP_PORT"
	EnvLogLevel = "BREWLYTICS_LOG_LEVEL"

	EnvDBDSN  = "BREWLYTICS_DB_DSN"
	EnvDBHost = "BREWLYTICS_DB_HOST"
	EnvDBUser = "BREWLYTICS_DB_USER"
	EnvDBName = "BREWLYTICS_DB_NAME"

	EnvRedisURL = "BREWLYTICS_REDIS_URL"

	EnvCacheBackend = "BREWLYTICS_CACHE_BACKEND"
	EnvCacheTTL     = "BREWLYTICS_CACHE_TTL"

	EnvUseSQLite = "BREWLYTICS_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
