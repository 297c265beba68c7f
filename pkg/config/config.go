package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cache.validate(); err != nil {
		return nil, err
	}
	if cfg.FeatureFlags.UseSQLite {
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BREWLYTICS_APP_ENV" required:"true"`
	Port         string `envconfig:"BREWLYTICS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BREWLYTICS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BREWLYTICS_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"BREWLYTICS_LOG_FORMAT"`

	CORSOrigins []string `envconfig:"BREWLYTICS_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"BREWLYTICS_DB_DSN"`
	SQLitePath string `envconfig:"BREWLYTICS_DB_SQLITE_PATH" default:"brewlytics.db"`

	LegacyHost     string `envconfig:"BREWLYTICS_DB_HOST"`
	LegacyPort     int    `envconfig:"BREWLYTICS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BREWLYTICS_DB_USER"`
	LegacyPassword string `envconfig:"BREWLYTICS_DB_PASSWORD"`
	LegacyName     string `envconfig:"BREWLYTICS_DB_NAME"`
	LegacySSLMode  string `envconfig:"BREWLYTICS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BREWLYTICS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BREWLYTICS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BREWLYTICS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BREWLYTICS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BREWLYTICS_REDIS_URL"`
	Address      string        `envconfig:"BREWLYTICS_REDIS_ADDR"`
	Password     string        `envconfig:"BREWLYTICS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BREWLYTICS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BREWLYTICS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BREWLYTICS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BREWLYTICS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BREWLYTICS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BREWLYTICS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CacheConfig selects where computed insights and recommendations are memoized.
type CacheConfig struct {
	Backend    string        `envconfig:"BREWLYTICS_CACHE_BACKEND" default:"redis"`
	TTL        time.Duration `envconfig:"BREWLYTICS_CACHE_TTL" default:"1h"`
	MemorySize int           `envconfig:"BREWLYTICS_CACHE_MEMORY_SIZE" default:"10000"`
}

// UsesRedis reports whether the shared redis backend is selected.
func (c CacheConfig) UsesRedis() bool {
	return strings.EqualFold(strings.TrimSpace(c.Backend), CacheBackendRedis)
}

func (c CacheConfig) validate() error {
	backend := strings.ToLower(strings.TrimSpace(c.Backend))
	if backend != CacheBackendRedis && backend != CacheBackendMemory {
		return fmt.Errorf("%s must be %q or %q", EnvCacheBackend, CacheBackendRedis, CacheBackendMemory)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvCacheTTL)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BREWLYTICS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BREWLYTICS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
