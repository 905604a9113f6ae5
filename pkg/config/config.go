package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "tej"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TEJ_DB_DSN"
	EnvDBHost = "TEJ_DB_HOST"
	EnvDBUser = "TEJ_DB_USER"
	EnvDBName = "TEJ_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Menu         MenuConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TEJ_APP_ENV" required:"true"`
	Port         string `envconfig:"TEJ_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TEJ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEJ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TEJ_DB_DSN"`
	Driver string `envconfig:"TEJ_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TEJ_DB_HOST"`
	LegacyPort     int    `envconfig:"TEJ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TEJ_DB_USER"`
	LegacyPassword string `envconfig:"TEJ_DB_PASSWORD"`
	LegacyName     string `envconfig:"TEJ_DB_NAME"`
	LegacySSLMode  string `envconfig:"TEJ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TEJ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TEJ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TEJ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TEJ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TEJ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TEJ_REDIS_ADDR"`
	Password     string        `envconfig:"TEJ_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEJ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEJ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEJ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TEJ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEJ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEJ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type MenuConfig struct {
	CacheTTL time.Duration `envconfig:"TEJ_MENU_CACHE_TTL" default:"60s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TEJ_AUTO_MIGRATE" default:"false"`
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
