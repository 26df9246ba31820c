package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BIKERENTAL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Admin        AdminConfig
	Session      SessionConfig
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
	Env          string `envconfig:"BIKERENTAL_APP_ENV" required:"true"`
	Port         string `envconfig:"BIKERENTAL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BIKERENTAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BIKERENTAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BIKERENTAL_DB_DSN"`

	Host     string `envconfig:"BIKERENTAL_DB_HOST"`
	Port     int    `envconfig:"BIKERENTAL_DB_PORT" default:"5432"`
	User     string `envconfig:"BIKERENTAL_DB_USER"`
	Password string `envconfig:"BIKERENTAL_DB_PASSWORD"`
	Name     string `envconfig:"BIKERENTAL_DB_NAME"`
	SSLMode  string `envconfig:"BIKERENTAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BIKERENTAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BIKERENTAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BIKERENTAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BIKERENTAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a Postgres DSN from discrete parts when none is supplied.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either BIKERENTAL_DB_DSN or host/user/name parts are required")
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else {
		u.User = url.User(d.User)
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BIKERENTAL_REDIS_URL"`
	Address      string        `envconfig:"BIKERENTAL_REDIS_ADDR"`
	Password     string        `envconfig:"BIKERENTAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"BIKERENTAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BIKERENTAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BIKERENTAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BIKERENTAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BIKERENTAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BIKERENTAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AdminConfig struct {
	APIKey string `envconfig:"BIKERENTAL_ADMIN_API_KEY"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"BIKERENTAL_SESSION_COOKIE" default:"bikerental_session"`
	TTL        time.Duration `envconfig:"BIKERENTAL_SESSION_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BIKERENTAL_AUTO_MIGRATE" default:"false"`
}
