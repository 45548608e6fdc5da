package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "EVENTDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "EVENTDESK_DB_DSN"
	EnvDBHost = "EVENTDESK_DB_HOST"
	EnvDBUser = "EVENTDESK_DB_USER"
	EnvDBName = "EVENTDESK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Uploads      UploadsConfig
	Imports      ImportsConfig
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
	Env          string `envconfig:"EVENTDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"EVENTDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EVENTDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EVENTDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EVENTDESK_DB_DSN"`
	Driver string `envconfig:"EVENTDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EVENTDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"EVENTDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EVENTDESK_DB_USER"`
	LegacyPassword string `envconfig:"EVENTDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"EVENTDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"EVENTDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EVENTDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EVENTDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EVENTDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EVENTDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EVENTDESK_REDIS_URL"`
	Address      string        `envconfig:"EVENTDESK_REDIS_ADDR"`
	Password     string        `envconfig:"EVENTDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"EVENTDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EVENTDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EVENTDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EVENTDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EVENTDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EVENTDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The
// upload rate limiter is skipped when it is not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type UploadsConfig struct {
	Dir          string        `envconfig:"EVENTDESK_UPLOADS_DIR" default:"uploads"`
	MaxUploadMB  int           `envconfig:"EVENTDESK_MAX_UPLOAD_MB" default:"20"`
	RateWindow   time.Duration `envconfig:"EVENTDESK_UPLOAD_RATE_WINDOW" default:"1m"`
	RateEventMax int           `envconfig:"EVENTDESK_UPLOAD_RATE_EVENT_LIMIT" default:"6"`
	RateIPMax    int           `envconfig:"EVENTDESK_UPLOAD_RATE_IP_LIMIT" default:"30"`
}

type ImportsConfig struct {
	BatchSize  int           `envconfig:"EVENTDESK_IMPORT_BATCH_SIZE" default:"500"`
	Workers    int           `envconfig:"EVENTDESK_IMPORT_WORKERS" default:"2"`
	StaleAfter time.Duration `envconfig:"EVENTDESK_IMPORT_STALE_AFTER" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"EVENTDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"EVENTDESK_AUTO_MIGRATE" default:"false"`
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
