package config

import (
	"errors"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

type Config struct {
	Env      string         `json:"env"`
	Http     HttpConfig     `json:"http"`
	Storage  StorageConfig  `json:"storage"`
	Postgres PostgresConfig `json:"postgres"`
	Redis    RedisConfig    `json:"redis"`
	NATS     NATSConfig     `json:"nats"`
	Auth     AuthConfig     `json:"auth"`
	APIKey   string         `json:"api_key,omitempty"`
	Notifier NotifierConfig `json:"notifier"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	AllowedOrigins  []string      `json:"allowed_origins"`
}

type StorageConfig struct {
	Driver     string `json:"driver"`
	SQLitePath string `json:"sqlite_path"`
	SeedPlaces bool   `json:"seed_places"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
	// Empty Addr disables the contact alert queue.
	QueueKey string `json:"queue_key"`
}

type NATSConfig struct {
	// Empty URL disables event publishing.
	URL            string        `json:"url"`
	SubjectPrefix  string        `json:"subject_prefix"`
	MaxReconnects  int           `json:"max_reconnects"`
	ReconnectWait  time.Duration `json:"reconnect_wait"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}

type AuthConfig struct {
	JWTSecret string `json:"-"`
	Issuer    string `json:"issuer"`
}

type NotifierConfig struct {
	URL      string `json:"url"`
	Disabled bool   `json:"disabled"`
}

func Load() (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  []string{getEnv("HTTP_ALLOWED_ORIGIN", "*")},
		},
		Storage: StorageConfig{
			Driver:     getEnv("STORAGE_DRIVER", StorageDriverPostgres),
			SQLitePath: getEnv("SQLITE_PATH", "safetrip.db"),
			SeedPlaces: getEnvBool("SEED_PLACES", false),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "pg-local"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "safetrip_db"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        int32(getEnvInt("POSTGRES_MAX_CONNS", 20)),
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			QueueKey: getEnv("REDIS_ALERT_QUEUE", "alerts:contacts"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			SubjectPrefix:  getEnv("NATS_SUBJECT_PREFIX", "safety"),
			MaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
			ConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		APIKey: getEnv("API_KEY", ""),
		Notifier: NotifierConfig{
			URL:      getEnv("NOTIFIER_URL", ""),
			Disabled: getEnvBool("NOTIFIER_DISABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.String("nats_url", cfg.NATS.URL),
		slog.String("notifier_url", cfg.Notifier.URL))

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port == "" || (len(c.Http.Port) > 0 && c.Http.Port[0] != ':') {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Postgres.Host == "" {
			return errors.New("POSTGRES_HOST required")
		}
	case StorageDriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH required")
		}
	default:
		return errors.New("STORAGE_DRIVER must be postgres or sqlite")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.APIKey == "" {
		return errors.New("API_KEY required")
	}

	if c.Notifier.Disabled || c.Notifier.URL == "" {
		log.Println("WARN: contact notifier DISABLED (NOTIFIER_DISABLED=true or NOTIFIER_URL empty)")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
