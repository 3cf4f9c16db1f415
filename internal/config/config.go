package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	DB        DatabaseConfig
	App       AppConfig
	Logger    LoggerConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	URL             string `mapstructure:"DATABASE_URL" validate:"required"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME_SECONDS" validate:"gte=0"`
	ConnMaxIdleTime int    `mapstructure:"DB_CONN_MAX_IDLE_TIME_SECONDS" validate:"gte=0"`
	AutoMigrate     bool   `mapstructure:"DB_AUTO_MIGRATE"`
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Host                   string `mapstructure:"APP_HOST"`
	HTTPPort               string `mapstructure:"HTTP_PORT" validate:"required,numeric"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" validate:"gte=1"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT" validate:"oneof=json console"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS" validate:"gte=0"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// RedisConfig holds configuration for the optional Redis backend
type RedisConfig struct {
	Enabled     bool   `mapstructure:"REDIS_ENABLED"`
	Host        string `mapstructure:"REDIS_HOST" validate:"required_if=Enabled true"`
	Port        string `mapstructure:"REDIS_PORT" validate:"omitempty,numeric"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB" validate:"gte=0"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE" validate:"gte=0"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN" validate:"gte=0"`
	CacheTTL    int    `mapstructure:"REDIS_CACHE_TTL_SECONDS" validate:"gte=0"`
}

// RateLimitConfig holds configuration for the HTTP rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_RPS" validate:"gt=0"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST" validate:"gte=1"`
}

// LoadConfig reads configuration from an optional .env file, an optional
// app.env file and the process environment, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	// .env only fills variables that are not already set
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	v.AutomaticEnv() // Read from environment variables

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.DB.URL = strings.TrimSpace(v.GetString("DATABASE_URL"))
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME_SECONDS")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME_SECONDS")
	config.DB.AutoMigrate = v.GetBool("DB_AUTO_MIGRATE")

	config.App.Host = v.GetString("APP_HOST")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	config.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheTTL = v.GetInt("REDIS_CACHE_TTL_SECONDS")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SECONDS", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("APP_HOST", "127.0.0.1")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	// Logger defaults
	if os.Getenv("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "user-resource-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	v.SetDefault("REDIS_CACHE_TTL_SECONDS", 300)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}

// Validate checks the configuration before any dependency is created.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return formatValidationError(err)
	}

	if c.RateLimit.Enabled && !c.Redis.Enabled {
		return errors.New("invalid config: RATE_LIMIT_ENABLED requires REDIS_ENABLED")
	}

	return nil
}

// Addr returns the address the HTTP server binds to.
func (c *AppConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.HTTPPort)
}

// formatValidationError converts validator.ValidationErrors into a message
// naming the environment variables at fault.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		key := envKey(e)
		switch e.Tag() {
		case "required", "required_if":
			messages = append(messages, fmt.Sprintf("%s must be set", key))
		case "numeric":
			messages = append(messages, fmt.Sprintf("%s must be numeric", key))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", key, e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid (%s=%s)", key, e.Tag(), e.Param()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(messages, ", "))
}

// envKey resolves the mapstructure tag of the failing field.
func envKey(e validator.FieldError) string {
	if key, ok := fieldKeys[e.StructNamespace()]; ok {
		return key
	}
	return e.Field()
}

var fieldKeys = map[string]string{
	"Config.DB.URL":                      "DATABASE_URL",
	"Config.DB.MaxOpenConns":             "DB_MAX_OPEN_CONNS",
	"Config.DB.MaxIdleConns":             "DB_MAX_IDLE_CONNS",
	"Config.DB.ConnMaxLifetime":          "DB_CONN_MAX_LIFETIME_SECONDS",
	"Config.DB.ConnMaxIdleTime":          "DB_CONN_MAX_IDLE_TIME_SECONDS",
	"Config.App.HTTPPort":                "HTTP_PORT",
	"Config.App.ShutdownTimeoutSeconds":  "SHUTDOWN_TIMEOUT_SECONDS",
	"Config.Logger.Format":               "LOG_FORMAT",
	"Config.Logger.SlowQuerySeconds":     "LOG_SLOW_QUERY_SECONDS",
	"Config.Redis.Host":                  "REDIS_HOST",
	"Config.Redis.Port":                  "REDIS_PORT",
	"Config.Redis.DB":                    "REDIS_DB",
	"Config.Redis.PoolSize":              "REDIS_POOL_SIZE",
	"Config.Redis.MinIdleConn":           "REDIS_MIN_IDLE_CONN",
	"Config.Redis.CacheTTL":              "REDIS_CACHE_TTL_SECONDS",
	"Config.RateLimit.RequestsPerSecond": "RATE_LIMIT_RPS",
	"Config.RateLimit.BurstCapacity":     "RATE_LIMIT_BURST",
}
