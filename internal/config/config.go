package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Store       StoreConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Idempotency IdempotencyConfig
	Log         LogConfig
}

type AppConfig struct {
	Name            string
	Env             string
	Port            string
	APIPrefix       string
	ShutdownTimeout time.Duration
}

// StoreConfig selects the invoice store backend. Both drivers keep data in
// process memory.
type StoreConfig struct {
	Driver   string
	SeedDemo bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type IdempotencyConfig struct {
	TTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"
)

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	return fromViper(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "invoice-desk")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "3001")
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("STORE_DRIVER", StoreDriverMemory)
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("IDEMPOTENCY_TTL_MINUTES", 60*24)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func fromViper(v *viper.Viper) *Config {
	setDefaults(v)

	driver := strings.ToLower(v.GetString("STORE_DRIVER"))
	if driver != StoreDriverSQLite {
		driver = StoreDriverMemory
	}

	return &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Env:             v.GetString("APP_ENV"),
			Port:            v.GetString("APP_PORT"),
			APIPrefix:       normalizePrefix(v.GetString("API_PREFIX")),
			ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Store: StoreConfig{
			Driver:   driver,
			SeedDemo: v.GetBool("SEED_DEMO_DATA"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetStringSlice("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetStringSlice("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetStringSlice("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Idempotency: IdempotencyConfig{
			TTL: time.Duration(v.GetInt("IDEMPOTENCY_TTL_MINUTES")) * time.Minute,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// normalizePrefix turns "api/", "/api/" and "api" into "/api". An empty
// prefix mounts the API at the root.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// splitList accepts both space and comma separated env values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
