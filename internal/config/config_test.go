package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "invoice-desk", cfg.App.Name)
	assert.Equal(t, "3001", cfg.App.Port)
	assert.Equal(t, "/api", cfg.App.APIPrefix)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.SeedDemo)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("API_PREFIX", "v1/")
	v.Set("STORE_DRIVER", "SQLite")
	v.Set("SEED_DEMO_DATA", false)
	v.Set("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	v.Set("IDEMPOTENCY_TTL_MINUTES", 5)

	cfg := fromViper(v)

	assert.Equal(t, "/v1", cfg.App.APIPrefix)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.False(t, cfg.Store.SeedDemo)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Idempotency.TTL)
}

func TestUnknownStoreDriverFallsBackToMemory(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "postgres")
	assert.Equal(t, StoreDriverMemory, fromViper(v).Store.Driver)
}

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"api":    "/api",
		"/api/":  "/api",
		" /x/y ": "/x/y",
		"/":      "",
		"":       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizePrefix(in), "input %q", in)
	}
}
