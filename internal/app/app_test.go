package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/evcharger-search/evcharger-search/testing"
)

func validConfig() *Config {
	return &Config{
		AppEnv:             "development",
		DBDriver:           "SQLite",
		DBFile:             " ./data.db ",
		CacheDuration:      24 * time.Hour,
		ImportFetchTimeout: 30 * time.Second,
		ImportMaxBodyBytes: 1 << 20,
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "./data.db", cfg.DBFile)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown env", mutate: func(c *Config) { c.AppEnv = "staging" }},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "mysql" }},
		{name: "empty db file", mutate: func(c *Config) { c.DBFile = "  " }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.DBDriver = DriverPostgres; c.PGDSN = "" }},
		{name: "short admin password", mutate: func(c *Config) { c.AdminDefaultPassword = "abc" }},
		{name: "production without password", mutate: func(c *Config) { c.AppEnv = "production" }},
		{name: "negative cache", mutate: func(c *Config) { c.CacheDuration = -time.Second }},
		{name: "zero fetch timeout", mutate: func(c *Config) { c.ImportFetchTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigWarnings(t *testing.T) {
	cfg := validConfig()
	assert.Len(t, cfg.Warnings(), 1)

	cfg.AppEnv = "production"
	cfg.AdminDefaultPassword = "short1"
	cfg.CacheDuration = time.Minute
	assert.Len(t, cfg.Warnings(), 2)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_FILE", ":memory:")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.AppAddr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.CacheDuration)
	assert.Equal(t, "tr", cfg.DefaultLocale)
	assert.Equal(t, int64(10<<20), cfg.ImportMaxBodyBytes)
	assert.False(t, cfg.RedisEnabled())
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "json", LogLevel: "warn"})
	logger.Info("hidden")
	logger.Warn("shown", "source_url", "https://example.com")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "evcharger", entry["service"])
}

func TestRouterHealthAndCORS(t *testing.T) {
	router := NewRouter(RouterParams{Config: validConfig()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/admin/import", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOpenStoresSQLite(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, DBFile: ":memory:"}
	stores, err := OpenStores(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(stores.Close)

	items, err := stores.Prices.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = stores.Searches.List(context.Background())
	require.NoError(t, err)
}

func TestOpenStoresUnknownDriver(t *testing.T) {
	_, err := OpenStores(context.Background(), &Config{DBDriver: "mysql"})
	assert.Error(t, err)
}
