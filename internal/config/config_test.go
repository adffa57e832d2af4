package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_URL", "https://api.gravure.test/api/")
	t.Setenv("API_TIMEOUT", "3")
	t.Setenv("CATALOG_TTL", "90s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://api.gravure.test/api", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 90*time.Second, cfg.CatalogTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("API_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.Empty(t, cfg.KafkaBrokers)
}
