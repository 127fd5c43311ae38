package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "hos-planner", cfg.Service.Name)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoder.BaseURL)
	assert.Equal(t, "https://router.project-osrm.org", cfg.Router.BaseURL)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadReadsOverridesFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVICE_NAME", "custom-planner")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("READ_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "custom-planner", cfg.Service.Name)
	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestGetEnvSliceTrimsAndSplits(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_SLICE", " a , b ,c")

	got := getEnvSlice("TEST_SLICE", []string{"default"})

	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestGetEnvSliceFallsBackWhenUnset(t *testing.T) {
	clearEnv(t)

	got := getEnvSlice("UNSET_SLICE", []string{"default"})

	assert.Equal(t, []string{"default"}, got)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVICE_NAME", "ENVIRONMENT", "VERSION", "LOG_LEVEL",
		"HTTP_ADDR", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_GRACE",
		"GEOCODER_BASE_URL", "GEOCODER_USER_AGENT", "GEOCODER_TIMEOUT",
		"ROUTER_BASE_URL", "ROUTER_TIMEOUT",
		"CACHE_ENABLED", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
		"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC",
	} {
		_ = os.Unsetenv(key)
	}
}
