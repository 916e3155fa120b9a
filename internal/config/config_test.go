package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "horizon-events", cfg.KafkaSinkTopic)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.False(t, cfg.EphemerisEnabled)
	assert.Empty(t, cfg.EphemerisURL)
	assert.Equal(t, 5*time.Second, cfg.EphemerisTimeout)
	assert.Equal(t, 128, cfg.EphemerisCacheSize)

	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, time.Minute, cfg.RetryInterval)

	assert.Equal(t, 50.0, cfg.StaleDistanceKm)
	assert.Equal(t, int32(30), cfg.StaleUTCOffsetMin)
	assert.Equal(t, 2.0, cfg.StaleSolarShiftMin)
	assert.Equal(t, -0.3, cfg.MoonHorizonDeg)

	assert.False(t, cfg.LocationSet)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("EPHEMERIS_URL", "http://ephemeris:8081")
	t.Setenv("EPHEMERIS_TIMEOUT", "10s")
	t.Setenv("EPHEMERIS_CACHE_SIZE", "64")
	t.Setenv("POLL_INTERVAL", "10s")
	t.Setenv("REFRESH_INTERVAL", "2h")
	t.Setenv("RETRY_INTERVAL", "15s")
	t.Setenv("STALE_DISTANCE_KM", "25")
	t.Setenv("STALE_TZ_OFFSET_MIN", "15")
	t.Setenv("STALE_SOLAR_SHIFT_MIN", "1.5")
	t.Setenv("MOON_HORIZON_DEG", "-0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	assert.True(t, cfg.EphemerisEnabled)
	assert.Equal(t, "http://ephemeris:8081", cfg.EphemerisURL)
	assert.Equal(t, 10*time.Second, cfg.EphemerisTimeout)
	assert.Equal(t, 64, cfg.EphemerisCacheSize)

	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 2*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 15*time.Second, cfg.RetryInterval)

	assert.Equal(t, 25.0, cfg.StaleDistanceKm)
	assert.Equal(t, int32(15), cfg.StaleUTCOffsetMin)
	assert.Equal(t, 1.5, cfg.StaleSolarShiftMin)
	assert.Equal(t, -0.5, cfg.MoonHorizonDeg)
}

func TestLoad_EphemerisDisabledExplicitly(t *testing.T) {
	t.Setenv("EPHEMERIS_URL", "http://ephemeris:8081")
	t.Setenv("EPHEMERIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.EphemerisEnabled)
}

func TestLoad_EphemerisEnabledWithoutURL(t *testing.T) {
	t.Setenv("EPHEMERIS_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EPHEMERIS_URL")
}

func TestLoad_StartupLocation(t *testing.T) {
	t.Setenv("LAT", "35.4676")
	t.Setenv("LON", "-97.5164")
	t.Setenv("UTC_OFFSET_MIN", "-360")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.LocationSet)
	assert.Equal(t, 35.4676, cfg.LocationLat)
	assert.Equal(t, -97.5164, cfg.LocationLon)
	assert.Equal(t, int32(-360), cfg.LocationUTCOffsetMin)
}

func TestLoad_LocationRequiresBothCoordinates(t *testing.T) {
	t.Setenv("LAT", "35.4676")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LAT and LON")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name, env, value string
	}{
		{"bad duration", "POLL_INTERVAL", "soon"},
		{"negative duration", "SHUTDOWN_TIMEOUT", "-5s"},
		{"bad float", "STALE_DISTANCE_KM", "far"},
		{"bad int", "STALE_TZ_OFFSET_MIN", "half"},
		{"bad lat", "LAT", "north"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.env == "LAT" {
				t.Setenv("LON", "0")
			}
			t.Setenv(tc.env, tc.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, parseBrokers(" a:1 , b:2 ,"))
	assert.Nil(t, parseBrokers(""))
}
