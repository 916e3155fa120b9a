package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers   []string
	KafkaSinkTopic string
	HTTPAddr       string
	LogLevel       string
	LogFormat      string

	ShutdownTimeout time.Duration

	// Remote ephemeris (precision source) configuration.
	EphemerisURL       string
	EphemerisEnabled   bool
	EphemerisTimeout   time.Duration
	EphemerisCacheSize int

	// Scheduler cadence.
	PollInterval    time.Duration
	RefreshInterval time.Duration
	RetryInterval   time.Duration

	// Reconciler staleness thresholds.
	StaleDistanceKm    float64
	StaleUTCOffsetMin  int32
	StaleSolarShiftMin float64

	// Moon horizon threshold in degrees. A tuned display constant, not a
	// physical refraction value.
	MoonHorizonDeg float64

	// Optional startup location (LAT, LON, UTC_OFFSET_MIN). When unset the
	// scheduler idles until a location arrives over the API.
	LocationSet          bool
	LocationLat          float64
	LocationLon          float64
	LocationUTCOffsetMin int32
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	ephemerisTimeout, err := envDuration("EPHEMERIS_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	pollInterval, err := envDuration("POLL_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := envDuration("REFRESH_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	retryInterval, err := envDuration("RETRY_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	distanceKm, err := envFloat("STALE_DISTANCE_KM", 50)
	if err != nil {
		return nil, err
	}
	solarShiftMin, err := envFloat("STALE_SOLAR_SHIFT_MIN", 2)
	if err != nil {
		return nil, err
	}
	moonHorizonDeg, err := envFloat("MOON_HORIZON_DEG", -0.3)
	if err != nil {
		return nil, err
	}
	offsetThreshold, err := envInt("STALE_TZ_OFFSET_MIN", 30)
	if err != nil {
		return nil, err
	}
	cacheSize, err := envInt("EPHEMERIS_CACHE_SIZE", 128)
	if err != nil {
		return nil, err
	}

	ephemerisURL := os.Getenv("EPHEMERIS_URL")
	ephemerisEnabled := ephemerisURL != ""
	if v := os.Getenv("EPHEMERIS_ENABLED"); v != "" {
		ephemerisEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:  envOrDefault("KAFKA_SINK_TOPIC", "horizon-events"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		EphemerisURL:       ephemerisURL,
		EphemerisEnabled:   ephemerisEnabled,
		EphemerisTimeout:   ephemerisTimeout,
		EphemerisCacheSize: cacheSize,

		PollInterval:    pollInterval,
		RefreshInterval: refreshInterval,
		RetryInterval:   retryInterval,

		StaleDistanceKm:    distanceKm,
		StaleUTCOffsetMin:  int32(offsetThreshold),
		StaleSolarShiftMin: solarShiftMin,

		MoonHorizonDeg: moonHorizonDeg,
	}

	if err := loadLocation(cfg); err != nil {
		return nil, err
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.EphemerisEnabled && cfg.EphemerisURL == "" {
		return nil, errors.New("EPHEMERIS_ENABLED is true but EPHEMERIS_URL is not set")
	}
	if cfg.EphemerisCacheSize <= 0 {
		return nil, errors.New("EPHEMERIS_CACHE_SIZE must be positive")
	}

	return cfg, nil
}

// loadLocation parses the optional startup location. LAT and LON come as a
// pair; UTC_OFFSET_MIN defaults to 0.
func loadLocation(cfg *Config) error {
	latStr, lonStr := os.Getenv("LAT"), os.Getenv("LON")
	if latStr == "" && lonStr == "" {
		return nil
	}
	if latStr == "" || lonStr == "" {
		return errors.New("LAT and LON must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return errors.New("invalid LAT")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return errors.New("invalid LON")
	}
	offset, err := envInt("UTC_OFFSET_MIN", 0)
	if err != nil {
		return err
	}

	cfg.LocationSet = true
	cfg.LocationLat = lat
	cfg.LocationLon = lon
	cfg.LocationUTCOffsetMin = int32(offset)
	return nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func envDuration(name string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return d, nil
}

func envFloat(name string, def float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return f, nil
}

func envInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}
