package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultMaxPostSize = 2 << 20
	minMaxPostSize     = 4 << 10
	maxMaxPostSize     = 64 << 20
)

type config struct {
	listenAddr string
	httpPort   string
	serverName string

	sessionTTL           time.Duration
	sessionSweepInterval time.Duration

	tempDir     string
	maxPostSize int64
	readTimeout time.Duration

	logLevel  string
	logFormat string

	metricsEnabled bool
	metricsPort    string

	trustedProxies []string

	warnings []string
}

// fileValues holds keys read from CONFIG_FILE. The environment always wins
// over them.
type fileValues map[string]string

func parse(file fileValues) (*config, error) {
	lookup := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v, ok := file[key]; ok && v != "" {
			return v
		}
		return def
	}

	httpPort := lookup("HTTP_PORT", "8080")
	if _, err := strconv.ParseUint(httpPort, 10, 16); err != nil {
		return nil, fmt.Errorf("invalid HTTP_PORT %q", httpPort)
	}

	sessionTTL, err := parseDuration("SESSION_TTL", lookup("SESSION_TTL", "30m"))
	if err != nil {
		return nil, err
	}

	sweep, err := parseDuration("SESSION_SWEEP_INTERVAL", lookup("SESSION_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return nil, err
	}
	if sweep <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}

	readTimeout, err := parseDuration("READ_TIMEOUT", lookup("READ_TIMEOUT", "30s"))
	if err != nil {
		return nil, err
	}
	if readTimeout < 0 {
		return nil, fmt.Errorf("READ_TIMEOUT must not be negative")
	}

	var warnings []string
	rawMaxPostSize := lookup("MAX_POST_SIZE", "")
	maxPostSize, ok := parseMaxPostSize(rawMaxPostSize)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("invalid MAX_POST_SIZE %q, falling back to %d", rawMaxPostSize, maxPostSize))
	}

	metricsEnabled := parseBool(lookup("METRICS_ENABLED", ""), false)
	metricsPort := lookup("METRICS_PORT", "9090")
	if metricsEnabled && metricsPort == httpPort {
		return nil, fmt.Errorf("METRICS_PORT must differ from HTTP_PORT")
	}

	return &config{
		listenAddr:           lookup("LISTEN_ADDR", "0.0.0.0"),
		httpPort:             httpPort,
		serverName:           lookup("SERVER_NAME", "localhost"),
		sessionTTL:           sessionTTL,
		sessionSweepInterval: sweep,
		tempDir:              lookup("TEMP_DIR", os.TempDir()),
		maxPostSize:          maxPostSize,
		readTimeout:          readTimeout,
		logLevel:             lookup("LOG_LEVEL", "info"),
		logFormat:            lookup("LOG_FORMAT", "text"),
		metricsEnabled:       metricsEnabled,
		metricsPort:          metricsPort,
		trustedProxies:       splitList(lookup("TRUSTED_PROXIES", "")),
		warnings:             warnings,
	}, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

// loadConfigFile reads a flat YAML mapping of the same keys the environment
// uses, e.g. "HTTP_PORT: 8081".
func loadConfigFile(path string) (fileValues, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	values := make(fileValues, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, fmt.Sprint(p))
			}
			values[strings.ToUpper(k)] = strings.Join(parts, ",")
		default:
			values[strings.ToUpper(k)] = fmt.Sprint(val)
		}
	}
	return values, nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// parseMaxPostSize reports false when raw was set but unusable and the
// default was taken instead.
func parseMaxPostSize(raw string) (int64, bool) {
	if raw == "" {
		return defaultMaxPostSize, true
	}
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || size < minMaxPostSize || size > maxMaxPostSize {
		return defaultMaxPostSize, false
	}
	return size, true
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	return val == "true"
}
