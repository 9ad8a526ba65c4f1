package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultBaseURL is the productos collection endpoint.
const DefaultBaseURL = "http://localhost:8081/api/productos"

type Config struct {
	Client ClientConfig
	Screen ScreenConfig
	Server ServerConfig
	OTLP   OTLPConfig
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ScreenConfig struct {
	PageSize       int
	SearchDebounce time.Duration
	ToastTTL       time.Duration
	StateDir       string
	ExportDir      string
}

type ServerConfig struct {
	Port string
	Host string
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

// LoadConfig loads configuration from environment variables.
// serviceName and otlpDefault let each binary pick its own defaults.
func LoadConfig(serviceName string, otlpDefault bool) *Config {
	return &Config{
		Client: ClientConfig{
			BaseURL: getEnv("INVENTORY_API_BASE_URL", DefaultBaseURL),
			Timeout: getEnvDuration("INVENTORY_HTTP_TIMEOUT", 10*time.Second),
		},
		Screen: ScreenConfig{
			PageSize:       getEnvInt("INVENTORY_PAGE_SIZE", 5),
			SearchDebounce: getEnvDuration("INVENTORY_SEARCH_DEBOUNCE", 200*time.Millisecond),
			ToastTTL:       getEnvDuration("INVENTORY_TOAST_TTL", 3*time.Second),
			StateDir:       getEnv("INVENTORY_STATE_DIR", defaultStateDir()),
			ExportDir:      getEnv("INVENTORY_EXPORT_DIR", "."),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8081"),
		},
		OTLP: OTLPConfig{
			Enabled:     getEnvBool("OTEL_ENABLED", otlpDefault),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", serviceName),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
		},
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".inventario"
	}
	return filepath.Join(dir, "inventario")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
