package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Webhook  WebhookConfig
	Summary  SummaryConfig
	Sheets   SheetsConfig
	Export   ExportConfig
	LogLevel string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// AuthConfig maps API keys to tenant identifiers. The mapping is supplied as a
// JSON object via the API_KEYS variable, e.g. {"key_abc":"tenant_alice"}.
type AuthConfig struct {
	APIKeys map[string]string
}

// CatalogConfig contains settings for the external product catalogs.
type CatalogConfig struct {
	OpenFoodFactsBaseURL string
	USDABaseURL          string
	USDAAPIKey           string
	BarcodeLookupOrder   []string
}

// CacheConfig holds product cache options.
type CacheConfig struct {
	TTL time.Duration
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Driver      string // "mongo" or "memory"
	MongoURI    string
	MongoDBName string
}

// WebhookConfig holds settings for the outbound notification webhook.
type WebhookConfig struct {
	Enabled bool
	URL     string
}

// SummaryConfig holds daily-summary scheduler settings.
type SummaryConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig configures the optional Google Sheets export sink.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ExportConfig bounds range queries for aggregation and export.
type ExportConfig struct {
	MaxRangeDays int
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	apiKeys := map[string]string{}
	if raw := os.Getenv("API_KEYS"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &apiKeys); err != nil {
			return nil, fmt.Errorf("API_KEYS must be a JSON object of key to tenant: %w", err)
		}
	}

	ttlSeconds, err := strconv.Atoi(getenvWithDefault("CACHE_TTL_SECONDS", "3600"))
	if err != nil {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be an integer: %w", err)
	}

	maxRangeDays, err := strconv.Atoi(getenvWithDefault("EXPORT_MAX_RANGE_DAYS", "366"))
	if err != nil {
		return nil, fmt.Errorf("EXPORT_MAX_RANGE_DAYS must be an integer: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Auth: AuthConfig{
			APIKeys: apiKeys,
		},
		Catalog: CatalogConfig{
			OpenFoodFactsBaseURL: getenvWithDefault("OFF_BASE_URL", "https://world.openfoodfacts.org"),
			USDABaseURL:          getenvWithDefault("USDA_BASE_URL", "https://api.nal.usda.gov/fdc/v1"),
			USDAAPIKey:           getenvWithDefault("USDA_API_KEY", "DEMO_KEY"),
			BarcodeLookupOrder:   splitList(getenvWithDefault("BARCODE_LOOKUP_ORDER", "open_food_facts,usda_fooddata")),
		},
		Cache: CacheConfig{
			TTL: time.Duration(ttlSeconds) * time.Second,
		},
		Storage: StorageConfig{
			Driver:      getenvWithDefault("STORAGE_DRIVER", "memory"),
			MongoURI:    os.Getenv("MONGODB_URI"),
			MongoDBName: getenvWithDefault("MONGODB_DB_NAME", "nutrilog"),
		},
		Webhook: WebhookConfig{
			Enabled: getenvWithDefault("WEBHOOK_ENABLED", "false") == "true",
			URL:     os.Getenv("WEBHOOK_URL"),
		},
		Summary: SummaryConfig{
			CronSchedule: getenvWithDefault("DAILY_SUMMARY_CRON", "0 21 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
		Export: ExportConfig{
			MaxRangeDays: maxRangeDays,
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if len(c.Catalog.BarcodeLookupOrder) == 0 {
		return errors.New("BARCODE_LOOKUP_ORDER must list at least one source")
	}

	switch c.Storage.Driver {
	case "memory":
	case "mongo":
		if c.Storage.MongoURI == "" {
			return errors.New("MONGODB_URI must be provided when STORAGE_DRIVER=mongo")
		}
		if c.Storage.MongoDBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want mongo or memory)", c.Storage.Driver)
	}

	if c.Webhook.Enabled && c.Webhook.URL == "" {
		return errors.New("WEBHOOK_URL must be provided when WEBHOOK_ENABLED=true")
	}

	if c.Summary.CronSchedule == "" {
		return errors.New("DAILY_SUMMARY_CRON must be provided")
	}

	if c.Cache.TTL <= 0 {
		return errors.New("CACHE_TTL_SECONDS must be positive")
	}

	if c.Export.MaxRangeDays <= 0 {
		return errors.New("EXPORT_MAX_RANGE_DAYS must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
