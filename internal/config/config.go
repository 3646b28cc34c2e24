// internal/config/config.go
package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Monitoring MonitoringConfig
	Square     SquareConfig
	Twilio     TwilioConfig
	Slack      SlackConfig
	Cache      CacheConfig
	Archive    ArchiveConfig
	App        AppConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	DemoMode bool
	LogLevel string
}

// MonitoringConfig holds the stock thresholds and scheduling knobs.
// CriticalThresholdPct must stay below LowThresholdPct; Load normalizes
// a misordered pair back to the defaults.
type MonitoringConfig struct {
	LowThresholdPct      float64
	CriticalThresholdPct float64
	CheckIntervalMinutes int
	LeadTimeDays         int
	SafetyStockDays      int
	DefaultMaxStock      int
	MaxConcurrentPasses  int
	LocationIDs          []string
}

type SquareConfig struct {
	AccessToken string
	Environment string
	BaseURL     string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumbers  []string
}

type SlackConfig struct {
	WebhookURL string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	SnapshotTTLSeconds int
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_DEMO_MODE", true)
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOW_STOCK_THRESHOLD_PERCENTAGE", 20.0)
		viper.SetDefault("CRITICAL_STOCK_THRESHOLD_PERCENTAGE", 5.0)
		viper.SetDefault("CHECK_INTERVAL_MINUTES", 15)
		viper.SetDefault("REORDER_LEAD_TIME_DAYS", 7)
		viper.SetDefault("REORDER_SAFETY_STOCK_DAYS", 7)
		viper.SetDefault("DEFAULT_MAX_STOCK", 100)
		viper.SetDefault("MAX_CONCURRENT_PASSES", 4)
		viper.SetDefault("LOCATION_IDS", "loc_001,loc_002,loc_003")
		viper.SetDefault("SQUARE_ACCESS_TOKEN", "")
		viper.SetDefault("SQUARE_ENVIRONMENT", "sandbox")
		viper.SetDefault("SQUARE_BASE_URL", "")
		viper.SetDefault("TWILIO_ACCOUNT_SID", "")
		viper.SetDefault("TWILIO_AUTH_TOKEN", "")
		viper.SetDefault("TWILIO_FROM_NUMBER", "")
		viper.SetDefault("TWILIO_TO_NUMBERS", "")
		viper.SetDefault("SLACK_WEBHOOK_URL", "")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_SNAPSHOT_TTL_SECONDS", 60)
		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "stockalert-reports")
		viper.SetDefault("ARCHIVE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		monitoring := MonitoringConfig{
			LowThresholdPct:      viper.GetFloat64("LOW_STOCK_THRESHOLD_PERCENTAGE"),
			CriticalThresholdPct: viper.GetFloat64("CRITICAL_STOCK_THRESHOLD_PERCENTAGE"),
			CheckIntervalMinutes: viper.GetInt("CHECK_INTERVAL_MINUTES"),
			LeadTimeDays:         viper.GetInt("REORDER_LEAD_TIME_DAYS"),
			SafetyStockDays:      viper.GetInt("REORDER_SAFETY_STOCK_DAYS"),
			DefaultMaxStock:      viper.GetInt("DEFAULT_MAX_STOCK"),
			MaxConcurrentPasses:  viper.GetInt("MAX_CONCURRENT_PASSES"),
			LocationIDs:          splitList(viper.GetString("LOCATION_IDS")),
		}
		if monitoring.CriticalThresholdPct >= monitoring.LowThresholdPct {
			monitoring.LowThresholdPct = 20.0
			monitoring.CriticalThresholdPct = 5.0
		}

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Monitoring: monitoring,
			Square: SquareConfig{
				AccessToken: viper.GetString("SQUARE_ACCESS_TOKEN"),
				Environment: viper.GetString("SQUARE_ENVIRONMENT"),
				BaseURL:     viper.GetString("SQUARE_BASE_URL"),
			},
			Twilio: TwilioConfig{
				AccountSID: viper.GetString("TWILIO_ACCOUNT_SID"),
				AuthToken:  viper.GetString("TWILIO_AUTH_TOKEN"),
				FromNumber: viper.GetString("TWILIO_FROM_NUMBER"),
				ToNumbers:  splitList(viper.GetString("TWILIO_TO_NUMBERS")),
			},
			Slack: SlackConfig{
				WebhookURL: viper.GetString("SLACK_WEBHOOK_URL"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				SnapshotTTLSeconds: viper.GetInt("CACHE_SNAPSHOT_TTL_SECONDS"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
			App: AppConfig{
				DemoMode: viper.GetBool("APP_DEMO_MODE"),
				LogLevel: viper.GetString("LOG_LEVEL"),
			},
		}
	})

	return instance
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
