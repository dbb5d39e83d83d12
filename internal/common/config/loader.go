// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_POSTGRES_PASSWORD
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or any parent that holds
// go.mod, so tests running from package directories still pick it up.
func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "leadbot"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.DebugPort == 0 {
		cfg.Server.DebugPort = 9090
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if cfg.Database.Elasticsearch.LeadIndex == "" {
		cfg.Database.Elasticsearch.LeadIndex = "qualified-leads"
	}
	if cfg.Responder.BaseURL == "" {
		cfg.Responder.BaseURL = "http://localhost:11434/api/chat"
	}
	if cfg.Responder.LocalModel == "" {
		cfg.Responder.LocalModel = "phi3:mini"
	}
	if cfg.Responder.CloudModel == "" {
		cfg.Responder.CloudModel = "claude-3-5-sonnet"
	}
	if cfg.Responder.Timeout == 0 {
		cfg.Responder.Timeout = 30000
	}
	if cfg.Responder.MaxRetries == 0 {
		cfg.Responder.MaxRetries = 2
	}
	if cfg.Notifications.AWSRegion == "" {
		cfg.Notifications.AWSRegion = "us-east-1"
	}
	if cfg.Pipeline.NotifyScoreThreshold == 0 {
		cfg.Pipeline.NotifyScoreThreshold = 80
	}
	if cfg.Pipeline.CallScoreThreshold == 0 {
		cfg.Pipeline.CallScoreThreshold = 90
	}
	if cfg.Pipeline.NeedsReviewAttempts == 0 {
		cfg.Pipeline.NeedsReviewAttempts = 5
	}
	if cfg.Pipeline.SessionTTL == 0 {
		cfg.Pipeline.SessionTTL = 86400
	}
	if cfg.Pipeline.ReplyCacheTTL == 0 {
		cfg.Pipeline.ReplyCacheTTL = 7 * 24 * 3600
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == cfg.Server.DebugPort {
		return fmt.Errorf("server port and debug port must differ")
	}
	if cfg.Pipeline.CallScoreThreshold < cfg.Pipeline.NotifyScoreThreshold {
		return fmt.Errorf("call_score_threshold must be >= notify_score_threshold")
	}
	if !cfg.Notifications.DisableOutbound {
		if cfg.Notifications.SalesTeamEmail == "" || cfg.Notifications.SalesTeamPhone == "" {
			return fmt.Errorf("sales team email and phone are required when outbound notifications are enabled")
		}
	}
	return nil
}
