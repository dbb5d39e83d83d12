// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Responder     ResponderConfig    `mapstructure:"responder"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Pipeline      PipelineConfig     `mapstructure:"pipeline"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port      int `mapstructure:"port"`
	DebugPort int `mapstructure:"debug_port"` // metrics + pprof
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	LeadIndex string   `mapstructure:"lead_index"`
}

// ResponderConfig selects the chat models behind each tier.
type ResponderConfig struct {
	BaseURL    string `mapstructure:"base_url"` // Ollama-compatible /api/chat endpoint
	LocalModel string `mapstructure:"local_model"`
	CloudModel string `mapstructure:"cloud_model"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// NotificationConfig holds the sales-team contact points and AWS settings.
type NotificationConfig struct {
	AWSRegion       string `mapstructure:"aws_region"`
	SalesTeamEmail  string `mapstructure:"sales_team_email"`
	SalesTeamPhone  string `mapstructure:"sales_team_phone"`
	FromEmail       string `mapstructure:"from_email"`
	OnCallTopicARN  string `mapstructure:"oncall_topic_arn"`
	DisableOutbound bool   `mapstructure:"disable_outbound"` // log-only mode for dev
}

// PipelineConfig tunes the qualification workflow thresholds.
type PipelineConfig struct {
	NotifyScoreThreshold int `mapstructure:"notify_score_threshold"` // branch fires above this
	CallScoreThreshold   int `mapstructure:"call_score_threshold"`   // outbound call above this
	NeedsReviewAttempts  int `mapstructure:"needs_review_attempts"`  // stagnation turns before NEEDS_REVIEW
	SessionTTL           int `mapstructure:"session_ttl"`            // seconds
	ReplyCacheTTL        int `mapstructure:"reply_cache_ttl"`        // seconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
