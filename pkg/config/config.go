package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig      `envconfig:"SERVER"`
	Database    DatabaseConfig    `envconfig:"DB"`
	Redis       RedisConfig       `envconfig:"REDIS"`
	Storage     StorageConfig     `envconfig:"STORAGE"`
	Auth        AuthConfig        `envconfig:"AUTH"`
	Clerk       ClerkConfig       `envconfig:"CLERK"`
	MeetingBaaS MeetingBaaSConfig `envconfig:"MEETINGBAAS"`
	Claude      ClaudeConfig      `envconfig:"CLAUDE"`
	Retry       RetryConfig       `envconfig:"RETRY"`
	Email       EmailConfig       `envconfig:"EMAIL"`
	Pipeline    PipelineConfig    `envconfig:"PIPELINE"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5432"`
	User     string `envconfig:"USER" default:"postgres"`
	Password string `envconfig:"PASSWORD" default:"postgres"`
	Name     string `envconfig:"NAME" default:"meeting_insights"`
	SSLMode  string `envconfig:"SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"MIN_CONNS" default:"5"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"ENABLED" default:"true"`
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// StorageConfig holds object storage configuration for transcript archives
type StorageConfig struct {
	Enabled         bool   `envconfig:"ENABLED" default:"false"`
	Endpoint        string `envconfig:"ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"BUCKET" default:"meeting-insights"`
	UseSSL          bool   `envconfig:"USE_SSL" default:"false"`
}

// AuthConfig holds bearer token verification settings.
// PublicKey (PEM, RS256) takes precedence over Secret (HS256).
type AuthConfig struct {
	PublicKey string `envconfig:"PUBLIC_KEY"`
	Secret    string `envconfig:"SECRET"`
	Issuer    string `envconfig:"ISSUER"`
}

// ClerkConfig holds identity-provider webhook settings
type ClerkConfig struct {
	WebhookSecret       string `envconfig:"WEBHOOK_SECRET"`
	MultiTenant         bool   `envconfig:"MULTI_TENANT" default:"true"`
	DefaultOrganization string `envconfig:"DEFAULT_ORGANIZATION" default:"Default Organization"`
}

// MeetingBaaSConfig holds recording bot settings
type MeetingBaaSConfig struct {
	APIKey     string        `envconfig:"API_KEY"`
	BaseURL    string        `envconfig:"BASE_URL" default:"https://api.meetingbaas.com"`
	WebhookURL string        `envconfig:"WEBHOOK_URL"`
	BotName    string        `envconfig:"BOT_NAME" default:"Meeting Insights Notetaker"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// ClaudeConfig holds LLM settings
type ClaudeConfig struct {
	APIKey            string        `envconfig:"API_KEY"`
	BaseURL           string        `envconfig:"BASE_URL" default:"https://api.anthropic.com"`
	Model             string        `envconfig:"MODEL" default:"claude-3-5-sonnet-latest"`
	MaxTokens         int           `envconfig:"MAX_TOKENS" default:"4096"`
	Timeout           time.Duration `envconfig:"TIMEOUT" default:"90s"`
	RequestsPerSecond float64       `envconfig:"REQUESTS_PER_SECOND" default:"1"`
}

// RetryConfig holds the bounded retry policy for external calls
type RetryConfig struct {
	MaxAttempts     int           `envconfig:"MAX_ATTEMPTS" default:"3"`
	InitialInterval time.Duration `envconfig:"INITIAL_INTERVAL" default:"2s"`
	MaxInterval     time.Duration `envconfig:"MAX_INTERVAL" default:"30s"`
}

// EmailConfig holds notification settings
type EmailConfig struct {
	SendGridAPIKey string `envconfig:"SENDGRID_API_KEY"`
	FromAddress    string `envconfig:"FROM_ADDRESS" default:"insights@example.com"`
	FromName       string `envconfig:"FROM_NAME" default:"Meeting Insights"`
	DashboardURL   string `envconfig:"DASHBOARD_URL" default:"http://localhost:3000"`
}

// PipelineConfig holds webhook processing settings
type PipelineConfig struct {
	ExtractionTimeout time.Duration `envconfig:"EXTRACTION_TIMEOUT" default:"3m"`
	LockTTL           time.Duration `envconfig:"LOCK_TTL" default:"10m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if c.Pipeline.ExtractionTimeout <= 0 {
		return fmt.Errorf("PIPELINE_EXTRACTION_TIMEOUT must be positive")
	}
	if !c.IsProduction() {
		return nil
	}
	if c.Auth.PublicKey == "" && c.Auth.Secret == "" {
		return fmt.Errorf("AUTH_PUBLIC_KEY or AUTH_SECRET is required")
	}
	if c.Clerk.WebhookSecret == "" {
		return fmt.Errorf("CLERK_WEBHOOK_SECRET is required")
	}
	if c.Claude.APIKey == "" {
		return fmt.Errorf("CLAUDE_API_KEY is required")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
