package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Groq      GroqConfig      `mapstructure:"groq"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	History   HistoryConfig   `mapstructure:"history"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Client    ClientConfig    `mapstructure:"client"`
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Environment string `mapstructure:"environment"` // development or production
}

// IsDevelopment reports whether error envelopes may carry stack details
func (a AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the listen address
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GroqConfig holds completion provider settings.
// Base URL and model are fixed in the ai package.
type GroqConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig holds search history storage settings
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// SourcesConfig holds trend signal sources for the trending prompt
type SourcesConfig struct {
	RSS    RSSConfig    `mapstructure:"rss"`
	Custom CustomConfig `mapstructure:"custom"`
}

// RSSConfig holds RSS feed settings
type RSSConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Feeds   []RSSFeed     `mapstructure:"feeds"`
	MaxAge  time.Duration `mapstructure:"max_age"`
}

// RSSFeed represents a single RSS feed
type RSSFeed struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// CustomConfig holds hand-picked seed themes
type CustomConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Themes  []string `mapstructure:"themes"`
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	GroqRequestsPerMinute int `mapstructure:"groq_requests_per_minute"`
	GroqBurst             int `mapstructure:"groq_burst"`
}

// SchedulerConfig holds scheduler settings
type SchedulerConfig struct {
	CleanupCron string `mapstructure:"cleanup_cron"`
	HealthPort  int    `mapstructure:"health_port"`
}

// HistoryConfig holds search history retention
type HistoryConfig struct {
	Retention time.Duration `mapstructure:"retention"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout or file path
}

// ClientConfig holds settings for the CLI acting as a browser client
type ClientConfig struct {
	ServerURL string        `mapstructure:"server_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".niche-finder"))
		}
	}

	v.SetEnvPrefix("NICHE")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys).
	// GROQ_API_KEY is accepted as well since that is the provider's documented name.
	v.BindEnv("groq.api_key", "NICHE_GROQ_API_KEY", "GROQ_API_KEY")
	v.BindEnv("groq.request_timeout", "NICHE_GROQ_REQUEST_TIMEOUT")
	v.BindEnv("app.environment", "NICHE_APP_ENVIRONMENT")
	v.BindEnv("server.host", "NICHE_SERVER_HOST")
	v.BindEnv("server.port", "NICHE_SERVER_PORT", "PORT")
	v.BindEnv("database.enabled", "NICHE_DATABASE_ENABLED")
	v.BindEnv("database.dsn", "NICHE_DATABASE_DSN")
	v.BindEnv("logging.level", "NICHE_LOGGING_LEVEL")
	v.BindEnv("logging.format", "NICHE_LOGGING_FORMAT")
	v.BindEnv("client.server_url", "NICHE_CLIENT_SERVER_URL")
	v.BindEnv("history.retention", "NICHE_HISTORY_RETENTION")
	// PORT belongs to the API server; the scheduler health port has its own variable
	v.BindEnv("scheduler.health_port", "NICHE_SCHEDULER_HEALTH_PORT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "production")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Completion calls have no timeout upstream; bound them here
	v.SetDefault("groq.request_timeout", "60s")

	v.SetDefault("database.enabled", true)
	v.SetDefault("database.dsn", "./data/niches.db")

	v.SetDefault("sources.rss.enabled", false)
	v.SetDefault("sources.rss.max_age", "72h")
	v.SetDefault("sources.custom.enabled", false)

	v.SetDefault("rate_limit.groq_requests_per_minute", 30)
	v.SetDefault("rate_limit.groq_burst", 5)

	v.SetDefault("scheduler.cleanup_cron", "0 3 * * *") // Daily at 3am
	v.SetDefault("scheduler.health_port", 10000)

	v.SetDefault("history.retention", "720h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("client.server_url", "http://localhost:3000")
	v.SetDefault("client.timeout", "90s")
}

// Validate validates the configuration.
// The Groq credential is deliberately not checked here: the endpoints report
// a missing key per request.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Groq.RequestTimeout <= 0 {
		return fmt.Errorf("groq.request_timeout must be positive")
	}
	if c.Database.Enabled && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when database.enabled is true")
	}
	if c.History.Retention < 0 {
		return fmt.Errorf("history.retention must not be negative")
	}
	for i, feed := range c.Sources.RSS.Feeds {
		if feed.URL == "" {
			return fmt.Errorf("sources.rss.feeds[%d].url is required", i)
		}
	}
	return nil
}
