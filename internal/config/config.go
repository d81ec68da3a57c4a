// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (AGENTSCOUT_* prefix, plus DATABASE_URL)
//  2. Config file (~/.agentscout/config.yaml or ./config.yaml)
//  3. Default values
//
// A .env file in the working directory is loaded into the process
// environment before viper binding, so deployments that ship secrets in
// .env (the common pattern for this tool) work without extra flags.
//
// Error handling uses sentinel errors so callers can match with
// errors.Is() and wrap with fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Sentinel errors for configuration failures.
var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required provider API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidTopK indicates the default result count is out of range.
	ErrInvalidTopK = errors.New("invalid default top k")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidReadmeURL indicates the catalog source URL is invalid.
	ErrInvalidReadmeURL = errors.New("invalid readme url")

	// ErrInvalidAPIPort indicates the HTTP API port is out of range.
	ErrInvalidAPIPort = errors.New("invalid API port")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
)

// DefaultReadmeURL is the raw README of the curated use-case catalog.
const DefaultReadmeURL = "https://raw.githubusercontent.com/ashishpatel26/500-AI-Agents-Projects/main/README.md"

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider      string  `mapstructure:"provider"`       // "googleai" (default) or "openai"
	ModelName     string  `mapstructure:"model_name"`     // e.g. "gemini-2.5-flash", "gpt-4o"
	EmbedderModel string  `mapstructure:"embedder_model"` // e.g. "gemini-embedding-001"
	Temperature   float64 `mapstructure:"temperature"`
	MaxTurns      int     `mapstructure:"max_turns"` // agentic tool-loop limit

	// Retrieval configuration
	DefaultTopK    int     `mapstructure:"default_top_k"`
	ScoreThreshold float64 `mapstructure:"score_threshold"` // minimum similarity kept in results

	// Catalog ingestion
	ReadmeURL string `mapstructure:"readme_url"`
	DataDir   string `mapstructure:"data_dir"` // JSON snapshot directory

	// Storage configuration
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE: never logged
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// HTTP API configuration
	APIHost     string   `mapstructure:"api_host"`
	APIPort     int      `mapstructure:"api_port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	RateBurst   int      `mapstructure:"rate_burst"`
	TrustProxy  bool     `mapstructure:"trust_proxy"`
	DevMode     bool     `mapstructure:"dev_mode"` // disables HSTS for local HTTP development
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	// Best-effort .env load; absence is the normal case.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".agentscout")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL takes priority over the individual postgres_* keys.
	if err := cfg.applyDatabaseURL(os.Getenv("DATABASE_URL")); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers sensible defaults for a quick start.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGoogleAI)
	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("embedder_model", "gemini-embedding-001")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_turns", 5)

	v.SetDefault("default_top_k", 5)
	v.SetDefault("score_threshold", 0.0)

	v.SetDefault("readme_url", DefaultReadmeURL)
	v.SetDefault("data_dir", "data")

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "agentscout")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_db_name", "agentscout")
	v.SetDefault("postgres_ssl_mode", "disable")

	v.SetDefault("api_host", "0.0.0.0")
	v.SetDefault("api_port", 8000)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("rate_burst", 0)
	v.SetDefault("trust_proxy", false)
	v.SetDefault("dev_mode", false)
}

// bindEnvVariables binds AGENTSCOUT_* environment variables to config keys.
func bindEnvVariables(v *viper.Viper) {
	v.SetEnvPrefix("AGENTSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// applyDatabaseURL overrides the postgres_* fields from a postgres:// URL.
// An empty input leaves the configuration untouched.
func (c *Config) applyDatabaseURL(raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing DATABASE_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("%w: unsupported DATABASE_URL scheme %q", ErrInvalidPostgresHost, u.Scheme)
	}

	if h := u.Hostname(); h != "" {
		c.PostgresHost = h
	}
	if p := u.Port(); p != "" {
		port, convErr := strconv.Atoi(p)
		if convErr != nil {
			return fmt.Errorf("%w: %q", ErrInvalidPostgresPort, p)
		}
		c.PostgresPort = port
	}
	if u.User != nil {
		c.PostgresUser = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			c.PostgresPassword = pw
		}
	}
	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		c.PostgresDBName = db
	}
	if ssl := u.Query().Get("sslmode"); ssl != "" {
		c.PostgresSSLMode = ssl
	}
	return nil
}

// PostgresURL returns the postgres:// URL form of the storage configuration,
// as expected by golang-migrate.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// PostgresConnectionString returns the keyword/value form of the storage
// configuration, as expected by pgxpool.ParseConfig.
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword,
		c.PostgresDBName, c.PostgresSSLMode)
}

// APIAddr returns the host:port address for the HTTP server.
func (c *Config) APIAddr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}
