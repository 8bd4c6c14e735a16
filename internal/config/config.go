// Package config loads the application configuration from a config file,
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/pr-summarizer/internal/logger"
)

// EnvPrefix prefixes every environment variable read by the application,
// e.g. PRS_AI_PROVIDER or PRS_GITHUB_TOKEN.
const EnvPrefix = "PRS"

// Config holds the application's configuration values.
type Config struct {
	Server     ServerConfig  `mapstructure:"server"`
	GitHub     GitHubConfig  `mapstructure:"github"`
	AI         AIConfig      `mapstructure:"ai"`
	Summary    SummaryConfig `mapstructure:"summary"`
	Database   DBConfig      `mapstructure:"database"`
	Logging    logger.Config `mapstructure:"logging"`
	MaxWorkers int           `mapstructure:"max_workers"`
	QueueSize  int           `mapstructure:"queue_size"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type GitHubConfig struct {
	// App credentials, used by the webhook server.
	AppID          int64  `mapstructure:"app_id"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
	WebhookSecret  string `mapstructure:"webhook_secret"`

	// Token is a personal access token, used by the CLI.
	Token string `mapstructure:"token"`

	// APIBaseURL points at a GitHub Enterprise API. Empty means api.github.com.
	APIBaseURL string `mapstructure:"api_base_url"`

	// RepoConfigPath is the per-repository settings file read at the head commit.
	RepoConfigPath string `mapstructure:"repo_config_path"`

	DryRun bool `mapstructure:"dry_run"`
}

type AIConfig struct {
	Provider       string        `mapstructure:"provider"`
	Model          string        `mapstructure:"model"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Temperature    float32       `mapstructure:"temperature"`
	OpenAIAPIKey   string        `mapstructure:"openai_api_key"`
	OpenAIBaseURL  string        `mapstructure:"openai_base_url"`
	GeminiAPIKey   string        `mapstructure:"gemini_api_key"`
	OllamaHost     string        `mapstructure:"ollama_host"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type SummaryConfig struct {
	MaxPromptLength int    `mapstructure:"max_prompt_length"`
	MaxCommits      int    `mapstructure:"max_commits"`
	Concurrency     int    `mapstructure:"concurrency"`
	HostURL         string `mapstructure:"host_url"`
	PromptVariant   string `mapstructure:"prompt_variant"`
}

type DBConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

var supportedProviders = map[string]bool{"openai": true, "gemini": true, "ollama": true}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("github.app_id", 0)
	v.SetDefault("github.private_key_path", "keys/pr-summarizer.private-key.pem")
	v.SetDefault("github.webhook_secret", "")
	v.SetDefault("github.token", "")
	v.SetDefault("github.api_base_url", "")
	v.SetDefault("github.repo_config_path", ".pr-summarizer.yml")
	v.SetDefault("github.dry_run", false)

	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 512)
	v.SetDefault("ai.temperature", 0.5)
	v.SetDefault("ai.openai_api_key", "")
	v.SetDefault("ai.openai_base_url", "")
	v.SetDefault("ai.gemini_api_key", "")
	v.SetDefault("ai.ollama_host", "http://localhost:11434")
	v.SetDefault("ai.request_timeout", 2*time.Minute)

	v.SetDefault("summary.max_prompt_length", 20000)
	v.SetDefault("summary.max_commits", 20)
	v.SetDefault("summary.concurrency", 1)
	v.SetDefault("summary.host_url", "https://github.com")
	v.SetDefault("summary.prompt_variant", "default")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "summarizer")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "pr_summarizer")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file", "")

	v.SetDefault("max_workers", 5)
	v.SetDefault("queue_size", 100)
}

// LoadConfig reads configuration from a config file and environment variables,
// sets sensible defaults, and validates the common fields. configPath may be empty,
// in which case config.yaml is searched in the working directory.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The conventional token variable works without the prefix.
	if cfg.GitHub.Token == "" {
		v.MustBindEnv("github_fallback_token", "GITHUB_TOKEN")
		cfg.GitHub.Token = v.GetString("github_fallback_token")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields every entry point needs.
func (c *Config) Validate() error {
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if c.Summary.MaxPromptLength <= 0 {
		return fmt.Errorf("summary.max_prompt_length must be positive, got %d", c.Summary.MaxPromptLength)
	}
	if c.Summary.MaxCommits <= 0 {
		return fmt.Errorf("summary.max_commits must be positive, got %d", c.Summary.MaxCommits)
	}
	if c.Summary.Concurrency < 1 {
		return fmt.Errorf("summary.concurrency must be at least 1, got %d", c.Summary.Concurrency)
	}
	if c.Summary.HostURL == "" {
		return fmt.Errorf("summary.host_url must be set")
	}
	return nil
}

// ValidateServer checks the fields the webhook server needs on top of Validate.
func (c *Config) ValidateServer() error {
	if c.GitHub.AppID == 0 {
		return fmt.Errorf("github.app_id must be set")
	}
	if c.GitHub.WebhookSecret == "" {
		return fmt.Errorf("github.webhook_secret must be set")
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1, got %d", c.MaxWorkers)
	}
	return nil
}

// ValidateCLI checks the fields the command line client needs on top of Validate.
func (c *Config) ValidateCLI() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("a GitHub token is required: set %s_GITHUB_TOKEN, GITHUB_TOKEN or --github-token", EnvPrefix)
	}
	return nil
}

// Validate checks that the provider is known and has its credentials.
func (c AIConfig) Validate() error {
	if !supportedProviders[c.Provider] {
		return fmt.Errorf("unsupported ai.provider %q (expected openai, gemini or ollama)", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("ai.model must be set")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %v", c.Temperature)
	}
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("ai.openai_api_key must be set for the openai provider")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("ai.gemini_api_key must be set for the gemini provider")
		}
	case "ollama":
		if c.OllamaHost == "" {
			return fmt.Errorf("ai.ollama_host must be set for the ollama provider")
		}
	}
	return nil
}

// DSN builds the postgres connection string.
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}
