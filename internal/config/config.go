package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. It is constructed once at
// process start and passed into every component constructor; nothing reads
// configuration ambiently after Load returns.
type Config struct {
	App     App     `mapstructure:"app"`
	AI      AI      `mapstructure:"ai"`
	Search  Search  `mapstructure:"search"`
	CMS     CMS     `mapstructure:"cms"`
	Images  Images  `mapstructure:"images"`
	Content Content `mapstructure:"content"`
	Logging Logging `mapstructure:"logging"`
}

// App holds general application configuration.
type App struct {
	Debug   bool   `mapstructure:"debug"`
	DataDir string `mapstructure:"data_dir"`
}

// AI holds generation backend configuration.
type AI struct {
	// Preferred is the backend tried first: "gemini" or "openai". The other
	// configured backend acts as fallback when the preferred one cannot be
	// initialized.
	Preferred string `mapstructure:"preferred" validate:"omitempty,oneof=gemini openai"`
	// MaxTokens is the per-article output budget, applied to whichever
	// backend ends up serving the request.
	MaxTokens int32        `mapstructure:"max_tokens" validate:"gte=0"`
	Gemini    GeminiConfig `mapstructure:"gemini"`
	OpenAI    OpenAIConfig `mapstructure:"openai"`
}

// GeminiConfig holds Google Gemini configuration.
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     string  `mapstructure:"timeout"`
	Temperature float32 `mapstructure:"temperature"`
}

// OpenAIConfig holds configuration for any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout string `mapstructure:"timeout"`
}

// Search holds context-search provider configuration.
type Search struct {
	Provider   string `mapstructure:"provider" validate:"omitempty,oneof=google mock"`
	MaxResults int    `mapstructure:"max_results" validate:"gte=0"`
	Timeout    string `mapstructure:"timeout"`
	Google     GoogleSearchConfig `mapstructure:"google"`
	TrendFeed  string `mapstructure:"trend_feed" validate:"omitempty,url"`
}

// GoogleSearchConfig holds Google Custom Search credentials.
type GoogleSearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	SearchID string `mapstructure:"search_id"`
}

// CMS holds the publish endpoint configuration.
type CMS struct {
	BaseURL     string `mapstructure:"base_url" validate:"omitempty,url"`
	Username    string `mapstructure:"username"`
	AppPassword string `mapstructure:"app_password"`
	Timeout     string `mapstructure:"timeout"`
	MaxRetries  int    `mapstructure:"max_retries" validate:"gte=1,lte=10"`
}

// Images holds image collaborator configuration.
type Images struct {
	Provider string `mapstructure:"provider" validate:"omitempty,oneof=openverse mock none"`
	Timeout  string `mapstructure:"timeout"`
}

// Content holds editorial data files and pipeline policy knobs.
type Content struct {
	CategoriesFile    string   `mapstructure:"categories_file"`
	ProductsFile      string   `mapstructure:"products_file"`
	OfficialLinksFile string   `mapstructure:"official_links_file"`
	HistoryWindowDays int      `mapstructure:"history_window_days" validate:"gte=1"`
	BannedPhrases     []string `mapstructure:"banned_phrases"`
	EvergreenKeywords []string `mapstructure:"evergreen_keywords"`
	AffiliateTag      string   `mapstructure:"affiliate_tag"`
}

// Logging holds logging configuration.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads configuration from an optional file, environment variables, and
// defaults, and returns the validated configuration struct.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".postforge")
		v.SetConfigType("yaml")
	}

	setDefaults(v)
	bindEnvironmentVariables(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcess(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)
	v.SetDefault("app.data_dir", ".postforge")

	v.SetDefault("ai.preferred", "gemini")
	v.SetDefault("ai.max_tokens", 8192)
	v.SetDefault("ai.gemini.model", "gemini-1.5-flash-latest")
	v.SetDefault("ai.gemini.timeout", "60s")
	v.SetDefault("ai.gemini.temperature", 0.7)
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.openai.timeout", "60s")

	v.SetDefault("search.provider", "google")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.timeout", "15s")

	v.SetDefault("cms.timeout", "30s")
	v.SetDefault("cms.max_retries", 3)

	v.SetDefault("images.provider", "openverse")
	v.SetDefault("images.timeout", "20s")

	v.SetDefault("content.history_window_days", 7)
	v.SetDefault("content.banned_phrases", defaultBannedPhrases())

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
}

// defaultBannedPhrases seeds the policy-scrub stage. The list is a moving
// target tied to platform policy and is expected to be overridden in config.
func defaultBannedPhrases() []string {
	return []string{
		"미친 가성비",
		"무조건",
		"100% 보장",
		"충격",
		"경악",
		"클릭하세요",
		"guaranteed results",
		"you won't believe",
	}
}

func bindEnvironmentVariables(v *viper.Viper) {
	bindEnvKeys(v, "ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})
	bindEnvKeys(v, "ai.openai.api_key", []string{
		"OPENAI_API_KEY",
	})
	bindEnvKeys(v, "search.google.api_key", []string{
		"GOOGLE_CUSTOM_SEARCH_API_KEY",
		"GOOGLE_CSE_API_KEY",
	})
	bindEnvKeys(v, "search.google.search_id", []string{
		"GOOGLE_CUSTOM_SEARCH_ID",
		"GOOGLE_CSE_ID",
	})
	bindEnvKeys(v, "cms.base_url", []string{
		"CMS_BASE_URL",
		"WORDPRESS_URL",
	})
	bindEnvKeys(v, "cms.username", []string{
		"CMS_USERNAME",
		"WORDPRESS_USERNAME",
	})
	bindEnvKeys(v, "cms.app_password", []string{
		"CMS_APP_PASSWORD",
		"WORDPRESS_APP_PASSWORD",
	})
	bindEnvKeys(v, "app.debug", []string{
		"DEBUG",
		"POSTFORGE_DEBUG",
	})
}

// bindEnvKeys binds the first non-empty environment variable to a viper key.
func bindEnvKeys(v *viper.Viper, viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			v.Set(viperKey, value)
			return
		}
	}
}

func postProcess(cfg *Config) error {
	cfg.App.DataDir = expandPath(cfg.App.DataDir)

	durations := map[string]string{
		"ai.gemini.timeout": cfg.AI.Gemini.Timeout,
		"ai.openai.timeout": cfg.AI.OpenAI.Timeout,
		"search.timeout":    cfg.Search.Timeout,
		"cms.timeout":       cfg.CMS.Timeout,
		"images.timeout":    cfg.Images.Timeout,
	}
	for key, d := range durations {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid duration for %s: %s", key, d)
		}
	}
	return nil
}

// Duration parses a configured duration string, returning fallback when the
// value is empty or malformed.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}
