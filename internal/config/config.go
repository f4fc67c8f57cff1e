package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App     App     `mapstructure:"app"`
	AI      AI      `mapstructure:"ai"`
	Site    Site    `mapstructure:"site"`
	Sanity  Sanity  `mapstructure:"sanity"`
	Trends  Trends  `mapstructure:"trends"`
	Images  Images  `mapstructure:"images"`
	Deploy  Deploy  `mapstructure:"deploy"`
	Index   Index   `mapstructure:"index"`
	Logging Logging `mapstructure:"logging"`
}

// App holds general application configuration.
type App struct {
	Debug      bool   `mapstructure:"debug"`
	DataDir    string `mapstructure:"data_dir"`
	ConfigFile string `mapstructure:"config_file"` // Path of the config file actually loaded, if any
}

// AI holds AI/LLM configuration.
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration.
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	ImageModel  string  `mapstructure:"image_model"`
	Timeout     string  `mapstructure:"timeout"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// Site holds the identity of the published site. Injected into the SEO
// enricher and structured-data builder so the core works for any tenant.
type Site struct {
	BaseURL     string `mapstructure:"base_url"`
	OrgName     string `mapstructure:"org_name"`
	LogoPath    string `mapstructure:"logo_path"`
	AuthorName  string `mapstructure:"author_name"`
	AuthorLink  string `mapstructure:"author_link"`
	AuthorEmail string `mapstructure:"author_email"`
	CTALink     string `mapstructure:"cta_link"`
}

// Sanity holds document store credentials and endpoints.
type Sanity struct {
	ProjectID  string `mapstructure:"project_id"`
	Dataset    string `mapstructure:"dataset"`
	WriteToken string `mapstructure:"write_token"`
	APIVersion string `mapstructure:"api_version"`
	AuthorID   string `mapstructure:"author_id"`
	AuthorName string `mapstructure:"author_name"`
	Timeout    string `mapstructure:"timeout"`
}

// Trends holds trending-topic source configuration.
type Trends struct {
	Provider string   `mapstructure:"provider"` // "google-trends", "seed", or "mock"
	Region   string   `mapstructure:"region"`   // Geo code, e.g. "US"; empty = global
	Seeds    []string `mapstructure:"seeds"`    // Curated fallback topics
	Timeout  string   `mapstructure:"timeout"`
}

// Images holds image generation configuration.
type Images struct {
	Enabled   bool   `mapstructure:"enabled"`
	OutputDir string `mapstructure:"output_dir"`
}

// Deploy holds frontend deployment trigger configuration.
type Deploy struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    string `mapstructure:"timeout"`
}

// Index holds slug index persistence configuration.
type Index struct {
	Path string `mapstructure:"path"`
}

// Logging holds logging configuration.
type Logging struct {
	Level string `mapstructure:"level"`
}

var globalConfig *Config

// Load loads the configuration from a config file, .env, environment
// variables and defaults, in that order of increasing precedence for env vars.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".autoblog")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	config.App.ConfigFile = viper.ConfigFileUsed()

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.data_dir", ".autoblog-data")

	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.image_model", "gemini-2.5-flash-image")
	viper.SetDefault("ai.gemini.timeout", "60s")
	viper.SetDefault("ai.gemini.max_tokens", 8192)
	viper.SetDefault("ai.gemini.temperature", 0.7)

	viper.SetDefault("site.base_url", "https://www.example.com")
	viper.SetDefault("site.org_name", "Example Media")
	viper.SetDefault("site.logo_path", "/logo.png")
	viper.SetDefault("site.author_name", "Autoblog AI Agent")

	viper.SetDefault("sanity.dataset", "production")
	viper.SetDefault("sanity.api_version", "v1")
	viper.SetDefault("sanity.author_id", "ai-bot")
	viper.SetDefault("sanity.author_name", "Autoblog AI Agent")
	viper.SetDefault("sanity.timeout", "30s")

	viper.SetDefault("trends.provider", "google-trends")
	viper.SetDefault("trends.region", "")
	viper.SetDefault("trends.seeds", []string{
		"AI technology", "software development", "cloud computing", "cybersecurity",
	})
	viper.SetDefault("trends.timeout", "15s")

	viper.SetDefault("images.enabled", true)
	viper.SetDefault("images.output_dir", "static/images")

	viper.SetDefault("deploy.timeout", "30s")

	viper.SetDefault("index.path", "posts_index.json")

	viper.SetDefault("logging.level", "info")
}

// bindEnvironmentVariables sets up flexible environment variable binding.
func bindEnvironmentVariables() {
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("sanity.project_id", []string{
		"SANITY_PROJECT_ID",
	})
	bindEnvKeys("sanity.dataset", []string{
		"SANITY_DATASET",
	})
	bindEnvKeys("sanity.write_token", []string{
		"SANITY_WRITE_TOKEN",
		"SANITY_TOKEN",
	})

	bindEnvKeys("deploy.webhook_url", []string{
		"DEPLOYMENT_WEBHOOK_URL",
		"DEPLOY_WEBHOOK_URL",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"AUTOBLOG_DEBUG",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key.
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig expands paths and validates durations.
func postProcessConfig(config *Config) error {
	if config.App.DataDir != "" {
		config.App.DataDir = expandPath(config.App.DataDir)
	}
	if config.Images.OutputDir != "" {
		config.Images.OutputDir = expandPath(config.Images.OutputDir)
	}
	if config.Index.Path != "" {
		config.Index.Path = expandPath(config.Index.Path)
	}

	durations := map[string]string{
		"ai.gemini.timeout": config.AI.Gemini.Timeout,
		"sanity.timeout":    config.Sanity.Timeout,
		"trends.timeout":    config.Trends.Timeout,
		"deploy.timeout":    config.Deploy.Timeout,
	}
	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	return nil
}

// expandPath expands ~ and environment variables in paths.
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

// Validate ensures required credentials are present. It is called once at
// the start of a run, before any network call, so a missing key aborts the
// run with a configuration error rather than a mid-run network failure.
func (c *Config) Validate() error {
	var errors []string

	if c.AI.Gemini.APIKey == "" {
		errors = append(errors, "Gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file")
	}
	if c.Sanity.ProjectID == "" {
		errors = append(errors, "Sanity project ID is required. Set SANITY_PROJECT_ID environment variable or sanity.project_id in config file")
	}
	if c.Sanity.WriteToken == "" {
		errors = append(errors, "Sanity write token is required. Set SANITY_WRITE_TOKEN environment variable or sanity.write_token in config file")
	}

	switch c.Trends.Provider {
	case "google-trends", "seed", "mock", "":
	default:
		errors = append(errors, fmt.Sprintf("Unknown trends provider: %s. Supported: google-trends, seed, mock", c.Trends.Provider))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// MutateURL returns the Sanity mutation endpoint for the configured project.
func (s Sanity) MutateURL() string {
	return fmt.Sprintf("https://%s.api.sanity.io/%s/data/mutate/%s", s.ProjectID, s.APIVersion, s.Dataset)
}

// AssetUploadURL returns the Sanity image asset upload endpoint.
func (s Sanity) AssetUploadURL() string {
	return fmt.Sprintf("https://%s.api.sanity.io/%s/assets/images/%s", s.ProjectID, s.APIVersion, s.Dataset)
}

// Convenience getters for commonly used configuration values.
func GetSite() Site             { return Get().Site }
func GetSanity() Sanity         { return Get().Sanity }
func GetTrends() Trends         { return Get().Trends }
func GetGeminiAPIKey() string   { return Get().AI.Gemini.APIKey }
func GetGeminiModel() string    { return Get().AI.Gemini.Model }
func GetIndexPath() string      { return Get().Index.Path }
func GetImagesDir() string      { return Get().Images.OutputDir }
func GetDeployWebhook() string  { return Get().Deploy.WebhookURL }
func IsDebugMode() bool         { return Get().App.Debug }

// Reset clears the global configuration (useful for testing).
func Reset() {
	globalConfig = nil
	viper.Reset()
}
