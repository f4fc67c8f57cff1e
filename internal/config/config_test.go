package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.AI.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Expected default text model, got %q", cfg.AI.Gemini.Model)
	}
	if cfg.AI.Gemini.ImageModel != "gemini-2.5-flash-image" {
		t.Errorf("Expected default image model, got %q", cfg.AI.Gemini.ImageModel)
	}
	if cfg.Sanity.Dataset != "production" {
		t.Errorf("Expected default dataset production, got %q", cfg.Sanity.Dataset)
	}
	if cfg.Sanity.AuthorID != "ai-bot" {
		t.Errorf("Expected default author id ai-bot, got %q", cfg.Sanity.AuthorID)
	}
	if cfg.Trends.Provider != "google-trends" {
		t.Errorf("Expected default trends provider, got %q", cfg.Trends.Provider)
	}
	if len(cfg.Trends.Seeds) == 0 {
		t.Error("Expected builtin seed topics")
	}
	if cfg.Index.Path != "posts_index.json" {
		t.Errorf("Expected default index path, got %q", cfg.Index.Path)
	}
	if !cfg.Images.Enabled {
		t.Error("Expected image generation enabled by default")
	}
}

func TestLoadRecordsConfigFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "autoblog.yaml")
	content := "site:\n  org_name: Test Media\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.App.ConfigFile != path {
		t.Errorf("Expected config file %q to be recorded, got %q", path, cfg.App.ConfigFile)
	}
	if cfg.Site.OrgName != "Test Media" {
		t.Errorf("Expected org name from file, got %q", cfg.Site.OrgName)
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.App.ConfigFile != "" {
		t.Errorf("Expected empty config file path, got %q", cfg.App.ConfigFile)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("SANITY_PROJECT_ID", "proj123")
	t.Setenv("SANITY_WRITE_TOKEN", "tok456")
	t.Setenv("DEPLOYMENT_WEBHOOK_URL", "https://deploy.example.com/hook")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.AI.Gemini.APIKey != "env-gemini-key" {
		t.Errorf("Expected API key from environment, got %q", cfg.AI.Gemini.APIKey)
	}
	if cfg.Sanity.ProjectID != "proj123" {
		t.Errorf("Expected project ID from environment, got %q", cfg.Sanity.ProjectID)
	}
	if cfg.Deploy.WebhookURL != "https://deploy.example.com/hook" {
		t.Errorf("Expected webhook from environment, got %q", cfg.Deploy.WebhookURL)
	}
}

func TestValidateMissingCredentials(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error for empty config")
	}
	msg := err.Error()
	for _, want := range []string{"Gemini API key", "Sanity project ID", "Sanity write token"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected error to mention %q, got %q", want, msg)
		}
	}
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := &Config{}
	cfg.AI.Gemini.APIKey = "k"
	cfg.Sanity.ProjectID = "p"
	cfg.Sanity.WriteToken = "t"
	cfg.Trends.Provider = "bing"

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "Unknown trends provider") {
		t.Errorf("Expected unknown provider error, got %v", err)
	}
}

func TestValidateComplete(t *testing.T) {
	cfg := &Config{}
	cfg.AI.Gemini.APIKey = "k"
	cfg.Sanity.ProjectID = "p"
	cfg.Sanity.WriteToken = "t"
	cfg.Trends.Provider = "seed"

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestSanityEndpoints(t *testing.T) {
	s := Sanity{ProjectID: "abc123", Dataset: "production", APIVersion: "v1"}

	if got := s.MutateURL(); got != "https://abc123.api.sanity.io/v1/data/mutate/production" {
		t.Errorf("Unexpected mutate URL %q", got)
	}
	if got := s.AssetUploadURL(); got != "https://abc123.api.sanity.io/v1/assets/images/production" {
		t.Errorf("Unexpected asset URL %q", got)
	}
}

func TestPostProcessRejectsBadDuration(t *testing.T) {
	cfg := &Config{}
	cfg.Sanity.Timeout = "not-a-duration"

	if err := postProcessConfig(cfg); err == nil {
		t.Error("Expected invalid duration to be rejected")
	}
}
