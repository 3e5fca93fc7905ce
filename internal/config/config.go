// Package config provides configuration loading and validation for the bot process.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// MatchMode selects how classifier keywords are compared against member skills.
type MatchMode string

const (
	// MatchModeSubstring matches a keyword anywhere inside the skills text.
	// This is the historical behavior and over-matches short keywords.
	MatchModeSubstring MatchMode = "substring"
	// MatchModeToken matches a keyword only against whole comma-separated skill terms.
	MatchModeToken MatchMode = "token"
)

// DefaultTheme is used for guilds that have not configured a theme.
const DefaultTheme = "Technology and Programming"

// Config holds all process configuration, loaded from the environment.
type Config struct {
	DiscordToken string // Bot token for the chat gateway
	DatabaseURL  string // PostgreSQL connection URL

	LLMProvider  string // "gemini" or "openai"
	LLMTier      string // "lite" or "standard" classification model tier
	GeminiAPIKey string
	OpenAIAPIKey string

	DefaultTheme string    // Fallback guild theme
	MatchMode    MatchMode // Keyword-to-skill comparison mode
	UseBrowser   bool      // Enable headless-browser fallback for JS-heavy pages
	LogLevel     string    // debug, info, warn, error
}

// FromEnv reads configuration from environment variables, applying defaults
// for optional values. Call Validate before using the result.
func FromEnv() *Config {
	cfg := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		LLMProvider:  getEnvDefault("LLM_PROVIDER", "gemini"),
		LLMTier:      getEnvDefault("LLM_TIER", "lite"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		DefaultTheme: getEnvDefault("GROUP_THEME", DefaultTheme),
		MatchMode:    MatchMode(getEnvDefault("MATCH_MODE", string(MatchModeSubstring))),
		LogLevel:     getEnvDefault("LOG_LEVEL", "info"),
	}

	if v := os.Getenv("USE_BROWSER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseBrowser = b
		}
	}

	return cfg
}

// Validate checks that the configuration has all required values and that
// enumerated fields hold known values.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("config error: DISCORD_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}

	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config error: GEMINI_API_KEY is required for provider gemini")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("config error: OPENAI_API_KEY is required for provider openai")
		}
	default:
		return fmt.Errorf("config error: unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.LLMTier {
	case "lite", "standard":
	default:
		return fmt.Errorf("config error: unknown LLM_TIER %q", c.LLMTier)
	}

	switch c.MatchMode {
	case MatchModeSubstring, MatchModeToken:
	default:
		return fmt.Errorf("config error: unknown MATCH_MODE %q", c.MatchMode)
	}

	return nil
}

// APIKey returns the API key for the configured provider.
func (c *Config) APIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
