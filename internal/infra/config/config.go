// Package config provides application-wide configuration loaded from env vars,
// with an optional YAML file override (COPILOT_CONFIG). All fields have safe
// defaults so the binary runs locally without any env setup; API keys are the
// only values that must be provided for live generation.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the StartupCoPilot backend.
type Config struct {
	// Server
	Host string `yaml:"host"` // COPILOT_HOST — default: "0.0.0.0"
	Port int    `yaml:"port"` // COPILOT_PORT — default: 8080

	// Storage
	DBPath string `yaml:"db_path"` // COPILOT_DB_PATH — default: "copilot.sqlite"

	// Cache backend: "sqlite" (default), "redis" or "memory".
	CacheBackend string `yaml:"cache_backend"` // COPILOT_CACHE_BACKEND
	RedisAddr    string `yaml:"redis_addr"`    // COPILOT_REDIS_ADDR — default: "localhost:6379"

	// Providers
	OpenRouterAPIKey  string `yaml:"openrouter_api_key"`  // OPENROUTER_API_KEY
	OpenRouterBaseURL string `yaml:"openrouter_base_url"` // OPENROUTER_BASE_URL — empty = provider default
	GroqAPIKey        string `yaml:"groq_api_key"`        // GROQ_API_KEY
	GroqBaseURL       string `yaml:"groq_base_url"`       // GROQ_BASE_URL — empty = provider default

	// Attribution headers sent with OpenRouter requests.
	AppReferer string `yaml:"app_referer"` // COPILOT_APP_REFERER — default: "https://startupcopilot.app"
	AppTitle   string `yaml:"app_title"`   // COPILOT_APP_TITLE — default: "StartupCoPilot"
}

const (
	envKeyConfigFile = "COPILOT_CONFIG"

	envKeyHost         = "COPILOT_HOST"
	envKeyPort         = "COPILOT_PORT"
	envKeyDBPath       = "COPILOT_DB_PATH"
	envKeyCacheBackend = "COPILOT_CACHE_BACKEND"
	envKeyRedisAddr    = "COPILOT_REDIS_ADDR"

	envKeyOpenRouterAPIKey  = "OPENROUTER_API_KEY"
	envKeyOpenRouterBaseURL = "OPENROUTER_BASE_URL"
	envKeyGroqAPIKey        = "GROQ_API_KEY"
	envKeyGroqBaseURL       = "GROQ_BASE_URL"

	envKeyAppReferer = "COPILOT_APP_REFERER"
	envKeyAppTitle   = "COPILOT_APP_TITLE"
)

// Load reads configuration in precedence order: defaults, then the YAML file
// named by COPILOT_CONFIG (if set), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv(envKeyConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Host = envOr(envKeyHost, cfg.Host)
	cfg.Port = envIntOr(envKeyPort, cfg.Port)
	cfg.DBPath = envOr(envKeyDBPath, cfg.DBPath)
	cfg.CacheBackend = envOr(envKeyCacheBackend, cfg.CacheBackend)
	cfg.RedisAddr = envOr(envKeyRedisAddr, cfg.RedisAddr)
	cfg.OpenRouterAPIKey = envOr(envKeyOpenRouterAPIKey, cfg.OpenRouterAPIKey)
	cfg.OpenRouterBaseURL = envOr(envKeyOpenRouterBaseURL, cfg.OpenRouterBaseURL)
	cfg.GroqAPIKey = envOr(envKeyGroqAPIKey, cfg.GroqAPIKey)
	cfg.GroqBaseURL = envOr(envKeyGroqBaseURL, cfg.GroqBaseURL)
	cfg.AppReferer = envOr(envKeyAppReferer, cfg.AppReferer)
	cfg.AppTitle = envOr(envKeyAppTitle, cfg.AppTitle)

	switch cfg.CacheBackend {
	case "sqlite", "redis", "memory":
	default:
		return Config{}, fmt.Errorf("config: unknown cache backend %q", cfg.CacheBackend)
	}

	return cfg, nil
}

// Addr returns the host:port pair the HTTP server binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaults() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8080,
		DBPath:       "copilot.sqlite",
		CacheBackend: "sqlite",
		RedisAddr:    "localhost:6379",
		AppReferer:   "https://startupcopilot.app",
		AppTitle:     "StartupCoPilot",
	}
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOr parses the environment variable key as an int, or returns fallback
// when the variable is unset or not a number.
func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
