package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config represents the application configuration
type Config struct {
	Gateway     GatewayConfig `json:"gateway"`
	SessionFile string        `json:"session_file"`
	ProfileFile string        `json:"profile_file"`
	ChatMode    string        `json:"chat_mode"`
	LogLevel    string        `json:"log_level"`
	LogFormat   string        `json:"log_format"`
	LogFile     string        `json:"log_file"`
}

// GatewayConfig holds the portal gateway endpoints
type GatewayConfig struct {
	BaseURL        string `json:"base_url"`
	LoginPath      string `json:"login_path"`
	LoginFormat    string `json:"login_format"` // "form" | "json"
	WhoAmIPath     string `json:"whoami_path"`
	ChatPath       string `json:"chat_path"`
	ScorePath      string `json:"score_path"`
	InventoryPath  string `json:"inventory_path"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// envOverrides holds raw env values applied on top of the config file.
type envOverrides struct {
	GatewayURL     string `env:"NETSIGHT_GATEWAY_URL"`
	LoginFormat    string `env:"NETSIGHT_LOGIN_FORMAT"`
	TimeoutSeconds int    `env:"NETSIGHT_TIMEOUT_SECONDS"`
	SessionFile    string `env:"NETSIGHT_SESSION_FILE"`
	ChatMode       string `env:"NETSIGHT_CHAT_MODE"`
	LogLevel       string `env:"NETSIGHT_LOG_LEVEL"`
	LogFormat      string `env:"NETSIGHT_LOG_FORMAT"`
	LogFile        string `env:"NETSIGHT_LOG_FILE"`
}

const (
	defaultBaseURL  = "http://localhost:8089"
	chatModeDefault = "local_only"
)

var validChatModes = []string{"local_only", "hybrid", "chatgpt_only"}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		Gateway: GatewayConfig{
			BaseURL:        defaultBaseURL,
			LoginPath:      "/api/auth/login",
			LoginFormat:    "form",
			WhoAmIPath:     "/api/auth/me",
			ChatPath:       "/api/chat/send",
			ScorePath:      "/ui-api/save_score",
			InventoryPath:  "/api/ecosystem/inventory",
			TimeoutSeconds: 30,
		},
		SessionFile: defaultStatePath("session.json"),
		ProfileFile: defaultStatePath("profile.json"),
		ChatMode:    chatModeDefault,
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// Load loads configuration from the specified path
// If the file doesn't exist, creates one with default values
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Start from defaults so older files pick up new keys.
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ApplyEnv overlays NETSIGHT_* variables from environ onto cfg. A nil environ
// reads the process environment.
func ApplyEnv(cfg Config, environ map[string]string) (Config, error) {
	var raw envOverrides
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if v := strings.TrimSpace(raw.GatewayURL); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := strings.TrimSpace(raw.LoginFormat); v != "" {
		cfg.Gateway.LoginFormat = v
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Gateway.TimeoutSeconds = raw.TimeoutSeconds
	}
	if v := strings.TrimSpace(raw.SessionFile); v != "" {
		cfg.SessionFile = v
	}
	if v := strings.TrimSpace(raw.ChatMode); v != "" {
		cfg.ChatMode = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	base := strings.TrimSpace(c.Gateway.BaseURL)
	if base == "" {
		return fmt.Errorf("gateway base_url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("gateway base_url must be an absolute URL, got: %q", base)
	}

	for name, p := range map[string]string{
		"login_path":     c.Gateway.LoginPath,
		"whoami_path":    c.Gateway.WhoAmIPath,
		"chat_path":      c.Gateway.ChatPath,
		"score_path":     c.Gateway.ScorePath,
		"inventory_path": c.Gateway.InventoryPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("gateway %s must start with '/', got: %q", name, p)
		}
	}

	switch c.Gateway.LoginFormat {
	case "form", "json":
	default:
		return fmt.Errorf("gateway login_format must be 'form' or 'json', got: %q", c.Gateway.LoginFormat)
	}

	if c.Gateway.TimeoutSeconds <= 0 {
		return fmt.Errorf("gateway timeout_seconds must be positive, got: %d", c.Gateway.TimeoutSeconds)
	}

	if strings.TrimSpace(c.SessionFile) == "" {
		return fmt.Errorf("session_file is required")
	}

	if !IsValidChatMode(c.ChatMode) {
		return fmt.Errorf("chat_mode must be one of %s, got: %q", strings.Join(validChatModes, ", "), c.ChatMode)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unsupported log format: %s", c.LogFormat)
	}

	return nil
}

// IsValidChatMode reports whether mode is a routing mode the gateway accepts.
func IsValidChatMode(mode string) bool {
	for _, m := range validChatModes {
		if m == mode {
			return true
		}
	}
	return false
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return defaultStatePath("config.json")
}

func defaultStatePath(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".netsight", name)
	}
	return filepath.Join(homeDir, ".netsight", name)
}
