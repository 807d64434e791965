package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/davrd/steward/internal/intent"
)

// Config root configuration
type Config struct {
	Workspace string         `mapstructure:"workspace"`
	Log       LogConfig      `mapstructure:"log"`
	Policy    PolicyConfig   `mapstructure:"policy"`
	Provider  ProviderConfig `mapstructure:"provider"`
}

// LogConfig application logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// PolicyConfig approval policy settings
type PolicyConfig struct {
	RequireApproval []string `mapstructure:"require_approval"`
}

// ProviderConfig tool provider settings. Transport "inprocess" runs the
// tools in the same process; "stdio" spawns Command with Args and talks
// JSON-RPC over its pipes.
type ProviderConfig struct {
	Transport string   `mapstructure:"transport"`
	Command   string   `mapstructure:"command"`
	Args      []string `mapstructure:"args"`
}

// Transport values accepted by ProviderConfig.
const (
	TransportInProcess = "inprocess"
	TransportStdio     = "stdio"
)

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("failed to resolve home directory, using current directory as fallback", "error", err)
		homeDir = "."
	}
	return &Config{
		Workspace: filepath.Join(homeDir, ".steward", "workspace"),
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
		Policy: PolicyConfig{
			RequireApproval: []string{},
		},
		Provider: ProviderConfig{
			Transport: TransportInProcess,
		},
	}
}

// ConfigDir returns the steward config directory
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".steward")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load loads config from file or returns defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := ConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(cfg); err != nil {
			return cfg, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix("STEWARD")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}

	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.MatchName = func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		}
	}); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func normalizeKey(input string) string {
	input = strings.ReplaceAll(input, "_", "")
	input = strings.ReplaceAll(input, "-", "")
	return strings.ToLower(input)
}

// Save saves config to file
func Save(cfg *Config) error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Validate checks that the configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	if level == "" {
		c.Log.Level = "info"
	} else {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[level] {
			return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
		}
		c.Log.Level = level
	}

	for _, name := range c.Policy.RequireApproval {
		if !intent.Known(intent.Tool(name)) {
			return fmt.Errorf("policy.require_approval contains unknown tool %q", name)
		}
	}

	transport := strings.ToLower(strings.TrimSpace(c.Provider.Transport))
	switch transport {
	case "":
		c.Provider.Transport = TransportInProcess
	case TransportInProcess, TransportStdio:
		c.Provider.Transport = transport
	default:
		return fmt.Errorf("provider.transport must be %q or %q; got %q",
			TransportInProcess, TransportStdio, c.Provider.Transport)
	}
	if c.Provider.Transport == TransportStdio && strings.TrimSpace(c.Provider.Command) == "" {
		return fmt.Errorf("provider.command is required when provider.transport is %q", TransportStdio)
	}

	return nil
}

// WorkspacePath returns the expanded workspace path
func (c *Config) WorkspacePath() string {
	ws := strings.TrimSpace(c.Workspace)
	if ws == "" {
		return filepath.Join(ConfigDir(), "workspace")
	}
	if ws[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(ConfigDir(), "workspace")
		}
		rest := strings.TrimPrefix(ws[1:], string(filepath.Separator))
		rest = strings.TrimPrefix(rest, "/")
		return filepath.Join(homeDir, rest)
	}
	return ws
}
