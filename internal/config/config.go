package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// DataDir holds the sqlite store, logs, and backups.
	DataDir string `yaml:"data_dir"`
	// BackupRetention caps how many snapshot files rotation keeps.
	BackupRetention int `yaml:"backup_retention"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// RemindersEnabled turns the habit reminder scheduler on. It is a
	// pointer so a file that omits the key still gets the default;
	// read it through RemindersOn.
	RemindersEnabled *bool `yaml:"reminders_enabled"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	enabled := true
	return &Config{
		DataDir:          defaultDataDir(),
		BackupRetention:  14,
		LogLevel:         "info",
		RemindersEnabled: &enabled,
	}
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return Default(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	config.applyDefaults()
	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o644)
}

// DatabasePath returns the sqlite file location under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "daytally.db")
}

// RemindersOn reports whether the reminder scheduler should run. An
// unset key counts as enabled.
func (c *Config) RemindersOn() bool {
	return c.RemindersEnabled == nil || *c.RemindersEnabled
}

// applyDefaults fills in any missing values
func (c *Config) applyDefaults() {
	d := Default()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.BackupRetention <= 0 {
		c.BackupRetention = d.BackupRetention
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.RemindersEnabled == nil {
		c.RemindersEnabled = d.RemindersEnabled
	}
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "daytally", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "daytally", "config.yaml"), nil
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".daytally"
	}
	return filepath.Join(homeDir, ".daytally")
}
