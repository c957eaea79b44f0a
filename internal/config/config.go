// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// File modes.
const (
	FilesInline = "inline"
	FilesDisk   = "disk"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Storage  StorageConfig
	Files    FilesConfig
	Autosave AutosaveConfig
	Search   SearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds document storage configuration.
type StorageConfig struct {
	// DataPath is the root directory for the database and stored files (default: ~/.corkboard).
	DataPath string
	// Backend selects the key-value store (badger or sqlite).
	Backend string
}

// FilesConfig holds imported file configuration.
type FilesConfig struct {
	// Mode is inline (data: URLs) or disk (files under DataPath/files).
	Mode string
}

// AutosaveConfig holds autosave configuration.
type AutosaveConfig struct {
	// Interval overrides the autosave period from settings when positive.
	Interval time.Duration
}

// SearchConfig holds full-text search configuration.
type SearchConfig struct {
	Enabled bool
}

// Flags carries raw command-line values. Empty strings mean "not set".
type Flags struct {
	Env              string
	LogLevel         string
	DataPath         string
	StorageBackend   string
	FilesMode        string
	AutosaveInterval string
	SearchEnabled    string
	EnvFile          string
}

// NewFlagSet returns a flag set that writes into f.
func NewFlagSet(name string, f *Flags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&f.Env, "env", "", "Environment (development, staging, production)")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.DataPath, "data-path", "", "Directory for workspace data (default: ~/.corkboard)")
	fs.StringVar(&f.StorageBackend, "storage", "", "Storage backend (badger, sqlite)")
	fs.StringVar(&f.FilesMode, "files-mode", "", "How imported files are kept (inline, disk)")
	fs.StringVar(&f.AutosaveInterval, "autosave-interval", "", "Autosave period override (e.g., 10s)")
	fs.StringVar(&f.SearchEnabled, "search", "", "Enable full-text search (default: true)")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "Path to .env file")
	return fs
}

// Load parses args and loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	var f Flags
	if err := NewFlagSet("corkboard", &f).Parse(args); err != nil {
		return nil, err
	}
	return f.Resolve()
}

// Resolve builds a validated Config from f, the environment and the .env file.
func (f Flags) Resolve() (*Config, error) {
	envFile := f.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(f.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(f.LogLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataPath: getConfigValue(f.DataPath, "DATA_PATH", ""),
			Backend:  strings.ToLower(getConfigValue(f.StorageBackend, "STORAGE_BACKEND", BackendBadger)),
		},
		Files: FilesConfig{
			Mode: strings.ToLower(getConfigValue(f.FilesMode, "FILES_MODE", FilesInline)),
		},
		Search: SearchConfig{
			Enabled: getBoolConfigValue(f.SearchEnabled, "SEARCH_ENABLED", true),
		},
	}

	if raw := getConfigValue(f.AutosaveInterval, "AUTOSAVE_INTERVAL", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid autosave interval %q: %w", raw, err)
		}
		cfg.Autosave.Interval = d
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	switch c.Storage.Backend {
	case BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be badger or sqlite)", c.Storage.Backend)
	}

	switch c.Files.Mode {
	case FilesInline, FilesDisk:
	default:
		return fmt.Errorf("invalid files mode: %s (must be inline or disk)", c.Files.Mode)
	}

	if c.Autosave.Interval < 0 {
		return fmt.Errorf("invalid autosave interval: %s", c.Autosave.Interval)
	}

	return nil
}

// DatabasePath is where the selected backend keeps its data.
func (c *Config) DatabasePath() string {
	if c.Storage.Backend == BackendSQLite {
		return filepath.Join(c.Storage.DataPath, "corkboard.db")
	}
	return filepath.Join(c.Storage.DataPath, "db")
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data path to ~/.corkboard and makes it absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".corkboard")

	expanded, err := expandPath(c.Storage.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
