// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	TMDB     TMDBConfig
	OMDb     OMDbConfig
	LLM      LLMConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	// File enables rotated file output in addition to stderr when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 5m, deep recommendations are slow)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string

	// Per-IP limit applied to every API request.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string
}

// CacheConfig holds the metadata response cache configuration.
type CacheConfig struct {
	Path string
	TTL  time.Duration
}

// TMDBConfig holds catalog API configuration.
type TMDBConfig struct {
	APIKey  string
	BaseURL string
}

// OMDbConfig holds ratings API configuration.
type OMDbConfig struct {
	APIKey  string
	BaseURL string
}

// LLMConfig holds generative backend configuration.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout of zero leaves backend calls unbounded.
	Timeout time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("couchqueue", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Write logs to this file with rotation")
	dataDir := fs.String("data-dir", "", "Base directory for the database and cache")
	dbPath := fs.String("db-path", "", "SQLite database path (default: {data-dir}/couchqueue.db)")
	cachePath := fs.String("cache-path", "", "Metadata cache directory (default: {data-dir}/cache)")
	cacheTTL := fs.String("cache-ttl", "", "Metadata cache TTL (default: 6h)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 5m)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated list of allowed origins")

	// Upstream flags
	llmModel := fs.String("llm-model", "", "Model used for recommendations")
	llmTimeout := fs.String("llm-timeout", "", "Timeout for generative backend calls (default: none)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:      getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			File:       getConfigValue(*logFile, "LOG_FILE", ""),
			MaxSizeMB:  getIntConfigValue("", "LOG_MAX_SIZE_MB", 50),
			MaxBackups: getIntConfigValue("", "LOG_MAX_BACKUPS", 3),
		},
		Server: ServerConfig{
			Port:              getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins:       splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
			RateLimitRequests: getIntConfigValue("", "RATE_LIMIT_REQUESTS", 120),
		},
		Database: DatabaseConfig{
			Path: getConfigValue(*dbPath, "DB_PATH", ""),
		},
		Cache: CacheConfig{
			Path: getConfigValue(*cachePath, "CACHE_PATH", ""),
		},
		TMDB: TMDBConfig{
			APIKey:  getConfigValue("", "TMDB_API_KEY", ""),
			BaseURL: getConfigValue("", "TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		},
		OMDb: OMDbConfig{
			APIKey:  getConfigValue("", "OMDB_API_KEY", ""),
			BaseURL: getConfigValue("", "OMDB_BASE_URL", "https://www.omdbapi.com"),
		},
		LLM: LLMConfig{
			APIKey:  getConfigValue("", "ANTHROPIC_API_KEY", ""),
			BaseURL: getConfigValue("", "ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			Model:   getConfigValue(*llmModel, "LLM_MODEL", "claude-sonnet-4-20250514"),
		},
	}

	var err error
	durations := []struct {
		flag, env, def string
		dst            *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "5m", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{"", "RATE_LIMIT_WINDOW", "1m", &cfg.Server.RateLimitWindow},
		{*cacheTTL, "CACHE_TTL", "6h", &cfg.Cache.TTL},
		{*llmTimeout, "LLM_TIMEOUT", "0s", &cfg.LLM.Timeout},
	}
	for _, d := range durations {
		if *d.dst, err = getDurationConfigValue(d.flag, d.env, d.def); err != nil {
			return nil, err
		}
	}

	base := getConfigValue(*dataDir, "DATA_DIR", "")
	if err := cfg.expandPaths(base); err != nil {
		return nil, err
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

	if c.Database.Path == "" {
		return errors.New("database path cannot be empty")
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Server.Port)
	}

	if c.LLM.Timeout < 0 {
		return errors.New("llm timeout cannot be negative")
	}

	// Upstream API keys are optional; clients report ErrNotConfigured on use.

	return nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// expandPaths fills the database and cache paths from the data directory.
func (c *Config) expandPaths(base string) error {
	if base == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(homeDir, ".couchqueue")
	}

	var err error
	if base, err = expandPath(base, ""); err != nil {
		return fmt.Errorf("invalid data dir: %w", err)
	}
	if c.Database.Path, err = expandPath(c.Database.Path, filepath.Join(base, "couchqueue.db")); err != nil {
		return fmt.Errorf("invalid database path: %w", err)
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path, filepath.Join(base, "cache")); err != nil {
		return fmt.Errorf("invalid cache path: %w", err)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned unchanged.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return d, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
