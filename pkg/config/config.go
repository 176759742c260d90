package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for stogramctl
type Config struct {
	// Database discovery settings
	Database DatabaseConfig `yaml:"database" json:"database"`

	// External scraper settings
	Scraper ScraperConfig `yaml:"scraper" json:"scraper"`

	// Video thumbnail extraction settings
	Thumbnail ThumbnailConfig `yaml:"thumbnail" json:"thumbnail"`

	// Media directory layout
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DatabaseConfig holds database discovery configuration
type DatabaseConfig struct {
	// Path is an explicit database file; when empty the database is
	// auto-discovered in SearchDir by Suffix.
	Path      string `yaml:"path" json:"path"`
	Suffix    string `yaml:"suffix" json:"suffix"`
	SearchDir string `yaml:"search_dir" json:"search_dir"`
}

// ScraperConfig holds gallery-dl invocation configuration
type ScraperConfig struct {
	Binary    string        `yaml:"binary" json:"binary"`
	Browser   string        `yaml:"browser" json:"browser"`
	MediaType string        `yaml:"media_type" json:"media_type"`
	PostLimit int           `yaml:"post_limit" json:"post_limit"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// ThumbnailConfig holds ffmpeg invocation configuration
type ThumbnailConfig struct {
	Binary      string `yaml:"binary" json:"binary"`
	SeekSeconds int    `yaml:"seek_seconds" json:"seek_seconds"`
}

// OutputConfig holds the on-disk media layout
type OutputConfig struct {
	BaseDirectory    string        `yaml:"base_directory" json:"base_directory"`
	ThumbnailDirName string        `yaml:"thumbnail_dir_name" json:"thumbnail_dir_name"`
	FreshWindow      time.Duration `yaml:"fresh_window" json:"fresh_window"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// MediaTypes supported by the scraper, mapped to gallery-dl include filters
var MediaTypes = map[string]string{
	"posts":   "posts",
	"stories": "stories",
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Suffix:    ".stogram.sqlite",
			SearchDir: ".",
		},
		Scraper: ScraperConfig{
			Binary:    "gallery-dl",
			Browser:   "firefox",
			MediaType: "posts",
			PostLimit: 10,
			Timeout:   0, // no timeout; the scraper may run indefinitely
		},
		Thumbnail: ThumbnailConfig{
			Binary:      "ffmpeg",
			SeekSeconds: 3,
		},
		Output: OutputConfig{
			BaseDirectory:    "instagram",
			ThumbnailDirName: "thumbnails",
			FreshWindow:      30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if path := os.Getenv("STOGRAMCTL_DATABASE"); path != "" {
		c.Database.Path = path
	}
	if suffix := os.Getenv("STOGRAMCTL_DATABASE_SUFFIX"); suffix != "" {
		c.Database.Suffix = suffix
	}
	if bin := os.Getenv("STOGRAMCTL_SCRAPER_BINARY"); bin != "" {
		c.Scraper.Binary = bin
	}
	if browser := os.Getenv("STOGRAMCTL_BROWSER"); browser != "" {
		c.Scraper.Browser = browser
	}
	if mediaType := os.Getenv("STOGRAMCTL_MEDIA_TYPE"); mediaType != "" {
		c.Scraper.MediaType = strings.ToLower(mediaType)
	}
	if limit := os.Getenv("STOGRAMCTL_POST_LIMIT"); limit != "" {
		var val int
		fmt.Sscanf(limit, "%d", &val)
		if val >= 0 {
			c.Scraper.PostLimit = val
		}
	}
	if bin := os.Getenv("STOGRAMCTL_FFMPEG_BINARY"); bin != "" {
		c.Thumbnail.Binary = bin
	}
	if baseDir := os.Getenv("STOGRAMCTL_MEDIA_DIR"); baseDir != "" {
		c.Output.BaseDirectory = baseDir
	}
	if window := os.Getenv("STOGRAMCTL_FRESH_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil && d > 0 {
			c.Output.FreshWindow = d
		}
	}
	if logLevel := os.Getenv("STOGRAMCTL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("STOGRAMCTL_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".stogramctl.yaml",
		".stogramctl.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "stogramctl", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "stogramctl", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".stogramctl.yaml"),
		filepath.Join(os.Getenv("HOME"), ".stogramctl.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" && c.Database.Suffix == "" {
		errs = append(errs, errors.New("database suffix is required when no explicit path is set"))
	}

	if c.Scraper.Binary == "" {
		errs = append(errs, errors.New("scraper binary is required"))
	}
	if c.Scraper.Browser == "" {
		errs = append(errs, errors.New("cookie source browser is required"))
	}
	if _, ok := MediaTypes[strings.ToLower(c.Scraper.MediaType)]; !ok {
		errs = append(errs, fmt.Errorf("unsupported media type %q", c.Scraper.MediaType))
	}
	if c.Scraper.PostLimit < 0 {
		errs = append(errs, errors.New("post limit cannot be negative"))
	}

	if c.Thumbnail.Binary == "" {
		errs = append(errs, errors.New("thumbnail binary is required"))
	}
	if c.Thumbnail.SeekSeconds < 0 {
		errs = append(errs, errors.New("thumbnail seek offset cannot be negative"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("media base directory is required"))
	}
	if c.Output.ThumbnailDirName == "" {
		errs = append(errs, errors.New("thumbnail directory name is required"))
	}
	if c.Output.FreshWindow <= 0 {
		errs = append(errs, errors.New("fresh window must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if path, ok := flags["database"].(string); ok && path != "" {
		c.Database.Path = path
	}
	if browser, ok := flags["browser"].(string); ok && browser != "" {
		c.Scraper.Browser = browser
	}
	if mediaType, ok := flags["media-type"].(string); ok && mediaType != "" {
		c.Scraper.MediaType = strings.ToLower(mediaType)
	}
	if limit, ok := flags["post-limit"].(int); ok && limit >= 0 {
		c.Scraper.PostLimit = limit
	}
	if baseDir, ok := flags["media-dir"].(string); ok && baseDir != "" {
		c.Output.BaseDirectory = baseDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".stogramctl.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
