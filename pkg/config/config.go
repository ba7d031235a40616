package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Hinge scraper.
type Config struct {
	// Hinge credentials and device identity
	Hinge HingeConfig `yaml:"hinge" json:"hinge"`

	// Scrape loop settings
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Output settings for image downloads
	Output OutputConfig `yaml:"output" json:"output"`

	// HTTP front end settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// HingeConfig holds the credentials and device identity presented to the
// Hinge API. Tokens are usually captured by intercepting the mobile app's
// traffic or produced by the SMS login flow.
type HingeConfig struct {
	BearerToken string        `yaml:"bearer_token" json:"bearer_token"`
	SessionID   string        `yaml:"session_id" json:"session_id"`
	UserID      string        `yaml:"user_id" json:"user_id"`
	DeviceID    string        `yaml:"device_id" json:"device_id"`
	InstallID   string        `yaml:"install_id" json:"install_id"`
	AppVersion  string        `yaml:"app_version" json:"app_version"`
	OSVersion   string        `yaml:"os_version" json:"os_version"`
	DeviceModel string        `yaml:"device_model" json:"device_model"`
	Platform    string        `yaml:"platform" json:"platform"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// ScrapeConfig holds the scrape orchestrator settings.
type ScrapeConfig struct {
	Iterations    int           `yaml:"iterations" json:"iterations"`
	MinSleep      time.Duration `yaml:"min_sleep" json:"min_sleep"`
	MaxSleep      time.Duration `yaml:"max_sleep" json:"max_sleep"`
	ActiveToday   bool          `yaml:"active_today" json:"active_today"`
	NewHere       bool          `yaml:"new_here" json:"new_here"`
	OutputFile    string        `yaml:"output_file" json:"output_file"`
	QuestionsFile string        `yaml:"questions_file" json:"questions_file"`
}

// OutputConfig holds image download output settings.
type OutputConfig struct {
	BaseDirectory     string `yaml:"base_directory" json:"base_directory"`
	CreateUserFolders bool   `yaml:"create_user_folders" json:"create_user_folders"`
}

// ServerConfig holds the HTTP front end settings.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Hinge: HingeConfig{
			AppVersion:  "9.105.0",
			OSVersion:   "26.3",
			DeviceModel: "iPhone17,3",
			Platform:    "ios",
			Timeout:     30 * time.Second,
		},
		Scrape: ScrapeConfig{
			// Around 40 iterations is the practical limit before the feed
			// stops returning unseen profiles.
			Iterations:    40,
			MinSleep:      5 * time.Second,
			MaxSleep:      15 * time.Second,
			OutputFile:    "all_recommendations.json",
			QuestionsFile: "assets/prompts.json",
		},
		Output: OutputConfig{
			BaseDirectory:     "./downloads",
			CreateUserFolders: true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds a config from defaults, an optional YAML file and environment
// variables, in that order of precedence. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("HINGE_BEARER_TOKEN"); v != "" {
		c.Hinge.BearerToken = v
	}
	if v := os.Getenv("HINGE_SESSION_ID"); v != "" {
		c.Hinge.SessionID = v
	}
	if v := os.Getenv("HINGE_USER_ID"); v != "" {
		c.Hinge.UserID = v
	}
	if v := os.Getenv("HINGE_DEVICE_ID"); v != "" {
		c.Hinge.DeviceID = v
	}
	if v := os.Getenv("HINGE_INSTALL_ID"); v != "" {
		c.Hinge.InstallID = v
	}
	if v := os.Getenv("HINGE_PLATFORM"); v != "" {
		c.Hinge.Platform = v
	}
	if v := os.Getenv("HINGE_SCRAPE_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scrape.Iterations = n
		}
	}
	if v := os.Getenv("HINGE_SCRAPE_OUTPUT"); v != "" {
		c.Scrape.OutputFile = v
	}
	if v := os.Getenv("HINGE_QUESTIONS_FILE"); v != "" {
		c.Scrape.QuestionsFile = v
	}
	if v := os.Getenv("HINGE_OUTPUT_DIR"); v != "" {
		c.Output.BaseDirectory = v
	}
	if v := os.Getenv("HINGE_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("HINGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. An empty path falls
// back to the standard locations; finding none is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
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

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".hingescraper.yaml",
		".hingescraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "hingescraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "hingescraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".hingescraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Credential checks are
// separate (ValidateCredentials) because commands like auth and serve have
// different requirements.
func (c *Config) Validate() error {
	var errs []error

	if c.Scrape.Iterations <= 0 {
		errs = append(errs, errors.New("scrape iterations must be positive"))
	}
	if c.Scrape.MinSleep < 0 || c.Scrape.MaxSleep < 0 {
		errs = append(errs, errors.New("sleep durations cannot be negative"))
	}
	if c.Scrape.MaxSleep < c.Scrape.MinSleep {
		errs = append(errs, errors.New("max sleep must not be less than min sleep"))
	}
	if c.Scrape.OutputFile == "" {
		errs = append(errs, errors.New("scrape output file is required"))
	}
	if c.Scrape.QuestionsFile == "" {
		errs = append(errs, errors.New("questions file is required"))
	}
	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	switch strings.ToLower(c.Hinge.Platform) {
	case "ios", "android":
	default:
		errs = append(errs, errors.New("platform must be ios or android"))
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

// ValidateCredentials checks that the credentials required for
// authenticated API calls are present.
func (c *Config) ValidateCredentials() error {
	var errs []error

	if c.Hinge.BearerToken == "" {
		errs = append(errs, errors.New("bearer token is required"))
	}
	if c.Hinge.SessionID == "" {
		errs = append(errs, errors.New("session id is required"))
	}
	if c.Hinge.UserID == "" {
		errs = append(errs, errors.New("user id is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
