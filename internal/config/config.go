// Package config handles the XDG configuration directory and environment settings.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// TokenFile is the stored bearer token filename.
	TokenFile = "token.json"

	// SessionFile is the stored session filename.
	SessionFile = "session.json"

	// DefaultAPIBaseURL is used when TASKDECK_API_URL is not set.
	DefaultAPIBaseURL = "http://localhost:8000"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIBaseURL is the base URL of the task API.
	APIBaseURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
// A .env file in the working directory is loaded first if present, so
// TASKDECK_API_URL can come from either the file or the environment.
func New(configDir string) (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	base := os.Getenv("TASKDECK_API_URL")
	if base == "" {
		base = DefaultAPIBaseURL
	}

	return &Config{Dir: dir, APIBaseURL: base}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// TokenPath returns the path to the stored bearer token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}
