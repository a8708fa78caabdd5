package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Spreadsheet SpreadsheetConfig `toml:"spreadsheet"`
	OAuth       OAuthConfig       `toml:"oauth"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Database    DatabaseConfig    `toml:"database"`
	Sync        SyncConfig        `toml:"sync"`
}

// SpreadsheetConfig identifies the backing spreadsheet and the read credential.
type SpreadsheetConfig struct {
	ID     string `toml:"id"`
	Tab    string `toml:"tab"`
	APIKey string `toml:"api_key"`
}

// OAuthConfig contains the Google OAuth client used for write access.
type OAuthConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// CatalogConfig identifies the Drive folder holding song documents.
type CatalogConfig struct {
	FolderID string `toml:"folder_id"`
}

// DatabaseConfig contains session database settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SyncConfig contains pacing and timeout settings for backing store calls.
type SyncConfig struct {
	RateLimitMS      int `toml:"rate_limit_ms"`
	RequestTimeoutMS int `toml:"request_timeout_ms"`
}

// RateInterval returns the minimum interval between backing store calls.
func (s SyncConfig) RateInterval() time.Duration {
	if s.RateLimitMS <= 0 {
		return time.Second
	}
	return time.Duration(s.RateLimitMS) * time.Millisecond
}

// RequestTimeout returns the per-request timeout, zero meaning no timeout.
func (s SyncConfig) RequestTimeout() time.Duration {
	if s.RequestTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(s.RequestTimeoutMS) * time.Millisecond
}

// Validate checks that the settings required for read access are present.
func (c *Config) Validate() error {
	if c.Spreadsheet.ID == "" {
		return fmt.Errorf("%w: spreadsheet.id is required", ErrInvalidConfig)
	}
	if c.Spreadsheet.Tab == "" {
		return fmt.Errorf("%w: spreadsheet.tab is required", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
