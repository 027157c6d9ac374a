// Package config loads service configuration: defaults, then an optional
// YAML file, then environment variables. Missing credentials are a startup
// error, never a per-request one.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	Listen      string     `yaml:"listen" env:"LISTEN"`
	DBPath      string     `yaml:"db_path" env:"DB_PATH"`
	MaxFiles    int        `yaml:"max_files" env:"MAX_FILES"`
	MaxFileMB   int        `yaml:"max_file_mb" env:"MAX_FILE_MB"`
	Concurrency int        `yaml:"concurrency" env:"CONCURRENCY"`
	Cloudflare  Cloudflare `yaml:"cloudflare"`
}

// Cloudflare holds the Workers AI credentials and model identity.
type Cloudflare struct {
	AccountID string `yaml:"account_id" env:"CLOUDFLARE_ACCOUNT_ID"`
	APIToken  string `yaml:"api_token" env:"CLOUDFLARE_API_TOKEN"`
	Model     string `yaml:"model" env:"CLOUDFLARE_MODEL"`
	BaseURL   string `yaml:"base_url" env:"CLOUDFLARE_BASE_URL"`
}

// Default returns sane defaults. Credentials have no default and must come
// from the file or the environment.
func Default() *Config {
	return &Config{
		Listen:      ":8080",
		DBPath:      "paperdigest.db",
		MaxFiles:    2,
		MaxFileMB:   10,
		Concurrency: 2,
		Cloudflare: Cloudflare{
			Model: "@cf/meta/llama-3.1-8b-instruct",
		},
	}
}

// Load builds the configuration: defaults, overlaid by the YAML file at
// path (if path is non-empty), overlaid by environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Cloudflare.AccountID == "" {
		return fmt.Errorf("cloudflare account_id is required (CLOUDFLARE_ACCOUNT_ID)")
	}
	if c.Cloudflare.APIToken == "" {
		return fmt.Errorf("cloudflare api_token is required (CLOUDFLARE_API_TOKEN)")
	}
	if c.Cloudflare.Model == "" {
		return fmt.Errorf("cloudflare model is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be > 0")
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	return nil
}

// MaxFileBytes returns the per-file size cap in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }

// RequestBodyLimit returns the whole-request cap: every file at the size
// limit plus headroom for multipart framing and form fields.
func (c *Config) RequestBodyLimit() int64 {
	return int64(c.MaxFiles)*c.MaxFileBytes() + 1<<20
}
