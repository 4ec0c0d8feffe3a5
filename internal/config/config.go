// Package config loads and validates the repoexplain configuration.
// Configuration comes from an optional YAML file with environment-variable
// expansion; a .env file is loaded first so that ${OPENAI_API_KEY} style
// references resolve.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Model      string           `yaml:"model"`
	Limits     LimitsConfig     `yaml:"limits"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Tools      ToolsConfig      `yaml:"tools"`
	Cache      CacheConfig      `yaml:"cache"`
	GitHub     GitHubConfig     `yaml:"github"`
	Pricing    map[string]Price `yaml:"pricing,omitempty"`
}

// LimitsConfig bounds how much repository content is extracted.
type LimitsConfig struct {
	MaxFileSizeMB  int `yaml:"max_file_size_mb"`
	MaxTotalSizeMB int `yaml:"max_total_size_mb"`
}

// ThresholdsConfig holds the confirmation-gate and advisory thresholds.
type ThresholdsConfig struct {
	LargeRepoMB        float64 `yaml:"large_repo_mb"`
	CostCents          float64 `yaml:"cost_cents"`
	RateLimitWarnBelow int     `yaml:"rate_limit_warn_below"`
}

// ToolsConfig names the external CLI tools the pipeline shells out to.
type ToolsConfig struct {
	Generator string `yaml:"generator"` // markdown-producing LLM CLI
	Renderer  string `yaml:"renderer"`  // terminal markdown renderer
}

// CacheConfig controls the SQLite cache for GitHub API responses.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
	TTL     string `yaml:"ttl,omitempty"` // Go duration, e.g. "1h"
}

// GitHubConfig holds GitHub API settings. The token defaults to GITHUB_TOKEN.
type GitHubConfig struct {
	Token  string `yaml:"token,omitempty"`
	APIURL string `yaml:"api_url,omitempty"`
}

// Price is the per-1K-token price-table entry for a model.
type Price struct {
	InputPer1K  float64 `yaml:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k"`
}

// DefaultPricing returns the built-in price table. Models without an entry
// fall back to the gpt-4o row.
func DefaultPricing() map[string]Price {
	return map[string]Price{
		"gpt-4o":      {InputPer1K: 0.005, OutputPer1K: 0.015},
		"gpt-4o-mini": {InputPer1K: 0.00015, OutputPer1K: 0.0006},
		"gpt-4-turbo": {InputPer1K: 0.01, OutputPer1K: 0.03},
	}
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified file. A missing file is not an
// error: defaults apply. The .env file (if any) is loaded first, then ${VAR}
// references in the YAML are expanded from the environment.
func Load(configPath string) (*Config, error) {
	// Loading .env is best effort; absence is normal.
	_ = godotenv.Load()

	config := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if os.IsNotExist(err) {
				config.applyDefaults()
				return config, nil
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.Limits.MaxFileSizeMB <= 0 {
		c.Limits.MaxFileSizeMB = 1
	}
	if c.Limits.MaxTotalSizeMB <= 0 {
		c.Limits.MaxTotalSizeMB = 50
	}
	if c.Thresholds.LargeRepoMB <= 0 {
		c.Thresholds.LargeRepoMB = 100
	}
	if c.Thresholds.CostCents <= 0 {
		c.Thresholds.CostCents = 5
	}
	if c.Thresholds.RateLimitWarnBelow <= 0 {
		c.Thresholds.RateLimitWarnBelow = 5
	}
	if c.Tools.Generator == "" {
		c.Tools.Generator = "mods"
	}
	if c.Tools.Renderer == "" {
		c.Tools.Renderer = "glow"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "1h"
	}
	if c.GitHub.Token == "" {
		c.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = "https://api.github.com"
	}
	if c.Pricing == nil {
		c.Pricing = DefaultPricing()
	} else {
		// Merge built-in rows the user did not override.
		for model, price := range DefaultPricing() {
			if _, ok := c.Pricing[model]; !ok {
				c.Pricing[model] = price
			}
		}
	}
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Limits.MaxFileSizeMB > c.Limits.MaxTotalSizeMB {
		return fmt.Errorf("limits: max_file_size_mb (%d) exceeds max_total_size_mb (%d)",
			c.Limits.MaxFileSizeMB, c.Limits.MaxTotalSizeMB)
	}
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	return nil
}

// PriceFor returns the price-table entry for a model, falling back to gpt-4o.
func (c *Config) PriceFor(model string) Price {
	if p, ok := c.Pricing[model]; ok {
		return p
	}
	return c.Pricing["gpt-4o"]
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Default()
	example.GitHub.Token = "${GITHUB_TOKEN}"
	example.Cache.Enabled = true

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# repoexplain configuration\n# Values of the form ${VAR} are expanded from the environment (.env is loaded).\n")
	if err := os.WriteFile(configPath, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
