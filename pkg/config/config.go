package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/querylens-ai/querylens/pkg/cache/redis"
	"github.com/querylens-ai/querylens/pkg/llm"
)

// Config holds all querylens configuration.
type Config struct {
	Listen string       `yaml:"listen"`
	LLM    llm.Config   `yaml:"llm"`
	Cache  CacheConfig  `yaml:"cache"`
	Rules  []RuleConfig `yaml:"rules"`
}

// CacheConfig controls the query result cache.
// Backend is "redis" (default) or "sqlite".
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   redis.Config  `yaml:"redis"`
	DBPath  string        `yaml:"db_path"`
}

// RuleConfig declares an extra edge-case override rule. Either Query (exact
// normalized match) or Contains (all substrings present) selects the rule.
type RuleConfig struct {
	Query    string   `yaml:"query"`
	Contains []string `yaml:"contains"`
	ItemType string   `yaml:"item_type"`
	Material string   `yaml:"material"`
	Color    string   `yaml:"color"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: ":8000",
		LLM: llm.Config{
			BaseURL:   "http://localhost:11434/v1",
			Model:     "Qwen/Qwen2-0.5B-Instruct",
			Timeout:   60 * time.Second,
			MaxTokens: 100,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "redis",
			TTL:     time.Hour,
			Redis:   redis.Config{Addr: "localhost:6379"},
			DBPath:  "querylens.db",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
