package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != ":8000" {
		t.Errorf("expected :8000, got %s", cfg.Listen)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("expected redis backend, got %s", cfg.Cache.Backend)
	}
	if cfg.LLM.MaxTokens != 100 {
		t.Errorf("expected 100 max tokens, got %d", cfg.LLM.MaxTokens)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test-123")

	content := `
listen: ":9090"
llm:
  base_url: https://inference.internal/v1
  api_key: ${TEST_API_KEY}
  model: Qwen/Qwen2-0.5B-Instruct
  timeout: 30s
cache:
  enabled: true
  backend: sqlite
  ttl: 30m
  db_path: test.db
rules:
  - contains: [velvet, ottoman]
    item_type: ottoman
    material: velvet
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Listen)
	}
	if cfg.LLM.APIKey != "sk-test-123" {
		t.Errorf("env var not expanded: got %s", cfg.LLM.APIKey)
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.LLM.Timeout)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %s", cfg.Cache.Backend)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].ItemType != "ottoman" {
		t.Errorf("rules not loaded: %+v", cfg.Rules)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
