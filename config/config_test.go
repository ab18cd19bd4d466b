package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gear6io/lakecat/pkg/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lakecat.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaultConfig(t *testing.T) {
	cfg := LoadDefaultConfig()
	if cfg.Catalog.Type != "sqlite" {
		t.Errorf("Expected default catalog type sqlite, got %s", cfg.Catalog.Type)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: debug
  console: true
catalog:
  name: prod
  type: rest
  root: s3://bucket/warehouse
  properties:
    endpoint: http://catalog.internal:8181
    auth_token: secret
    max_retries: "5"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Catalog.Name != "prod" || cfg.Catalog.Type != "rest" {
		t.Errorf("Catalog section not parsed: %+v", cfg.Catalog)
	}
	if cfg.Catalog.Properties.GetString(PropEndpoint, "") != "http://catalog.internal:8181" {
		t.Errorf("Properties not parsed: %v", cfg.Catalog.Properties)
	}
	retries, err := cfg.Catalog.Properties.GetInt(PropMaxRetries, 0)
	if err != nil || retries != 5 {
		t.Errorf("Expected max_retries 5, got %d, %v", retries, err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/lakecat.yml")
	if !errors.Is(err, ErrConfigFileReadFailed) {
		t.Errorf("Expected file read failure, got %v", err)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfigFile(t, "catalog: [not a mapping")
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrConfigFileParseFailed) {
		t.Errorf("Expected parse failure, got %v", err)
	}
}

func TestLoadConfigRequiresCatalogType(t *testing.T) {
	path := writeConfigFile(t, `
catalog:
  root: ./data
`)
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrConfigValidationFailed) {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestPropertiesTypedAccess(t *testing.T) {
	props := Properties{
		"pool_size":          "4",
		"connect_timeout_ms": "2500",
		"bad_int":            "four",
	}

	if got := props.GetString("missing", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}

	n, err := props.GetInt("pool_size", 1)
	if err != nil || n != 4 {
		t.Errorf("Expected 4, got %d, %v", n, err)
	}
	n, err = props.GetInt("missing", 7)
	if err != nil || n != 7 {
		t.Errorf("Expected default 7, got %d, %v", n, err)
	}

	// Malformed values fail fast instead of silently defaulting
	_, err = props.GetInt("bad_int", 1)
	if !errors.Is(err, ErrPropertyInvalid) {
		t.Errorf("Expected property invalid, got %v", err)
	}

	d, err := props.GetMillis("connect_timeout_ms", time.Second)
	if err != nil || d != 2500*time.Millisecond {
		t.Errorf("Expected 2.5s, got %v, %v", d, err)
	}
	d, err = props.GetMillis("missing", time.Second)
	if err != nil || d != time.Second {
		t.Errorf("Expected default 1s, got %v, %v", d, err)
	}
}

func TestPropertiesClone(t *testing.T) {
	props := Properties{"k": "v"}
	clone := props.Clone()
	clone["k"] = "changed"
	if props["k"] != "v" {
		t.Error("Clone shares storage with the original")
	}
}
