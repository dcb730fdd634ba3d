package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 0},
		Catalog: CatalogConfig{Source: "file", Path: "data/catalog.json"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_UnknownSource(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Source: "sqlite"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown catalog source")
	}

	expected := `catalog.source must be "file" or "redis", got "sqlite"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_MissingRedisAddrs(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Source: "redis", Addrs: []string{}},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing redis addrs")
	}
}

func TestValidate_MissingFilePath(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Source: "file"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing catalog path")
	}
}

func TestValidate_NegativeSearchBounds(t *testing.T) {
	neg := -1
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Source: "file", Path: "data/catalog.json"},
	}
	cfg.Search.MaxResults = &neg

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative max_results")
	}

	cfg.Search.MaxResults = nil
	negScore := -0.5
	cfg.Search.MinScore = &negScore

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative min_score")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Catalog.Source != "file" {
		t.Errorf("expected Source='file', got %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.Key != "shelfrank:catalog" {
		t.Errorf("expected Key='shelfrank:catalog', got %q", cfg.Catalog.Key)
	}
	if cfg.Catalog.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Catalog.ReadinessTimeout)
	}
	if cfg.Tokens.Encoding != "cl100k_base" {
		t.Errorf("expected Encoding='cl100k_base', got %q", cfg.Tokens.Encoding)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Catalog: CatalogConfig{Source: "redis", Key: "custom:catalog", ReadinessTimeout: 15},
		Tokens:  TokensConfig{Encoding: "o200k_base"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Catalog.Source != "redis" {
		t.Errorf("expected Source='redis', got %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.Key != "custom:catalog" {
		t.Errorf("expected Key='custom:catalog', got %q", cfg.Catalog.Key)
	}
	if cfg.Tokens.Encoding != "o200k_base" {
		t.Errorf("expected Encoding='o200k_base', got %q", cfg.Tokens.Encoding)
	}
}
