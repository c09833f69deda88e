package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		Port:           "8080",
		FetchProfile:   "./fetch.yml",
		DownloadDir:    "./downloads",
		APIAccessKey:   "test-key",
		ExportDelayMs:  200,
		GroupByProduct: true,
		CacheEnabled:   true,
		CachePath:      "./cache.db",
		CacheTTL:       900,
		UserAgent:      "Test Agent",
		Timezone:       "UTC",
		Debug:          true,
		Version:        "test-version",
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.FetchProfile != "./fetch.yml" {
		t.Errorf("Expected fetch profile './fetch.yml', got '%s'", cfg.FetchProfile)
	}
	if cfg.DownloadDir != "./downloads" {
		t.Errorf("Expected download dir './downloads', got '%s'", cfg.DownloadDir)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.ExportDelayMs != 200 {
		t.Errorf("Expected export delay 200, got %d", cfg.ExportDelayMs)
	}
	if !cfg.GroupByProduct {
		t.Error("Expected group-by-product to be enabled")
	}
	if !cfg.CacheEnabled {
		t.Error("Expected cache to be enabled")
	}
	if cfg.CacheTTL != 900 {
		t.Errorf("Expected cache TTL 900, got %d", cfg.CacheTTL)
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected UTC to be valid: %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected an error for an invalid timezone")
	}
}
