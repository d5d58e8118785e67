package config

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	// No configs/ directory exists under the package when tests run, so the
	// defaults apply in full.
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Links.RoutePrefix != "r" {
		t.Errorf("Links.RoutePrefix = %q, want %q", cfg.Links.RoutePrefix, "r")
	}
	if cfg.Storage.Path != "linklocal.db" {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, "linklocal.db")
	}
	if cfg.Storage.RetentionDays != 7 {
		t.Errorf("Storage.RetentionDays = %d, want 7", cfg.Storage.RetentionDays)
	}
	if cfg.Monitor.IntervalMinutes != 5 {
		t.Errorf("Monitor.IntervalMinutes = %d, want 5", cfg.Monitor.IntervalMinutes)
	}
}

func TestConfig_ShortURL(t *testing.T) {
	var cfg Config
	cfg.Links.BaseURL = "http://localhost/"
	cfg.Links.RoutePrefix = "r"

	if got, want := cfg.ShortURL("promo"), "http://localhost/r/promo"; got != want {
		t.Errorf("ShortURL() = %q, want %q", got, want)
	}
}
