package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIBase != "http://localhost:8000" {
		t.Fatalf("APIBase = %q", cfg.APIBase)
	}
	if cfg.TimeoutSec != 60 {
		t.Fatalf("TimeoutSec = %d", cfg.TimeoutSec)
	}
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := "api_base: https://ops.example.com\ntimeout_sec: 15\ntheme: midnight\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIBase != "https://ops.example.com" || cfg.TimeoutSec != 15 || cfg.Theme != "midnight" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("api_base: https://file.example.com\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OPSCTL_API_BASE", "https://env.example.com")
	t.Setenv("OPSCTL_TIMEOUT_SEC", "5")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIBase != "https://env.example.com" {
		t.Fatalf("APIBase = %q, want env value", cfg.APIBase)
	}
	if cfg.TimeoutSec != 5 {
		t.Fatalf("TimeoutSec = %d, want 5", cfg.TimeoutSec)
	}
}

func TestLoadConfig_BadEnvTimeoutIgnored(t *testing.T) {
	t.Setenv("OPSCTL_TIMEOUT_SEC", "not-a-number")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TimeoutSec != 60 {
		t.Fatalf("TimeoutSec = %d, want default 60", cfg.TimeoutSec)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	want := Config{APIBase: "https://ops.example.com", TimeoutSec: 30, Theme: "porcelain"}
	if err := SaveConfig(want, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}
