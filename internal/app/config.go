package app

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBase    string `yaml:"api_base"`
	TimeoutSec int    `yaml:"timeout_sec"`
	Theme      string `yaml:"theme"`
}

func DefaultConfig() Config {
	return Config{
		APIBase:    "http://localhost:8000",
		TimeoutSec: 60,
	}
}

// LoadConfig reads the YAML config at path, then applies .env and environment
// overrides. A missing file is not an error; defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	// Best-effort .env from the working directory, same as the backend does.
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("OPSCTL_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("OPSCTL_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSec = n
		}
	}
	if v := os.Getenv("OPSCTL_THEME"); v != "" {
		cfg.Theme = v
	}

	if cfg.APIBase == "" {
		cfg.APIBase = "http://localhost:8000"
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 60
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "opsctl", "config.yml")
}
