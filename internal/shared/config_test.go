package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./ghshelf.db" {
			t.Errorf("expected database path ./ghshelf.db, got %s", config.Database.Path)
		}

		if config.GitHub.BaseURL != "https://api.github.com" {
			t.Errorf("expected GitHub base URL, got %s", config.GitHub.BaseURL)
		}

		if config.GitHub.PageSize != 100 {
			t.Errorf("expected page size 100, got %d", config.GitHub.PageSize)
		}

		if config.Seed.DataPath != "./data.json" {
			t.Errorf("expected seed data path ./data.json, got %s", config.Seed.DataPath)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[github]
base_url = "http://localhost:9090"
page_size = 2
requests_per_second = 1.0

[seed]
data_path = "/seeds/data.json"
settings_path = "/seeds/settings.json"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected custom database path, got %s", config.Database.Path)
		}
		if config.GitHub.PageSize != 2 {
			t.Errorf("expected page size 2, got %d", config.GitHub.PageSize)
		}
		if config.Seed.SettingsPath != "/seeds/settings.json" {
			t.Errorf("expected custom settings seed path, got %s", config.Seed.SettingsPath)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfig invalid TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "bad.toml")
		if err := os.WriteFile(configPath, []byte("[[["), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}
