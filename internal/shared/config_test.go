package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Fallback.Path != "./mytunes_local.db" {
			t.Errorf("expected fallback path ./mytunes_local.db, got %s", config.Fallback.Path)
		}

		if config.Primary.Driver != "postgres" {
			t.Errorf("expected primary driver postgres, got %s", config.Primary.Driver)
		}

		if config.Primary.Enabled() {
			t.Error("expected default primary to be disabled (empty dsn)")
		}

		if config.LogLevel() != log.InfoLevel {
			t.Errorf("expected info log level, got %v", config.LogLevel())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
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
		if config.Fallback.Path != defaultConfig.Fallback.Path {
			t.Errorf("created config fallback path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[primary]
driver = "mysql"
dsn = "tunes:secret@tcp(db.local:3306)/mytunes?parseTime=true"
max_open_conns = 20
max_idle_conns = 10

[fallback]
path = "/custom/local.db"

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Fallback.Path != "/custom/local.db" {
			t.Errorf("expected fallback path /custom/local.db, got %s", config.Fallback.Path)
		}

		if !config.Primary.Enabled() {
			t.Error("expected primary to be enabled")
		}

		dialect, err := config.Primary.Dialect()
		if err != nil {
			t.Fatalf("unexpected dialect error: %v", err)
		}
		if dialect != MySQL {
			t.Errorf("expected mysql dialect, got %s", dialect)
		}

		if config.Primary.MaxOpenConns != 20 {
			t.Errorf("expected max_open_conns 20, got %d", config.Primary.MaxOpenConns)
		}

		if config.LogLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", config.LogLevel())
		}
	})

	t.Run("LoadConfig Partial Keeps Defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[log]\nlevel = \"warn\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Fallback.Path != "./mytunes_local.db" {
			t.Errorf("expected default fallback path, got %s", config.Fallback.Path)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		tc := map[string]string{
			"unknown driver": "[primary]\ndriver = \"oracle\"\ndsn = \"x\"\n",
			"empty fallback": "[fallback]\npath = \"\"\n",
			"bad log level":  "[log]\nlevel = \"loud\"\n",
		}
		for name, body := range tc {
			t.Run(name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(body), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}
				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
