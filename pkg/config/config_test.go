package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_STT_KEY", "secret-key")
	path := writeConfig(t, `
session:
  language: en-US
  sample_rate: 48000
credentials:
  api_key: ${TEST_STT_KEY}
  folder_id: b1gfolder
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Credentials.APIKey != "secret-key" {
		t.Fatalf("expected env expansion, got %q", cfg.Credentials.APIKey)
	}
	if cfg.Session.Language != "en-US" || cfg.Session.SampleRate != 48000 {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	// Omitted keys fall back to defaults.
	if cfg.Session.Model != "general" {
		t.Fatalf("expected default model, got %q", cfg.Session.Model)
	}
	if !cfg.Session.InterimResults {
		t.Fatalf("expected interim results enabled by default")
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelayMS != 1000 || cfg.Retry.MaxDelayMS != 10000 {
		t.Fatalf("unexpected retry defaults: %+v", cfg.Retry)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected logging defaults: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadCredentialsFromEnvFallback(t *testing.T) {
	t.Setenv("YANDEX_API_KEY", "env-key")
	t.Setenv("YANDEX_FOLDER_ID", "env-folder")
	path := writeConfig(t, `
session:
  language: ru-RU
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Credentials.APIKey != "env-key" || cfg.Credentials.FolderID != "env-folder" {
		t.Fatalf("expected env fallback, got %+v", cfg.Credentials)
	}
}

func TestLoadRejectsInvalidSession(t *testing.T) {
	path := writeConfig(t, `
session:
  sample_rate: 44100
credentials:
  api_key: key
  folder_id: folder
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unsupported sample rate")
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	t.Setenv("YANDEX_API_KEY", "")
	t.Setenv("YANDEX_FOLDER_ID", "")
	path := writeConfig(t, `
session:
  language: ru-RU
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected credential validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
