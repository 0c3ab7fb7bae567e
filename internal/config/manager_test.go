package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseJSON(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "config.json", `{
		"telegram": {"token": "t", "channel": "-100"},
		"logging": {"level": "info", "console": true, "file": {"enabled": false, "path": ""}},
		"fda": {"limit": 25, "days_back": 7},
		"notify": {"max_per_run": 5},
		"stats": {"cadence": "weekly", "weekday": "Sunday"},
		"scheduler": {"enabled": true, "check_spec": "@every 6h"},
		"storage": {"driver": "file", "path": "./state"}
	}`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Channel != "-100" {
		t.Fatalf("Channel = %q", cfg.Telegram.Channel)
	}
	if cfg.FDA.Limit != 25 || cfg.FDA.DaysBack != 7 {
		t.Fatalf("FDA window = %+v", cfg.FDA)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "file" {
		t.Fatalf("Storage = %+v", cfg.Storage)
	}
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "config.yaml", `
telegram:
  token: t
  channel: "-100"
logging:
  level: debug
  console: true
  file: {enabled: false, path: ""}
fda: {limit: 10, days_back: 0}
notify: {max_per_run: 3}
stats: {cadence: always}
scheduler: {enabled: false, check_spec: ""}
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Stats.Cadence != "always" {
		t.Fatalf("Cadence = %q", cfg.Stats.Cadence)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "config.json", `{"telegrm": {}}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown top-level field")
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationOrDefault("fda.timeout", "", 5)
	if err != nil || d != 5 {
		t.Fatalf("empty duration should default: d=%v err=%v", d, err)
	}
	if _, err := ParseDurationField("fda.timeout", "banana"); err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if _, err := ParseDurationField("fda.timeout", "-3s"); err == nil {
		t.Fatal("expected error for negative duration")
	}
}
