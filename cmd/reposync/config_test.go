package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cfg.Database.Driver, "sqlite"; got != want {
		t.Errorf("got driver %q, want %q", got, want)
	}
	if got, want := cfg.Sync.Interval, 24*time.Hour; got != want {
		t.Errorf("got interval %v, want %v", got, want)
	}
	if got, want := cfg.Script.Timeout, 2*time.Minute; got != want {
		t.Errorf("got timeout %v, want %v", got, want)
	}
	if !cfg.Database.Migrate {
		t.Error("migrations disabled by default")
	}
	provided, err := cfg.provided()
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := provided["xbmc.python"]; !ok || v.String() != "3.0.1" {
		t.Errorf("got xbmc.python %v (%v), want 3.0.1", v, ok)
	}
}

func TestConfigLayers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	const file = `
log:
  level: debug
database:
  driver: postgres
  dsn: host=db
sync:
  interval: 1h
  batch: 2
  provides:
    - xbmc.python@3.0.0
`
	if err := os.WriteFile(filepath.Join(dir, defaultConfigFile), []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REPOSYNC_SYNC_BATCH", "8")
	t.Setenv("REPOSYNC_DATABASE_MIGRATE", "false")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cfg.Log.Level, "debug"; got != want {
		t.Errorf("got level %q, want %q", got, want)
	}
	if got, want := cfg.Database.DSN, "host=db"; got != want {
		t.Errorf("got dsn %q, want %q", got, want)
	}
	if got, want := cfg.Sync.Interval, time.Hour; got != want {
		t.Errorf("got interval %v, want %v", got, want)
	}
	if got, want := cfg.Sync.Batch, 8; got != want {
		t.Errorf("got batch %d, want %d", got, want)
	}
	if cfg.Database.Migrate {
		t.Error("environment didn't override migrate")
	}
	provided, err := cfg.provided()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(provided), 1; got != want {
		t.Errorf("got %d provided modules, want %d", got, want)
	}
	// Untouched keys keep their defaults.
	if got, want := cfg.Prompt.Language, "en"; got != want {
		t.Errorf("got language %q, want %q", got, want)
	}
}

func TestConfigErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := loadConfig("missing.yaml"); err == nil {
		t.Error("expected error for a missing explicit file")
	}
	for k, v := range map[string]string{
		"REPOSYNC_DATABASE_DRIVER": "mysql",
		"REPOSYNC_PROMPT_ASSUME":   "maybe",
		"REPOSYNC_SYNC_BATCH":      "0",
		"REPOSYNC_LOG_LEVEL":       "loud",
		"REPOSYNC_SYNC_PROVIDES":   "xbmc.python",
	} {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := loadConfig(""); err == nil {
				t.Errorf("expected error for %s=%s", k, v)
			}
		})
	}
}
