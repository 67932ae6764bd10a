package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geomatch/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Match.MaxDeltaSeconds != 60 {
		t.Fatalf("unexpected default threshold: %d", cfg.Match.MaxDeltaSeconds)
	}
	if cfg.Match.Workers != 4 {
		t.Fatalf("unexpected default workers: %d", cfg.Match.Workers)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
[paths]
history_file = "~/history.json"
manifest_file = "~/photos.csv"

[match]
max_delta_seconds = 120
workers = 8

[logging]
format = "JSON"
level = "Debug"
`)
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: path=%s exists=%v", resolved, exists)
	}
	if cfg.Match.MaxDeltaSeconds != 120 || cfg.Match.Workers != 8 {
		t.Fatalf("unexpected match config: %+v", cfg.Match)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("resolve home: %v", err)
	}
	if cfg.Paths.HistoryFile != filepath.Join(home, "history.json") {
		t.Fatalf("tilde not expanded: %s", cfg.Paths.HistoryFile)
	}
}

func TestLoadHistoryFromEnvironment(t *testing.T) {
	t.Setenv("GEOMATCH_HISTORY", "/exports/Location History.json")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Paths.HistoryFile != "/exports/Location History.json" {
		t.Fatalf("env fallback not applied: %s", cfg.Paths.HistoryFile)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		fragment string
	}{
		{"negative threshold", "[match]\nmax_delta_seconds = -5\n", "max_delta_seconds"},
		{"negative workers", "[match]\nworkers = -1\n", "workers"},
		{"bad log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad log level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.contents)
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("expected error mentioning %q, got %v", tc.fragment, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
