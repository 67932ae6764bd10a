package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geomatch/internal/journal"
)

const testHistory = `{
  "locations": [
    {"timestampMs": "1000000", "latitudeE7": 100000000, "longitudeE7": 200000000},
    {"timestampMs": "2000000", "latitudeE7": 110000000, "longitudeE7": 210000000},
    {"timestampMs": "5000000", "latitudeE7": 120000000, "longitudeE7": 220000000}
  ]
}`

type testEnv struct {
	configPath   string
	dataDir      string
	historyPath  string
	manifestPath string
}

func newTestEnv(t *testing.T, manifest string) testEnv {
	t.Helper()
	t.Setenv("GEOMATCH_HISTORY", "")
	base := t.TempDir()
	env := testEnv{
		configPath:   filepath.Join(base, "config.toml"),
		dataDir:      filepath.Join(base, "data"),
		historyPath:  filepath.Join(base, "history.json"),
		manifestPath: filepath.Join(base, "photos.csv"),
	}

	writeFile(t, env.historyPath, testHistory)
	writeFile(t, env.manifestPath, manifest)
	writeFile(t, env.configPath, fmt.Sprintf(`
[paths]
data_dir = %q
log_dir = %q

[logging]
level = "error"
`, env.dataDir, filepath.Join(base, "logs")))

	return env
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunCommandEndToEnd(t *testing.T) {
	env := newTestEnv(t, "id,taken_at\nIMG_A,1900000\nIMG_B,100000000\n")

	out, err := execute(t,
		"--config", env.configPath,
		"run", "--history", env.historyPath, "--manifest", env.manifestPath, "--max-delta", "120")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Matched 1 of 2 events (threshold 120s)") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "IMG_A") || !strings.Contains(out, "100") {
		t.Fatalf("missing match row:\n%s", out)
	}

	store, err := journal.Open(env.dataDir)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 journaled run, got %d", len(runs))
	}
	if runs[0].EventsTotal != 2 || runs[0].EventsMatched != 1 {
		t.Fatalf("unexpected run counts: %+v", runs[0])
	}

	matches, err := store.RunMatches(context.Background(), runs[0].ID)
	if err != nil {
		t.Fatalf("RunMatches failed: %v", err)
	}
	if len(matches) != 1 || matches[0].EventID != "IMG_A" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
	if matches[0].Latitude != 11 || matches[0].Longitude != 21 || matches[0].DeltaSeconds != 100 {
		t.Fatalf("unexpected match detail: %+v", matches[0])
	}
}

func TestRunCommandThresholdExcludesBoundary(t *testing.T) {
	env := newTestEnv(t, "IMG_A,1900000\n")

	// Delta is exactly 100 s; a threshold of 100 must be a miss.
	out, err := execute(t,
		"--config", env.configPath,
		"run", "--history", env.historyPath, "--manifest", env.manifestPath, "--max-delta", "100")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Matched 0 of 1 events") {
		t.Fatalf("expected boundary miss:\n%s", out)
	}
}

func TestRunCommandDryRunSkipsJournal(t *testing.T) {
	env := newTestEnv(t, "IMG_A,1900000\n")

	out, err := execute(t,
		"--config", env.configPath,
		"run", "--history", env.historyPath, "--manifest", env.manifestPath,
		"--max-delta", "120", "--dry-run")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}

	store, err := journal.Open(env.dataDir)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer store.Close()
	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("dry run must not journal, got %d runs", len(runs))
	}
}

func TestRunCommandRequiresHistory(t *testing.T) {
	env := newTestEnv(t, "IMG_A,1900000\n")

	_, err := execute(t,
		"--config", env.configPath,
		"run", "--manifest", env.manifestPath)
	if err == nil || !strings.Contains(err.Error(), "no location history") {
		t.Fatalf("expected missing history error, got %v", err)
	}
}

func TestRunCommandEmptyHistoryFails(t *testing.T) {
	env := newTestEnv(t, "IMG_A,1900000\n")
	writeFile(t, env.historyPath, `{"locations": []}`)

	_, err := execute(t,
		"--config", env.configPath,
		"run", "--history", env.historyPath, "--manifest", env.manifestPath)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty index error, got %v", err)
	}
}

func TestHistoryInfoCommand(t *testing.T) {
	env := newTestEnv(t, "IMG_A,1900000\n")

	out, err := execute(t,
		"--config", env.configPath,
		"history", "info", "--history", env.historyPath)
	if err != nil {
		t.Fatalf("history info failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Records: 3") {
		t.Fatalf("missing record count:\n%s", out)
	}
	if !strings.Contains(out, "Earliest: 1970-01-01T00:16:40Z") {
		t.Fatalf("missing earliest record:\n%s", out)
	}
	if !strings.Contains(out, "Latest: 1970-01-01T01:23:20Z") {
		t.Fatalf("missing latest record:\n%s", out)
	}
}

func TestRunsCommandsRoundTrip(t *testing.T) {
	env := newTestEnv(t, "IMG_A,1900000\n")

	out, err := execute(t,
		"--config", env.configPath,
		"run", "--history", env.historyPath, "--manifest", env.manifestPath, "--max-delta", "120")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}

	out, err = execute(t, "--config", env.configPath, "runs", "list")
	if err != nil {
		t.Fatalf("runs list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "MATCHED") {
		t.Fatalf("unexpected runs list output:\n%s", out)
	}

	store, err := journal.Open(env.dataDir)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 1)
	store.Close()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one run: %v %d", err, len(runs))
	}

	out, err = execute(t, "--config", env.configPath, "runs", "show", runs[0].ID)
	if err != nil {
		t.Fatalf("runs show failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Matched: 1 of 1 events") || !strings.Contains(out, "IMG_A") {
		t.Fatalf("unexpected runs show output:\n%s", out)
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite must refuse.
	if _, err := execute(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
