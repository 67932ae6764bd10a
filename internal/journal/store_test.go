package journal_test

import (
	"context"
	"errors"
	"testing"

	"geomatch/internal/journal"
)

func mustOpen(t *testing.T, dir string) *journal.Store {
	t.Helper()
	store, err := journal.Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunRoundTrip(t *testing.T) {
	store := mustOpen(t, t.TempDir())
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/exports/history.json", "/exports/photos.csv", 60)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run ID to be assigned")
	}

	matches := []journal.Match{
		{EventID: "IMG_0001.jpg", Latitude: 37.53, Longitude: -122.05, HasCoordinate: true, DeltaSeconds: 12},
		{EventID: "IMG_0002.jpg", DeltaSeconds: 3},
	}
	if err := store.AddMatches(ctx, run.ID, matches); err != nil {
		t.Fatalf("AddMatches failed: %v", err)
	}
	if err := store.FinishRun(ctx, run.ID, 10, 2); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched.EventsTotal != 10 || fetched.EventsMatched != 2 {
		t.Fatalf("unexpected counts: %+v", fetched)
	}
	if fetched.FinishedAt == nil || fetched.FinishedAt.Before(fetched.StartedAt) {
		t.Fatalf("unexpected finished_at: %+v", fetched.FinishedAt)
	}
	if fetched.HistoryFile != "/exports/history.json" || fetched.MaxDeltaSeconds != 60 {
		t.Fatalf("unexpected run fields: %+v", fetched)
	}

	got, err := store.RunMatches(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunMatches failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if !got[0].HasCoordinate || got[0].Latitude != 37.53 {
		t.Fatalf("unexpected first match: %+v", got[0])
	}
	if got[1].HasCoordinate {
		t.Fatalf("second match should carry no coordinate: %+v", got[1])
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := mustOpen(t, t.TempDir())
	ctx := context.Background()

	first, err := store.BeginRun(ctx, "h", "m", 60)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	second, err := store.BeginRun(ctx, "h", "m", 60)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s then %s", runs[0].ID, runs[1].ID)
	}

	limited, err := store.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns with limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 run, got %d", len(limited))
	}
}

func TestGetRunNotFound(t *testing.T) {
	store := mustOpen(t, t.TempDir())
	if _, err := store.GetRun(context.Background(), "nope"); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if err := store.FinishRun(context.Background(), "nope", 0, 0); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound from FinishRun, got %v", err)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := mustOpen(t, dir)
	run, err := store.BeginRun(ctx, "h", "m", 60)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := mustOpen(t, dir)
	if _, err := reopened.GetRun(ctx, run.ID); err != nil {
		t.Fatalf("expected run to survive reopen: %v", err)
	}
}

func TestLockExcludesSecondHolder(t *testing.T) {
	dir := t.TempDir()
	release, err := journal.Lock(dir)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if _, err := journal.Lock(dir); !errors.Is(err, journal.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	release()
	release() // safe to call twice

	second, err := journal.Lock(dir)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	second()
}
