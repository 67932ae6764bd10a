package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"geomatch/internal/history"
	"geomatch/internal/journal"
	"geomatch/internal/logging"
	"geomatch/internal/manifest"
	"geomatch/internal/match"
	"geomatch/internal/takeout"
)

func newRunCommand(cctx *commandContext) *cobra.Command {
	var historyFlag string
	var manifestFlag string
	var maxDelta int64
	var workers int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Match manifest events against the location history",
		Long: `Build a nearest-timestamp index over the location history export, then
match every event in the manifest against it. Matches within the threshold are
printed and recorded in the run journal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cctx.ensureLogger()
			if err != nil {
				return err
			}
			log := logging.WithComponent(logger, "run")

			historyPath := firstNonEmpty(historyFlag, cfg.Paths.HistoryFile)
			if historyPath == "" {
				return errors.New("no location history: set --history, paths.history_file, or GEOMATCH_HISTORY")
			}
			manifestPath := firstNonEmpty(manifestFlag, cfg.Paths.ManifestFile)
			if manifestPath == "" {
				return errors.New("no event manifest: set --manifest or paths.manifest_file")
			}

			threshold := cfg.Match.MaxDeltaSeconds
			if maxDelta > 0 {
				threshold = maxDelta
			}
			poolSize := cfg.Match.Workers
			if workers > 0 {
				poolSize = workers
			}

			raw, err := takeout.DecodeFile(historyPath)
			if err != nil {
				return fmt.Errorf("load location history: %w", err)
			}
			index, err := history.Build(raw)
			if err != nil {
				return fmt.Errorf("index location history: %w", err)
			}
			log.Info("loaded location history", "file", historyPath, "records", index.Len())
			if earliest, ok := index.Earliest(); ok {
				latest, _ := index.Latest()
				log.Info("history range", "earliest", earliest.Time(), "latest", latest.Time())
			}

			events, err := manifest.ReadFile(manifestPath)
			if err != nil {
				return fmt.Errorf("load event manifest: %w", err)
			}
			log.Info("loaded event manifest", "file", manifestPath, "events", len(events))

			matcher := match.New(index)
			outcomes, err := matcher.RunBatch(cmd.Context(), events, threshold, poolSize)
			if err != nil {
				return fmt.Errorf("match events: %w", err)
			}
			matched := match.CountMatched(outcomes)

			out := cmd.OutOrStdout()
			if rows := matchedRows(outcomes); len(rows) > 0 {
				headers := []string{"EVENT", "TAKEN AT", "LATITUDE", "LONGITUDE", "DELTA (S)"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
			}
			fmt.Fprintf(out, "Matched %d of %d events (threshold %ds)\n", matched, len(events), threshold)
			if skipped := coordinatelessMatches(outcomes); skipped > 0 {
				fmt.Fprintf(out, "%d matched records carry no coordinate and were skipped\n", skipped)
			}

			if dryRun {
				log.Info("dry run, journal not updated")
				return nil
			}

			release, err := journal.Lock(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			defer release()

			store, err := journal.Open(cfg.Paths.DataDir)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			run, err := store.BeginRun(cmd.Context(), historyPath, manifestPath, threshold)
			if err != nil {
				return fmt.Errorf("journal run: %w", err)
			}
			if err := store.AddMatches(cmd.Context(), run.ID, journalMatches(outcomes)); err != nil {
				return fmt.Errorf("journal matches: %w", err)
			}
			if err := store.FinishRun(cmd.Context(), run.ID, len(events), matched); err != nil {
				return fmt.Errorf("finish journal run: %w", err)
			}
			log.Info("run recorded", "run_id", run.ID, "matched", matched, "events", len(events))
			return nil
		},
	}

	cmd.Flags().StringVar(&historyFlag, "history", "", "Location history JSON export")
	cmd.Flags().StringVar(&manifestFlag, "manifest", "", "Event manifest CSV")
	cmd.Flags().Int64Var(&maxDelta, "max-delta", 0, "Acceptance threshold in seconds (match must be strictly below)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent match workers")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match and report without updating the run journal")

	return cmd
}

func matchedRows(outcomes []match.Outcome) [][]string {
	var rows [][]string
	for _, o := range outcomes {
		if !o.Result.Matched {
			continue
		}
		lat, lon := "-", "-"
		if o.Result.Record.HasCoordinate {
			lat = formatCoordinate(o.Result.Record.Latitude)
			lon = formatCoordinate(o.Result.Record.Longitude)
		}
		rows = append(rows, []string{
			o.Event.ID,
			eventTime(o.Event),
			lat,
			lon,
			strconv.FormatInt(o.Result.DeltaSeconds, 10),
		})
	}
	return rows
}

func journalMatches(outcomes []match.Outcome) []journal.Match {
	var matches []journal.Match
	for _, o := range outcomes {
		if !o.Result.Matched {
			continue
		}
		matches = append(matches, journal.Match{
			EventID:       o.Event.ID,
			Latitude:      o.Result.Record.Latitude,
			Longitude:     o.Result.Record.Longitude,
			HasCoordinate: o.Result.Record.HasCoordinate,
			DeltaSeconds:  o.Result.DeltaSeconds,
		})
	}
	return matches
}

func coordinatelessMatches(outcomes []match.Outcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Result.Matched && !o.Result.Record.HasCoordinate {
			count++
		}
	}
	return count
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
