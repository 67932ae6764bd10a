package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"geomatch/internal/journal"
)

func newRunsCommand(cctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded matcher runs",
	}
	runsCmd.AddCommand(newRunsListCommand(cctx))
	runsCmd.AddCommand(newRunsShowCommand(cctx))
	return runsCmd
}

func newRunsListCommand(cctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg.Paths.DataDir)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			headers := []string{"RUN", "STARTED", "THRESHOLD (S)", "EVENTS", "MATCHED"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					formatTime(run.StartedAt),
					strconv.FormatInt(run.MaxDeltaSeconds, 10),
					strconv.Itoa(run.EventsTotal),
					strconv.Itoa(run.EventsMatched),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newRunsShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its matched events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg.Paths.DataDir)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run: %s\n", run.ID)
			fmt.Fprintf(out, "Started: %s\n", formatTime(run.StartedAt))
			if run.FinishedAt != nil {
				fmt.Fprintf(out, "Finished: %s\n", formatTime(*run.FinishedAt))
			}
			fmt.Fprintf(out, "History: %s\n", run.HistoryFile)
			fmt.Fprintf(out, "Manifest: %s\n", run.ManifestFile)
			fmt.Fprintf(out, "Threshold: %ds\n", run.MaxDeltaSeconds)
			fmt.Fprintf(out, "Matched: %d of %d events\n", run.EventsMatched, run.EventsTotal)

			matches, err := store.RunMatches(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return nil
			}

			headers := []string{"EVENT", "LATITUDE", "LONGITUDE", "DELTA (S)"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight}
			rows := make([][]string, 0, len(matches))
			for _, m := range matches {
				lat, lon := "-", "-"
				if m.HasCoordinate {
					lat = formatCoordinate(m.Latitude)
					lon = formatCoordinate(m.Longitude)
				}
				rows = append(rows, []string{m.EventID, lat, lon, strconv.FormatInt(m.DeltaSeconds, 10)})
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
}
