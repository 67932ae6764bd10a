package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"geomatch/internal/history"
	"geomatch/internal/takeout"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Location history utilities",
	}
	historyCmd.AddCommand(newHistoryInfoCommand(cctx))
	return historyCmd
}

func newHistoryInfoCommand(cctx *commandContext) *cobra.Command {
	var historyFlag string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Summarize a location history export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			path := firstNonEmpty(historyFlag, cfg.Paths.HistoryFile)
			if path == "" {
				return errors.New("no location history: set --history, paths.history_file, or GEOMATCH_HISTORY")
			}

			raw, err := takeout.DecodeFile(path)
			if err != nil {
				return fmt.Errorf("load location history: %w", err)
			}
			index, err := history.Build(raw)
			if err != nil {
				return fmt.Errorf("index location history: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s\n", path)
			fmt.Fprintf(out, "Records: %d\n", index.Len())
			if earliest, ok := index.Earliest(); ok {
				latest, _ := index.Latest()
				fmt.Fprintf(out, "Earliest: %s %s\n", formatTime(earliest.Time()), describeCoordinate(earliest))
				fmt.Fprintf(out, "Latest: %s %s\n", formatTime(latest.Time()), describeCoordinate(latest))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&historyFlag, "history", "", "Location history JSON export")
	return cmd
}

func describeCoordinate(rec history.LocationRecord) string {
	if !rec.HasCoordinate {
		return "(no coordinate)"
	}
	return fmt.Sprintf("(%s, %s)", formatCoordinate(rec.Latitude), formatCoordinate(rec.Longitude))
}
