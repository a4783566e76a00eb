package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cleanfolder/internal/faults"
	"cleanfolder/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return faults.Wrap(faults.ErrConfiguration, "history", "list", "history is disabled (set history.enabled = true)", nil)
			}
			if limit <= 0 {
				return faults.Wrap(faults.ErrValidation, "history", "list", "--limit must be positive", nil)
			}

			store, err := history.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				files := 0
				for _, n := range run.Files {
					files += n
				}
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Root,
					string(run.Status),
					strconv.Itoa(files),
					fmt.Sprintf("%d/%d", run.ArchivesExtracted, run.ArchivesExtracted+run.ArchivesFailed),
					strconv.Itoa(run.DirsRemoved),
					humanize.Bytes(uint64(max(run.BytesMoved, 0))),
				})
			}
			cols := []column{
				{title: "Started"},
				{title: "Root"},
				{title: "Status"},
				{title: "Files", right: true},
				{title: "Archives", right: true},
				{title: "Removed", right: true},
				{title: "Moved", right: true},
			}
			fmt.Fprintln(out, renderTable(cols, rows, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}
