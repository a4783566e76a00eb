package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cleanfolder/internal/category"
	"cleanfolder/internal/workflow"
)

func newRunner(cmd *cobra.Command, ctx *commandContext) (*workflow.Runner, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return workflow.NewRunner(cfg, logger)
}

func runOrganize(cmd *cobra.Command, ctx *commandContext, root string) error {
	runner, err := newRunner(cmd, ctx)
	if err != nil {
		return err
	}

	summary, runErr := runner.Run(cmd.Context(), root)
	if runErr == nil || summary.ManifestPath != "" {
		printSummary(cmd.OutOrStdout(), summary)
	}
	return runErr
}

func printSummary(out io.Writer, summary workflow.Summary) {
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Summary", colorize) {
		fmt.Fprintln(out, line)
	}

	rows := make([][]string, 0, len(category.FileCategories)+2)
	for _, c := range category.FileCategories {
		if c == category.Archives {
			continue
		}
		rows = append(rows, []string{c.String(), strconv.Itoa(summary.Files[c])})
	}
	rows = append(rows,
		[]string{"archives extracted", strconv.Itoa(summary.ArchivesExtracted)},
		[]string{"archives failed", strconv.Itoa(summary.ArchivesFailed)},
		[]string{"folders", strconv.Itoa(summary.Folders)},
		[]string{"empty dirs removed", strconv.Itoa(summary.DirsRemoved)},
		[]string{"bytes moved", humanize.Bytes(uint64(max(summary.BytesMoved, 0)))},
		[]string{"bytes extracted", humanize.Bytes(uint64(max(summary.BytesExtracted, 0)))},
	)
	fmt.Fprintln(out, renderTable([]column{{title: "Item"}, {title: "Count", right: true}}, rows, colorize))

	if len(summary.UnknownExtensions) > 0 {
		fmt.Fprintln(out, renderStatusLine("Unknown", statusInfo, strings.Join(summary.UnknownExtensions, ", "), colorize))
	}
	if summary.ManifestPath != "" {
		fmt.Fprintln(out, renderStatusLine("Manifest", statusOK, summary.ManifestPath, colorize))
	}
	switch {
	case summary.MoveFailures > 0:
		fmt.Fprintln(out, renderStatusLine("Result", statusError, fmt.Sprintf("%d file(s) could not be moved", summary.MoveFailures), colorize))
	case summary.HasWarnings():
		fmt.Fprintln(out, renderStatusLine("Result", statusWarn, "completed with warnings", colorize))
	default:
		fmt.Fprintln(out, renderStatusLine("Result", statusOK, fmt.Sprintf("%d file(s) sorted in %s", summary.TotalMoved(), summary.Duration().Round(time.Millisecond)), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, summary.RunID, colorize))
}

func runPlan(cmd *cobra.Command, ctx *commandContext, root string) error {
	runner, err := newRunner(cmd, ctx)
	if err != nil {
		return err
	}

	plan, err := runner.Plan(cmd.Context(), root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Plan", colorize) {
		fmt.Fprintln(out, line)
	}

	if len(plan.Moves) == 0 {
		fmt.Fprintln(out, "No files to sort")
	} else {
		rows := make([][]string, 0, len(plan.Moves))
		for _, move := range plan.Moves {
			note := ""
			if move.Collision {
				note = "renamed"
			}
			rows = append(rows, []string{
				move.Category.String(),
				relativeTo(plan.Root, move.Source),
				relativeTo(plan.Root, move.Destination),
				note,
			})
		}
		fmt.Fprintln(out, renderTable([]column{{title: "Category"}, {title: "Source"}, {title: "Destination"}, {title: "Note"}}, rows, colorize))
	}

	if len(plan.UnknownExtensions) > 0 {
		fmt.Fprintln(out, renderStatusLine("Unknown", statusInfo, strings.Join(plan.UnknownExtensions, ", "), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Dry run", statusInfo, "nothing changed", colorize))
	return nil
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
