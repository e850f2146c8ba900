package cli

import (
	"fmt"
	"log/slog"

	"al.essio.dev/pkg/shellescape"
	"github.com/babarot/dlsort/internal/executor"
	"github.com/babarot/dlsort/internal/sorter"
	"github.com/babarot/dlsort/internal/ui"
	"github.com/fatih/color"
)

func (c *CLI) Sort() error {
	slog.Debug("cli.sort started")
	defer slog.Debug("cli.sort finished")

	dir, err := c.targetDir()
	if err != nil {
		return err
	}

	report, err := c.sorter.Sort(dir, sorter.SortOptions{
		DryRun: c.option.DryRun,
		Confirm: func(r sorter.SortReport) bool {
			c.printPlan(r)
			if c.option.Yes {
				return true
			}
			fmt.Fprintln(c.stdout)
			return c.confirm("Proceed with moving these files?")
		},
	})
	if err != nil {
		return err
	}

	switch {
	case len(report.Plan) == 0:
		fmt.Fprintln(c.stdout, "No top-level files found to organize.")
		return nil

	case report.DryRun:
		c.printPlan(report)
		fmt.Fprintln(c.stdout)
		fmt.Fprintln(c.stdout, "DRY RUN: No files were moved.")
		fmt.Fprintf(c.stdout, "Journal would be: %s\n", report.JournalPath)
		return nil

	case report.Cancelled:
		fmt.Fprintln(c.stdout, "Cancelled. No files were moved.")
		return nil
	}

	green := color.New(color.FgHiGreen).SprintFunc()
	fmt.Fprintln(c.stdout)
	fmt.Fprintf(c.stdout, "Done. Moved %s files.", green(report.Moved))
	if report.Failed > 0 {
		fmt.Fprintf(c.stdout, " %s", color.YellowString("%d failed.", report.Failed))
	}
	fmt.Fprintln(c.stdout)
	fmt.Fprintf(c.stdout, "Journal saved to:\n%s\n\n", report.JournalPath)
	fmt.Fprintf(c.stdout, "To undo: %s --undo %s\n", c.version.AppName, shellescape.Quote(report.JournalPath))
	return nil
}

func (c *CLI) printPlan(r sorter.SortReport) {
	fmt.Fprintf(c.stdout, "Downloads folder: %s\n", r.Root)
	fmt.Fprintf(c.stdout, "Files to move (top-level only): %d\n\n", len(r.Plan))
	ui.PrintPlan(c.stdout, r.Root, r.Plan, c.config.Core.PreviewLimit)
}

// reportResult prints failures as they happen, and every move when verbose
func (c *CLI) reportResult(r executor.Result) {
	switch {
	case r.Err != nil:
		color.New(color.FgYellow).Fprintf(c.stderr, "ERROR moving %s: %v\n", r.Action.Name(), r.Err)
	case c.config.Core.Verbose:
		fmt.Fprintf(c.stdout, "moved '%s' -> '%s'\n", r.Action.Source, r.Action.Destination)
	}
}
