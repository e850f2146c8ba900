package cli

import (
	"fmt"
	"log/slog"

	"github.com/babarot/dlsort/internal/config"
	"github.com/babarot/dlsort/internal/sorter"
	"github.com/babarot/dlsort/internal/undo"
	"github.com/fatih/color"
)

func (c *CLI) Undo() error {
	slog.Debug("cli.undo started")
	defer slog.Debug("cli.undo finished")

	path, err := c.journalPath()
	if err != nil {
		return err
	}

	report, err := c.sorter.Undo(path, sorter.UndoOptions{
		DryRun: c.option.DryRun,
		Confirm: func(r sorter.UndoReport) bool {
			c.printPending(r)
			if c.option.Yes {
				return true
			}
			fmt.Fprintln(c.stdout)
			return c.confirm("Proceed with UNDO?")
		},
	})
	if err != nil {
		return err
	}

	switch {
	case report.Pending == 0:
		c.printPending(report)
		fmt.Fprintln(c.stdout, "Nothing to undo.")
		return nil

	case report.DryRun:
		c.printPending(report)
		fmt.Fprintln(c.stdout)
		fmt.Fprintln(c.stdout, "DRY RUN: No files were moved.")
		return nil

	case report.Cancelled:
		fmt.Fprintln(c.stdout, "Cancelled.")
		return nil
	}

	res := report.Result
	fmt.Fprintln(c.stdout)
	fmt.Fprintf(c.stdout, "Undo complete. Restored %s files", color.HiGreenString("%d", res.Restored))
	if res.Skipped > 0 {
		fmt.Fprintf(c.stdout, ", %d no longer in place", res.Skipped)
	}
	if res.Failed > 0 {
		fmt.Fprintf(c.stdout, ", %s", color.YellowString("%d failed", res.Failed))
	}
	fmt.Fprintln(c.stdout, ".")
	return nil
}

// journalPath resolves the --undo value; a bare --undo means the newest
// journal of the target directory
func (c *CLI) journalPath() (string, error) {
	if c.option.Undo != latestJournal {
		return config.ExpandPath(c.option.Undo)
	}

	dir, err := c.targetDir()
	if err != nil {
		return "", err
	}
	info, err := sorter.LatestJournal(dir)
	if err != nil {
		return "", err
	}
	return info.Path, nil
}

func (c *CLI) printPending(r sorter.UndoReport) {
	fmt.Fprintf(c.stdout, "Journal: %s\n", r.JournalPath)
	fmt.Fprintf(c.stdout, "Moves to undo: %d\n", r.Pending)
}

// reportStep prints undo failures as they happen, and every restore when
// verbose
func (c *CLI) reportStep(s undo.Step) {
	switch {
	case s.Err != nil:
		color.New(color.FgYellow).Fprintf(c.stderr, "ERROR restoring %s: %v\n", s.Record.Dst, s.Err)
	case s.To != "" && c.config.Core.Verbose:
		fmt.Fprintf(c.stdout, "restored '%s' -> '%s'\n", s.Record.Dst, s.To)
	}
}
