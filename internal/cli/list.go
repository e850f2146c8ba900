package cli

import (
	"fmt"
	"log/slog"

	"github.com/babarot/dlsort/internal/sorter"
	"github.com/babarot/dlsort/internal/ui"
)

// List prints the journals of the target directory, newest first
func (c *CLI) List() error {
	slog.Debug("cli.list started")
	defer slog.Debug("cli.list finished")

	dir, err := c.targetDir()
	if err != nil {
		return err
	}

	infos, err := sorter.Journals(dir, c.config.History.WithinDays)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintf(c.stdout, "No journals in %s\n", dir)
		return nil
	}

	ui.PrintJournals(c.stdout, infos)
	return nil
}
