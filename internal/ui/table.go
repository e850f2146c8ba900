package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/babarot/dlsort/internal/core/types"
	"github.com/babarot/dlsort/internal/journal"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const (
	timeFormat = "2006-01-02 15:04:05"

	nameWidth = 48
	ellipsis  = "…"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	if !color.NoColor {
		colors := make([]tablewriter.Colors, len(header))
		for i := range colors {
			colors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiGreenColor}
		}
		table.SetHeaderColor(colors...)
	}
	return table
}

// PrintPlan writes the first limit actions of plan (all of them when limit
// is not positive) followed by a count of the rest. Destinations are shown
// relative to root.
func PrintPlan(w io.Writer, root string, plan []types.Action, limit int) {
	shown := plan
	if limit > 0 && len(plan) > limit {
		shown = plan[:limit]
	}

	table := newTable(w, []string{"Category", "File", "Destination"})
	for _, a := range shown {
		dst := a.Destination
		if rel, err := filepath.Rel(root, dst); err == nil {
			dst = rel
		}
		if a.Err != nil {
			dst = "(no free name)"
		}
		table.Append([]string{
			"[" + a.Category.String() + "]",
			ansi.Truncate(a.Name(), nameWidth, ellipsis),
			dst,
		})
	}
	table.Render()

	if rest := len(plan) - len(shown); rest > 0 {
		fmt.Fprintf(w, "... and %d more\n", rest)
	}
}

// PrintJournals writes one row per journal, in the given order
func PrintJournals(w io.Writer, infos []journal.Info) {
	table := newTable(w, []string{"Created", "", "Moves", "Errors", "Size", "Journal"})
	for _, info := range infos {
		table.Append([]string{
			info.CreatedAt.Format(timeFormat),
			"(" + humanize.RelTime(info.CreatedAt, time.Now(), "ago", "from now") + ")",
			strconv.Itoa(info.Moves),
			strconv.Itoa(info.Errors),
			humanize.Bytes(uint64(info.Size)),
			info.Name,
		})
	}
	table.Render()
}
