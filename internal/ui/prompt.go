package ui

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/babarot/dlsort/internal/ui/confirm"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether stdin and stdout are both terminals
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// Confirm asks a yes/no question, defaulting to no. Without a terminal the
// answer is read as one line from stdin.
func Confirm(prompt string) bool {
	if !IsInteractive() {
		return ConfirmLine(os.Stdin, os.Stdout, prompt)
	}

	m := confirm.New()
	m.Prompt = prompt

	p := tea.NewProgram(&m)
	if _, err := p.Run(); err != nil {
		slog.Error("confirm failed", "error", err)
		return false
	}
	return m.Selected().IsAccepted()
}

// ConfirmLine prints prompt to w and reads the answer from r
func ConfirmLine(r io.Reader, w io.Writer, prompt string) bool {
	m := confirm.New()
	fmt.Fprintf(w, "%s (y/n): ", prompt)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(w)
		return false
	}
	return m.Decide(line).IsAccepted()
}
