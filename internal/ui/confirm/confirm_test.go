package confirm

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDecide(t *testing.T) {
	m := New()
	testCases := []struct {
		answer string
		want   Decision
	}{
		{"y", Accepted},
		{"YES", Accepted},
		{" yes ", Accepted},
		{"", Denied},
		{"n", Denied},
		{"yep", Denied},
		{"sure", Denied},
	}
	for _, tc := range testCases {
		t.Run(tc.answer, func(t *testing.T) {
			if got := m.Decide(tc.answer); got != tc.want {
				t.Errorf("Decide(%q) = %s, want %s", tc.answer, got, tc.want)
			}
		})
	}

	m.DefaultValue = Accepted
	if got := m.Decide(""); got != Accepted {
		t.Errorf("Decide(\"\") with default Accepted = %s", got)
	}
}

func TestInputBox(t *testing.T) {
	m := New()
	m.Prompt = "Proceed?"
	m.Init()

	if !strings.Contains(m.View(), "y/N") {
		t.Errorf("View() = %q, want a y/N hint", m.View())
	}

	for _, r := range "yes" {
		m.Update(runes(string(r)))
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should quit")
	}
	if !m.Selected().IsAccepted() {
		t.Errorf("Selected() = %s, want accepted", m.Selected())
	}
	if !strings.Contains(m.View(), "Proceed? yes") {
		t.Errorf("final View() = %q", m.View())
	}
}

func TestInputBoxCancel(t *testing.T) {
	m := New()
	m.Init()
	m.Update(runes("y"))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.Selected() != Denied {
		t.Errorf("Selected() = %s, want denied", m.Selected())
	}
}

func TestImmediateInput(t *testing.T) {
	testCases := []struct {
		name string
		key  tea.KeyMsg
		want Decision
	}{
		{"y", runes("y"), Accepted},
		{"Y", runes("Y"), Accepted},
		{"n", runes("n"), Denied},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, Denied},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, Denied},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := New()
			m.Rendering = ImmediateInput
			m.Init()
			if _, cmd := m.Update(tc.key); cmd == nil {
				t.Fatal("key should quit")
			}
			if m.Selected() != tc.want {
				t.Errorf("Selected() = %s, want %s", m.Selected(), tc.want)
			}
		})
	}

	m := New()
	m.Rendering = ImmediateInput
	m.Init()
	if _, cmd := m.Update(runes("x")); cmd != nil {
		t.Error("unrelated key should not quit")
	}
}
