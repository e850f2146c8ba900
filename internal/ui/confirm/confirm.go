package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jimschubert/answer/colors"
)

// Decision is an enumeration of decisions available in the confirmation bubble
type Decision int

const (
	// Undecided indicates the state in which a user has not made a selection, and there is no default available
	Undecided Decision = iota

	// Accepted indicates the user has provided a positive response (accepted confirmation)
	Accepted

	// Denied indicates the user has provided a negative response (denied confirmation)
	Denied
)

// String satisfies the fmt.Stringer interface
func (d Decision) String() string {
	return [...]string{
		"undecided",
		"accepted",
		"denied",
	}[d]
}

// IsAccepted is a helper to indicate the positive confirmation state was selected
func (d Decision) IsAccepted() bool {
	return d == Accepted
}

// Rendering is an enumeration of available renderings, allowing modification of the bubble's view output
type Rendering int

const (
	// InputBox defines rendering as standard format: Prompt? y/N
	// The user would then type an answer and hit enter.
	InputBox Rendering = iota

	// ImmediateInput decides on the first y or n key press
	ImmediateInput
)

// Styles holds relevant styles used for rendering
type Styles struct {
	PromptPrefix lipgloss.Style
	Prompt       lipgloss.Style
	Text         lipgloss.Style
	Placeholder  lipgloss.Style
}

// Model represents the bubble tea model for the confirm bubble
type Model struct {
	// PromptPrefix is a character or other indicator existing before the user prompt, separately styled
	PromptPrefix string

	// Prompt is the text to display to the user, prompting them for input
	Prompt string

	// Placeholder replaces the generated "y/N" hint
	Placeholder string

	// AcceptedDecisionText is the text a user types for Accepted confirmations
	AcceptedDecisionText string

	// DeniedDecisionText is the text a user types for Denied confirmations
	DeniedDecisionText string

	// DefaultValue is the decision when the user answers with an empty line
	DefaultValue Decision

	Rendering Rendering
	Styles    Styles

	selected Decision
	renderer tea.Model
	done     bool
}

// New creates a new model with default settings. Anything but an explicit
// yes is a no.
func New() Model {
	return Model{
		PromptPrefix:         "? ",
		AcceptedDecisionText: "yes",
		DeniedDecisionText:   "no",
		Styles: Styles{
			PromptPrefix: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.PromptPrefix)),
			Placeholder:  lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Placeholder)),
		},
		DefaultValue: Denied,
	}
}

// Selected retrieves the default or user-selected Decision value
func (m *Model) Selected() Decision {
	return m.selected
}

// Value returns the decision as the text the user would have typed
func (m *Model) Value() string {
	switch m.selected {
	case Accepted:
		return m.AcceptedDecisionText
	case Denied:
		return m.DeniedDecisionText
	}
	return ""
}

// SetDecision allows for externally setting the decision to a supported value
func (m *Model) SetDecision(decision Decision) {
	m.selected = decision
}

// Init satisfies the tea.Model interface
func (m *Model) Init() tea.Cmd {
	m.selected = m.DefaultValue

	switch m.Rendering {
	case ImmediateInput:
		m.renderer = &immediateRenderer{m: m}
	default:
		m.renderer = &inputRenderer{m: m}
	}
	return m.renderer.Init()
}

// Update satisfies the tea.Model interface
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.renderer.Update(msg)
}

// View satisfies the tea.Model interface
func (m *Model) View() string {
	return m.renderer.View()
}
