package confirm

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// newTextInput builds the shared input line with a "y/N" style hint,
// the default answer upper-cased
func newTextInput(m *Model) textinput.Model {
	input := textinput.New()
	if m.Placeholder != "" {
		input.Placeholder = m.Placeholder
	} else {
		yes := m.AcceptedDecisionText[:1]
		no := m.DeniedDecisionText[:1]
		switch m.DefaultValue {
		case Accepted:
			yes = strings.ToUpper(yes)
		case Denied:
			no = strings.ToUpper(no)
		}
		input.Placeholder = yes + "/" + no
	}

	if strings.HasSuffix(m.Prompt, " ") {
		input.Prompt = m.Prompt
	} else {
		input.Prompt = m.Prompt + " "
	}
	input.PromptStyle = m.Styles.Prompt
	input.PlaceholderStyle = m.Styles.Placeholder
	input.TextStyle = m.Styles.Text
	input.CharLimit = max(len(m.AcceptedDecisionText), len(m.DeniedDecisionText))
	input.Focus()
	return input
}

// Decide maps a typed answer to a decision. Only the accepted text or its
// first letter accepts; an empty answer takes the default.
func (m *Model) Decide(answer string) Decision {
	answer = strings.ToLower(strings.TrimSpace(answer))
	accepted := strings.ToLower(m.AcceptedDecisionText)
	switch {
	case answer == "":
		return m.DefaultValue
	case answer == accepted, answer == accepted[:1]:
		return Accepted
	default:
		return Denied
	}
}

func (m *Model) view(input textinput.Model) string {
	var b strings.Builder
	if m.PromptPrefix != "" {
		promptPrefixRender := m.Styles.PromptPrefix.Inline(true).Render
		b.WriteString(promptPrefixRender(m.PromptPrefix))
		if m.Prompt != "" && !strings.HasSuffix(m.PromptPrefix, " ") {
			b.WriteString(promptPrefixRender(" "))
		}
	}

	if m.done {
		// keep the question and answer on screen once decided
		if m.Prompt != "" {
			promptRender := m.Styles.Prompt.Inline(true).Render
			b.WriteString(promptRender(m.Prompt))
			b.WriteString(promptRender(" "))
		}
		b.WriteString(m.Value())
		b.WriteRune('\n')
		return b.String()
	}

	b.WriteString(input.View())
	return b.String()
}

// inputRenderer renders in one-line as user-based textual input
type inputRenderer struct {
	m    *Model
	text textinput.Model
}

// Init satisfies the tea.Model interface
func (i *inputRenderer) Init() tea.Cmd {
	i.text = newTextInput(i.m)
	return textinput.Blink
}

// Update satisfies the tea.Model interface
func (i *inputRenderer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			i.m.SetDecision(Denied)
			i.m.done = true
			return i.m, tea.Quit
		case tea.KeyEnter:
			i.m.SetDecision(i.m.Decide(i.text.Value()))
			i.m.done = true
			return i.m, tea.Quit
		}
	}

	var cmd tea.Cmd
	i.text, cmd = i.text.Update(msg)
	return i.m, cmd
}

// View satisfies the tea.Model interface
func (i *inputRenderer) View() string {
	return i.m.view(i.text)
}

type immediateRenderer struct {
	m    *Model
	text textinput.Model
}

func (i *immediateRenderer) Init() tea.Cmd {
	i.text = newTextInput(i.m)
	return nil
}

func (i *immediateRenderer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	isLetter := func(s string) bool {
		return !strings.ContainsFunc(s, func(r rune) bool {
			return !unicode.IsLetter(r)
		})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC, msg.Type == tea.KeyEsc:
			i.m.SetDecision(Denied)
			i.m.done = true
			return i.m, tea.Quit
		case msg.Type == tea.KeyEnter:
			i.m.SetDecision(i.m.DefaultValue)
			i.m.done = true
			return i.m, tea.Quit
		default:
			if isLetter(msg.String()) {
				switch strings.ToLower(msg.String()) {
				case strings.ToLower(i.m.AcceptedDecisionText[:1]):
					i.m.SetDecision(Accepted)
					i.m.done = true
					return i.m, tea.Quit
				case strings.ToLower(i.m.DeniedDecisionText[:1]):
					i.m.SetDecision(Denied)
					i.m.done = true
					return i.m, tea.Quit
				}
			}
		}
	}
	return i.m, nil
}

func (i *immediateRenderer) View() string {
	return i.m.view(i.text)
}
