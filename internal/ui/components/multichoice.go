package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/ui/theme"
)

// MultiChoice is a numbered answer picker. Options can be chosen with the
// arrow keys and Enter, or directly with their number.
type MultiChoice struct {
	Prompt   string
	Options  []string
	Selected int

	// Chosen and Correct are -1 until Reveal is called.
	Chosen  int
	Correct int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(prompt string, options []string) MultiChoice {
	return MultiChoice{
		Prompt:  prompt,
		Options: options,
		Chosen:  -1,
		Correct: -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement. Revealed pickers ignore input.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Revealed() {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	}
	return m, nil
}

// Pick maps a key to an option index: Enter picks the highlighted option and
// "1".."9" pick by position.
func (m MultiChoice) Pick(key string) (int, bool) {
	if m.Revealed() || len(m.Options) == 0 {
		return 0, false
	}
	if key == "enter" {
		return m.Selected, true
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(m.Options) {
			return i, true
		}
	}
	return 0, false
}

// Reveal freezes the picker and colors the chosen and correct options.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.Chosen = chosen
	m.Correct = correct
}

// Revealed reports whether an answer is being shown.
func (m MultiChoice) Revealed() bool {
	return m.Chosen >= 0
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	if m.Prompt != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Prompt))
		b.WriteString("\n\n")
	}

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Revealed() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Revealed() && i == m.Correct:
			style = theme.Correct
		case m.Revealed() && i == m.Chosen:
			style = theme.Incorrect
		case m.Revealed():
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}

// IsCorrect returns true if the revealed choice was the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Revealed() && m.Chosen == m.Correct
}
