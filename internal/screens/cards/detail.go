package cards

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/ui/layout"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

// CardDetailScreen shows everything known about one card.
type CardDetailScreen struct {
	card backend.CardInfo
}

var _ screen.Screen = (*CardDetailScreen)(nil)
var _ screen.KeyHintProvider = (*CardDetailScreen)(nil)

func newCardDetail(card backend.CardInfo) *CardDetailScreen {
	return &CardDetailScreen{card: card}
}

func (d *CardDetailScreen) Init() tea.Cmd { return nil }
func (d *CardDetailScreen) Title() string { return d.card.EnglishWord }

func (d *CardDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return d, nil
}

func (d *CardDetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (d *CardDetailScreen) View(width, height int) string {
	c := d.card
	contentWidth := min(width-8, 70)

	var b strings.Builder

	status, statusStyle := "Learning", lipgloss.NewStyle().Foreground(theme.Secondary)
	if c.IsLearned {
		status, statusStyle = "Learned", lipgloss.NewStyle().Foreground(theme.Success)
	}

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  " + c.EnglishWord))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render("  " + c.RussianTranslation))
	b.WriteString("\n\n")

	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valStyle := lipgloss.NewStyle().Foreground(theme.Text)

	b.WriteString(dimStyle.Render("  Status:  ") + statusStyle.Render(status) + "\n")
	if c.Level != "" {
		b.WriteString(dimStyle.Render("  Level:   ") + valStyle.Render(c.Level) + "\n")
	}
	if len(c.TagNames) > 0 {
		b.WriteString(dimStyle.Render("  Tags:    ") + valStyle.Render(strings.Join(c.TagNames, ", ")) + "\n")
	}

	if c.Notes != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render("  Notes"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(contentWidth).
			Foreground(theme.Text).
			PaddingLeft(2).
			Render(c.Notes))
		b.WriteString("\n")
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		"\n"+b.String())
}
