package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/ui/components"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	switch {
	case s.quiz != nil:
		b.WriteString(s.renderQuestion(width))
	case s.light != nil:
		b.WriteString(renderCard(width, s.light.Front(), s.light.Back(), s.light.Flipped))
		if s.session.Paused() {
			b.WriteString("\n\n")
			b.WriteString(centered(width).Foreground(theme.Accent).Bold(true).Render("Paused"))
		}
	default:
		b.WriteString(renderCard(width, s.flash.Front(), s.flash.Back(), s.flash.Flipped))
	}
	return b.String()
}

// renderInfoLine shows the mode on the left and progress on the right.
func (s *PracticeScreen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", s.session.Mode.Label(), s.session.Direction))

	pos := s.session.Position() + 1
	if pos > s.session.Len() {
		pos = s.session.Len()
	}
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Card %d/%d", pos, s.session.Len()))
	if s.muted {
		right = lipgloss.NewStyle().Foreground(theme.TextDim).Render("no audio  ") + right
	}

	bar := components.NewProgressBar("", float64(s.session.Position())/float64(max(s.session.Len(), 1)), false, 20).View()

	line := left
	pad := width - lipgloss.Width(left) - lipgloss.Width(bar) - lipgloss.Width(right) - 6
	if pad > 0 {
		line += strings.Repeat(" ", pad) + bar + "  " + right
	}
	return line
}

func renderCard(width int, front, back string, flipped bool) string {
	cardWidth := min(width-8, 50)
	if flipped {
		face := theme.FlashBack.Width(cardWidth).Render(
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(front) + "\n\n" +
				lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(back))
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, face)
	}
	face := theme.FlashFront.Width(cardWidth).Render(
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(front) + "\n\n" +
			theme.Hint.Render("flip to reveal"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, face)
}

func (s *PracticeScreen) renderQuestion(width int) string {
	q := s.quiz.Question()

	var b strings.Builder
	prompt := q.Prompt
	if prompt == "" {
		prompt = "♪ Listen and pick the translation"
	}
	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render(prompt))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))

	if s.verdict != nil {
		b.WriteString("\n")
		if s.verdict.Correct {
			b.WriteString(centered(width).Foreground(theme.Success).Bold(true).Render("Correct!"))
		} else {
			b.WriteString(centered(width).Foreground(theme.Error).Bold(true).Render("Not quite, try again"))
		}
	} else {
		b.WriteString("\n")
		b.WriteString(centered(width).Foreground(theme.TextDim).Render("Select (1-4) or use arrows + Enter"))
	}
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).Render("Progress from this pass will not be saved."))
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.Success).Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.Primary).Render("[N] No, keep going"))

	return b.String()
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}
