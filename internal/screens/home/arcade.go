package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/ui/components"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

// Block-letter title (same art as welcome/banner.go).
const arcadeTitleFull = ` ██╗     ███████╗██╗  ██╗██╗███████╗
 ██║     ██╔════╝╚██╗██╔╝██║╚══███╔╝
 ██║     █████╗   ╚███╔╝ ██║  ███╔╝
 ██║     ██╔══╝   ██╔██╗ ██║ ███╔╝
 ███████╗███████╗██╔╝ ██╗██║███████╗
 ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝╚══════╝`

const arcadeTitleCompact = "L · E · X · I · Z"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 18

func renderTitle(cw int, compact bool) string {
	art := arcadeTitleFull
	if compact {
		art = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(art))
}

// renderStatsBar renders the learner's numbers in a bordered box matching
// content width. A nil overview shows placeholders while loading.
func renderStatsBar(ov *backend.Overview, cw int, compact bool) string {
	learnedStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	wordStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	timeStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	switch {
	case ov == nil:
		stats = dimStyle.Render("loading stats...")
	case compact:
		stats = fmt.Sprintf("%s %s %s",
			learnedStyle.Render(fmt.Sprintf("★%d", ov.LearnedWords)),
			wordStyle.Render(fmt.Sprintf("◆%d", ov.TotalWords)),
			todayText(ov, true, timeStyle, dimStyle),
		)
	default:
		stats = fmt.Sprintf("%s  %s  %s",
			learnedStyle.Render(fmt.Sprintf("★ %d LEARNED", ov.LearnedWords)),
			wordStyle.Render(fmt.Sprintf("◆ %d WORDS", ov.TotalWords)),
			todayText(ov, false, timeStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func todayText(ov *backend.Overview, compact bool, active, dim lipgloss.Style) string {
	mins := int(ov.TimeToday.Minutes())
	if ov.TimeToday <= 0 {
		if compact {
			return dim.Render("⏱0")
		}
		return dim.Render("⏱ NOT YET TODAY")
	}
	if compact {
		return active.Render(fmt.Sprintf("⏱%dm", mins))
	}
	return active.Render(fmt.Sprintf("⏱ %d MIN TODAY", mins))
}

// renderArcadeMenu lays the menu out as a grid of fixed-width buttons.
func renderArcadeMenu(m components.Menu, cw int) string {
	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	cols := max(m.Columns, 1)
	var rows []string
	for start := 0; start < len(m.Items); start += cols {
		var row []string
		for i := start; i < min(start+cols, len(m.Items)); i++ {
			item := m.Items[i]
			if item.Disabled {
				row = append(row, disabledBtn.Render(item.Label))
			} else {
				row = append(row, components.ArcadeButton(item.Label, i == m.Selected, buttonWidth))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

// renderArcadeMenuCompact renders the grid as plain text cells for small
// terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(m components.Menu, cw int) string {
	cell := lipgloss.NewStyle().Width(buttonWidth)
	cols := max(m.Columns, 1)

	var rows []string
	for start := 0; start < len(m.Items); start += cols {
		var row []string
		for i := start; i < min(start+cols, len(m.Items)); i++ {
			item := m.Items[i]
			var label string
			switch {
			case item.Disabled:
				label = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + item.Label)
			case i == m.Selected:
				label = lipgloss.NewStyle().
					Foreground(theme.BgDark).
					Background(theme.ArcadeYellow).
					Bold(true).
					Render(" ▸ " + item.Label + " ")
			default:
				label = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + item.Label)
			}
			row = append(row, cell.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + text)
}
