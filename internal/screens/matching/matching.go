// Package matching is the study screen for Matching mode: pair each word on
// the left with its translation on the right, one board of seven at a time.
package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/screens/summary"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/ui/layout"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

const (
	colLeft  = 0
	colRight = 1
)

// missClearedMsg ends the pause after a wrong pair.
type missClearedMsg struct {
	Seq int
}

// MatchingScreen implements screen.Screen for a Matching session.
type MatchingScreen struct {
	ctx      context.Context
	session  *study.Session
	game     *study.Matching
	reporter study.Reporter

	focus  int
	cursor [2]int
	// picked holds the chosen row per column, or -1.
	picked [2]int

	missPending        bool
	seq                int
	showingQuitConfirm bool
}

var _ screen.Screen = (*MatchingScreen)(nil)
var _ screen.KeyHintProvider = (*MatchingScreen)(nil)
var _ screen.BackInterceptor = (*MatchingScreen)(nil)
var _ screen.Leaver = (*MatchingScreen)(nil)

// New creates the matching screen for s. reporter may be nil.
func New(s *study.Session, reporter study.Reporter) *MatchingScreen {
	m := &MatchingScreen{
		ctx:      context.Background(),
		session:  s,
		game:     study.NewMatching(s, study.NewRand()),
		reporter: reporter,
	}
	m.resetPicks()
	return m
}

func (m *MatchingScreen) Init() tea.Cmd {
	return nil
}

func (m *MatchingScreen) Title() string {
	return "Matching"
}

func (m *MatchingScreen) InterceptBack() bool {
	return !m.session.IsComplete()
}

func (m *MatchingScreen) Leave() {
	m.seq++
}

func (m *MatchingScreen) KeyHints() []layout.KeyHint {
	if m.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "←→", Description: "Column"},
		{Key: "Enter", Description: "Pick"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (m *MatchingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case missClearedMsg:
		if msg.Seq == m.seq && m.missPending {
			m.missPending = false
			m.game.Board().ClearMiss()
			m.resetPicks()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *MatchingScreen) handleKey(key string) (screen.Screen, tea.Cmd) {
	if m.showingQuitConfirm {
		switch key {
		case "y", "Y":
			m.showingQuitConfirm = false
			m.Leave()
			return m, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			m.showingQuitConfirm = false
		}
		return m, nil
	}
	if key == "esc" {
		m.showingQuitConfirm = true
		return m, nil
	}
	if m.missPending {
		return m, nil
	}

	rows := m.game.Board().Size()
	switch key {
	case "up", "k":
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}
	case "down", "j":
		if m.cursor[m.focus] < rows-1 {
			m.cursor[m.focus]++
		}
	case "left", "h":
		m.focus = colLeft
	case "right", "l", "tab":
		m.focus = colRight
	case "enter", "space":
		return m.pick(m.focus, m.cursor[m.focus])
	}
	return m, nil
}

// pick selects row in col. Once both columns have a pick the pair is
// resolved.
func (m *MatchingScreen) pick(col, row int) (screen.Screen, tea.Cmd) {
	b := m.game.Board()
	if (col == colLeft && b.LeftMatched(row)) || (col == colRight && b.RightMatched(row)) {
		return m, nil
	}
	m.picked[col] = row
	if m.picked[colLeft] < 0 || m.picked[colRight] < 0 {
		m.focus = 1 - col
		return m, nil
	}

	out := m.game.Pair(m.picked[colLeft], m.picked[colRight])
	if out.Completion != nil {
		return m, m.finish(out.Completion)
	}
	if !out.Correct {
		m.missPending = true
		seq := m.seq
		return m, tea.Tick(out.Verdict.Pause, func(time.Time) tea.Msg {
			return missClearedMsg{Seq: seq}
		})
	}
	m.resetPicks()
	if out.NewBoard {
		m.cursor = [2]int{}
	}
	m.focus = colLeft
	return m, nil
}

func (m *MatchingScreen) finish(done *study.Completion) tea.Cmd {
	m.Leave()
	sum := summary.New(done.Result, m.session.Cards(), m.restart)
	ctx, reporter := m.ctx, m.reporter
	return tea.Batch(
		func() tea.Msg {
			study.OnComplete(ctx, reporter, done)
			return nil
		},
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} },
	)
}

func (m *MatchingScreen) restart() screen.Screen {
	m.seq++
	m.game.Restart()
	m.missPending = false
	m.showingQuitConfirm = false
	m.cursor = [2]int{}
	m.focus = colLeft
	m.resetPicks()
	return m
}

func (m *MatchingScreen) resetPicks() {
	m.picked = [2]int{-1, -1}
}

func (m *MatchingScreen) View(width, height int) string {
	if m.showingQuitConfirm {
		return renderQuitConfirm(width)
	}

	b := m.game.Board()
	dir := m.session.Direction

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Set %d/%d   Matched %d/%d",
			m.game.SetIndex()+1, m.game.TotalSets(), b.MatchedCount(), b.Size())))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	sb.WriteString("\n\n")

	colWidth := min((width-10)/2, 32)
	left := make([]string, b.Size())
	right := make([]string, b.Size())
	for row := 0; row < b.Size(); row++ {
		left[row] = m.cell(colLeft, row, dir.Front(b.Cards[b.Left[row]]), b.LeftMatched(row), false, colWidth)
		right[row] = m.cell(colRight, row, dir.Back(b.Cards[b.Right[row]]), b.RightMatched(row), m.missPending && b.WrongRight == row, colWidth)
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n"),
		"    ",
		strings.Join(right, "\n"),
	)
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, columns))

	if m.missPending {
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.Error).Bold(true).Render("Not a pair"))
	}
	return sb.String()
}

func (m *MatchingScreen) cell(col, row int, text string, matched, wrong bool, width int) string {
	style := lipgloss.NewStyle().Width(width).Padding(0, 1)
	prefix := "  "
	if m.focus == col && m.cursor[col] == row {
		prefix = "▸ "
	}
	switch {
	case matched:
		style = style.Inherit(theme.Matched)
	case wrong:
		style = style.Inherit(theme.Incorrect)
	case m.picked[col] == row:
		style = style.Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)
	case m.focus == col && m.cursor[col] == row:
		style = style.Inherit(theme.Selected)
	default:
		style = style.Foreground(theme.Text)
	}
	return style.Render(prefix + text)
}

func renderQuitConfirm(width int) string {
	c := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return "\n\n\n" +
		c.Foreground(theme.Text).Bold(true).Render("End session early?") + "\n" +
		c.Foreground(theme.TextDim).Render("Progress from this pass will not be saved.") + "\n\n" +
		c.Foreground(theme.Success).Render("[Y] Yes, end session") + "\n" +
		c.Foreground(theme.Primary).Render("[N] No, keep going")
}
