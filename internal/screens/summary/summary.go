package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/ui/layout"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

// SummaryScreen displays a finished session and offers to start again.
type SummaryScreen struct {
	result  study.SessionResult
	words   map[string]study.Card
	restart func() screen.Screen
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. cards resolves result card IDs to words.
// restart, when set, returns the study screen ready for another pass over
// the same cards.
func New(result study.SessionResult, cards []study.Card, restart func() screen.Screen) *SummaryScreen {
	words := make(map[string]study.Card, len(cards))
	for _, c := range cards {
		words[c.ID] = c
	}
	return &SummaryScreen{result: result, words: words, restart: restart}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.restart != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Start again"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r", "y":
			if s.restart == nil {
				return s, nil
			}
			next := s.restart()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

// Stats is what the summary shows about a result.
type Stats struct {
	Cards       int
	FirstTry    int
	Attempts    int
	Accuracy    float64
	Duration    time.Duration
	MissedWords []string
}

// Compute derives the display stats. A card counts as right first time when
// its first recorded attempt was correct.
func Compute(r study.SessionResult, words map[string]study.Card) Stats {
	st := Stats{
		Attempts: len(r.CardResults),
		Duration: time.Duration(r.TotalTimeSpentSec) * time.Second,
	}
	first := make(map[string]bool)
	missed := make(map[string]bool)
	correct := 0
	for _, cr := range r.CardResults {
		if cr.IsCorrect {
			correct++
		}
		if _, seen := first[cr.CardID]; !seen {
			first[cr.CardID] = cr.IsCorrect
			st.Cards++
			if cr.IsCorrect {
				st.FirstTry++
			}
		}
		if !cr.IsCorrect && !missed[cr.CardID] {
			missed[cr.CardID] = true
			if c, ok := words[cr.CardID]; ok {
				st.MissedWords = append(st.MissedWords, fmt.Sprintf("%s — %s", c.EnglishWord, c.RussianTranslation))
			}
		}
	}
	if st.Attempts > 0 {
		st.Accuracy = float64(correct) / float64(st.Attempts)
	}
	return st
}

func (s *SummaryScreen) View(width, height int) string {
	st := Compute(s.result, s.words)

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("%s complete!", s.result.Mode.Label())))
	b.WriteString("\n\n")

	mins := int(st.Duration.Minutes())
	secs := int(st.Duration.Seconds()) % 60
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Words: %d        First try: %d        Accuracy: %.0f%%",
		st.Cards, st.FirstTry, st.Accuracy*100)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	if len(st.MissedWords) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Worth another look")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		limit := max(height-14, 3)
		for i, w := range st.MissedWords {
			if i == limit {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					theme.Hint.Render(fmt.Sprintf("…and %d more", len(st.MissedWords)-limit))))
				b.WriteString("\n")
				break
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Error).Render(w)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if s.restart != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Bold(true).
			Render("Start again? [R]"))
	}

	return b.String()
}
