// Package cards is the learner's word list browser.
package cards

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/ui/layout"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

// levelOrder is the order level groups are listed in. Cards without a level
// go last.
var levelOrder = []string{"A1", "A2", "B1", "B2", "C1", "C2", ""}

type rowKind int

const (
	rowLevelHeader rowKind = iota
	rowCard
)

type row struct {
	kind  rowKind
	level string
	card  *backend.CardInfo
}

type cardsLoadedMsg struct {
	Cards []backend.CardInfo
	Err   error
}

type learnedMsg struct {
	ID      string
	Learned bool
	Err     error
}

type deletedMsg struct {
	ID  string
	Err error
}

// CardsScreen lists cards grouped by level. Cards can be marked learned or
// deleted in place.
type CardsScreen struct {
	deck          backend.Deck
	cards         []backend.CardInfo
	rows          []row
	cursor        int
	scrollOffset  int
	loaded        bool
	errMsg        string
	notice        string
	confirmDelete bool
}

var _ screen.Screen = (*CardsScreen)(nil)
var _ screen.KeyHintProvider = (*CardsScreen)(nil)
var _ screen.BackInterceptor = (*CardsScreen)(nil)

// New creates a CardsScreen over deck.
func New(deck backend.Deck) *CardsScreen {
	return &CardsScreen{deck: deck}
}

func (s *CardsScreen) Init() tea.Cmd {
	deck := s.deck
	return func() tea.Msg {
		cards, err := deck.Cards(context.Background())
		return cardsLoadedMsg{Cards: cards, Err: err}
	}
}

func (s *CardsScreen) Title() string {
	return "My Words"
}

func (s *CardsScreen) KeyHints() []layout.KeyHint {
	if s.confirmDelete {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Level"},
		{Key: "Enter", Description: "Details"},
		{Key: "L", Description: "Learned"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

// InterceptBack keeps Esc for cancelling a pending delete.
func (s *CardsScreen) InterceptBack() bool {
	return s.confirmDelete
}

func (s *CardsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case cardsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.cards = msg.Cards
		s.rebuild("")
		return s, nil

	case learnedMsg:
		if msg.Err != nil {
			s.notice = "Could not update: " + msg.Err.Error()
			return s, nil
		}
		for i := range s.cards {
			if s.cards[i].ID == msg.ID {
				s.cards[i].IsLearned = msg.Learned
			}
		}
		s.rebuild(msg.ID)
		return s, nil

	case deletedMsg:
		if msg.Err != nil {
			s.notice = "Could not delete: " + msg.Err.Error()
			return s, nil
		}
		s.cards = slices.DeleteFunc(s.cards, func(c backend.CardInfo) bool { return c.ID == msg.ID })
		s.rebuild("")
		return s, nil

	case tea.KeyMsg:
		if s.confirmDelete {
			return s, s.handleConfirm(msg.String())
		}
		s.notice = ""
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.nextLevel()
		case "enter":
			if c := s.current(); c != nil {
				detail := newCardDetail(*c)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
			}
		case "l", "space":
			return s, s.toggleLearned()
		case "d", "delete":
			if s.current() != nil {
				s.confirmDelete = true
			}
		case "q", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *CardsScreen) handleConfirm(key string) tea.Cmd {
	switch key {
	case "y", "Y":
		s.confirmDelete = false
		c := s.current()
		if c == nil {
			return nil
		}
		deck, id := s.deck, c.ID
		return func() tea.Msg {
			return deletedMsg{ID: id, Err: deck.DeleteCard(context.Background(), id)}
		}
	case "n", "N", "esc":
		s.confirmDelete = false
	}
	return nil
}

func (s *CardsScreen) toggleLearned() tea.Cmd {
	c := s.current()
	if c == nil {
		return nil
	}
	deck, id, learned := s.deck, c.ID, !c.IsLearned
	return func() tea.Msg {
		return learnedMsg{ID: id, Learned: learned, Err: deck.SetLearned(context.Background(), id, learned)}
	}
}

func (s *CardsScreen) current() *backend.CardInfo {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowCard {
		return nil
	}
	return s.rows[s.cursor].card
}

// rebuild regroups the rows and puts the cursor on keepID, or on the nearest
// card row when keepID is gone.
func (s *CardsScreen) rebuild(keepID string) {
	if keepID == "" {
		if c := s.current(); c != nil {
			keepID = c.ID
		}
	}
	prev := s.cursor

	s.rows = nil
	for _, level := range levelOrder {
		header := false
		for i := range s.cards {
			c := &s.cards[i]
			if levelGroup(c.Level) != level {
				continue
			}
			if !header {
				s.rows = append(s.rows, row{kind: rowLevelHeader, level: level})
				header = true
			}
			s.rows = append(s.rows, row{kind: rowCard, level: level, card: c})
		}
	}

	s.cursor = -1
	for i, r := range s.rows {
		if r.kind == rowCard && r.card.ID == keepID {
			s.cursor = i
			return
		}
	}
	if len(s.rows) == 0 {
		return
	}
	s.cursor = min(max(prev, 0), len(s.rows)-1)
	if s.rows[s.cursor].kind != rowCard {
		s.moveCursor(1)
	}
}

// levelGroup maps unknown levels to the trailing group.
func levelGroup(level string) string {
	if slices.Contains(levelOrder, level) {
		return level
	}
	return ""
}

// moveCursor moves the cursor by delta, skipping level headers.
func (s *CardsScreen) moveCursor(delta int) {
	for next := s.cursor + delta; next >= 0 && next < len(s.rows); next += delta {
		if s.rows[next].kind == rowCard {
			s.cursor = next
			return
		}
	}
}

// nextLevel jumps to the first card of the next level group, wrapping around.
func (s *CardsScreen) nextLevel() {
	if s.cursor < 0 {
		return
	}
	level := s.rows[s.cursor].level
	for i := s.cursor + 1; i < len(s.rows); i++ {
		if s.rows[i].kind == rowCard && s.rows[i].level != level {
			s.cursor = i
			return
		}
	}
	for i, r := range s.rows {
		if r.kind == rowCard {
			s.cursor = i
			return
		}
	}
}

func (s *CardsScreen) adjustScroll(height int) {
	if height <= 0 || s.cursor < 0 {
		return
	}
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowLevelHeader {
		headerRow--
	}
	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *CardsScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim)
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return dim.Render("\n\n  Loading words...")
	}
	if len(s.cards) == 0 {
		return dim.Italic(true).Render("\n\n  No words yet. Add some with `lexiz cards add`.")
	}

	learned := 0
	for _, c := range s.cards {
		if c.IsLearned {
			learned++
		}
	}
	summary := dim.Render(fmt.Sprintf("%d words · %d learned", len(s.cards), learned))

	footer := ""
	switch {
	case s.confirmDelete:
		if c := s.current(); c != nil {
			footer = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).
				Render(fmt.Sprintf("  Delete %q? [Y/N]", c.EnglishWord))
		}
	case s.notice != "":
		footer = lipgloss.NewStyle().Foreground(theme.Accent).Render("  " + s.notice)
	}

	listHeight := height - 3
	s.adjustScroll(listHeight)

	var lines []string
	for i := s.scrollOffset; i < len(s.rows) && len(lines) < listHeight; i++ {
		r := s.rows[i]
		if r.kind == rowLevelHeader {
			lines = append(lines, renderLevelHeader(r.level, width))
			continue
		}
		lines = append(lines, renderCardRow(*r.card, i == s.cursor, width))
	}

	return summary + "\n" + strings.Join(lines, "\n") + "\n\n" + footer
}

func renderLevelHeader(level string, width int) string {
	name := level
	if name == "" {
		name = "OTHER"
	}
	return lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Width(width).
		PaddingLeft(2).
		Render(name)
}

func renderCardRow(c backend.CardInfo, selected bool, width int) string {
	wordWidth := max((width-16)/2, 10)

	icon := "○"
	wordStyle := lipgloss.NewStyle().Foreground(theme.Text)
	transStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if c.IsLearned {
		icon = "●"
		wordStyle = lipgloss.NewStyle().Foreground(theme.Success)
	}
	cursor := "  "
	if selected {
		cursor = "▸ "
		wordStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		transStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	}

	return fmt.Sprintf("  %s%s %s  %s",
		cursor,
		icon,
		wordStyle.Render(fmt.Sprintf("%-*s", wordWidth, truncate(c.EnglishWord, wordWidth))),
		transStyle.Render(truncate(c.RussianTranslation, wordWidth)),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
