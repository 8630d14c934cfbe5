// Package setup walks the two choices that precede a study session: which
// words to study and which side of the card comes first.
package setup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/screens/matching"
	"github.com/abhisek/lexiz/internal/screens/practice"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/ui/layout"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

// loadedMsg carries the card snapshot and pacing preference.
type loadedMsg struct {
	Cards  []study.Card
	Tags   []study.Tag
	Pacing study.Pacing
	Err    error
}

// SetupScreen implements screen.Screen for session setup.
type SetupScreen struct {
	svc   *backend.Services
	setup *study.Setup

	cards  []study.Card
	pacing study.Pacing
	counts map[string]int

	loading bool
	errMsg  string
	notice  string

	cursor    int
	picked    map[string]bool
	dirCursor int
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.BackInterceptor = (*SetupScreen)(nil)

// New creates the setup screen for mode.
func New(svc *backend.Services, mode study.Mode) *SetupScreen {
	return &SetupScreen{
		svc:     svc,
		setup:   study.NewSetup(mode),
		pacing:  study.DefaultPacing(),
		loading: true,
		picked:  make(map[string]bool),
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx := context.Background()
		cards, err := svc.Deck.StudyCards(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}
		tags, err := svc.Deck.StudyTags(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}
		p := study.DefaultPacing()
		if svc.Prefs != nil {
			if got, err := svc.Prefs.Pacing(ctx); err == nil {
				p = got
			}
		}
		return loadedMsg{Cards: cards, Tags: tags, Pacing: p}
	}
}

func (s *SetupScreen) Title() string {
	return s.setup.Mode.Label()
}

// InterceptBack steps from the direction choice back to the word choice.
func (s *SetupScreen) InterceptBack() bool {
	return s.setup.Phase() == study.PhaseModePending
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	switch s.setup.Phase() {
	case study.PhaseFilterPending:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Space", Description: "Toggle tag"},
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Back"},
		}
	case study.PhaseModePending:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Words"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.cards = msg.Cards
		s.pacing = msg.Pacing
		s.setup.Load(msg.Cards, msg.Tags)
		s.counts = countByTag(msg.Cards)
		return s, nil
	case tea.KeyMsg:
		switch s.setup.Phase() {
		case study.PhaseFilterPending:
			return s.handleFilterKey(msg.String())
		case study.PhaseModePending:
			return s.handleDirectionKey(msg.String())
		}
	}
	return s, nil
}

func (s *SetupScreen) handleFilterKey(key string) (screen.Screen, tea.Cmd) {
	rows := len(s.setup.Tags()) + 1
	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < rows-1 {
			s.cursor++
		}
	case "space":
		if s.cursor > 0 {
			id := s.setup.Tags()[s.cursor-1].ID
			s.picked[id] = !s.picked[id]
			if !s.picked[id] {
				delete(s.picked, id)
			}
		}
	case "enter":
		return s.chooseFilter()
	}
	return s, nil
}

// chooseFilter uses the toggled tags, or the highlighted row when none are
// toggled.
func (s *SetupScreen) chooseFilter() (screen.Screen, tea.Cmd) {
	f := study.All()
	switch {
	case len(s.picked) > 0:
		ids := make([]string, 0, len(s.picked))
		for id := range s.picked {
			ids = append(ids, id)
		}
		f = study.ByTags(ids...)
	case s.cursor > 0:
		f = study.ByTags(s.setup.Tags()[s.cursor-1].ID)
	}

	if err := s.setup.ChooseFilter(f); err != nil {
		if errors.Is(err, study.ErrNothingToStudy) {
			s.notice = "Nothing left to study in this selection."
			return s, nil
		}
		s.errMsg = err.Error()
		return s, nil
	}
	s.notice = ""
	if s.setup.Mode == study.ModeListening {
		return s.start(study.EnglishFirst)
	}
	return s, nil
}

func (s *SetupScreen) handleDirectionKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k", "down", "j":
		s.dirCursor = 1 - s.dirCursor
	case "1":
		return s.start(study.EnglishFirst)
	case "2":
		return s.start(study.RussianFirst)
	case "enter":
		return s.start(study.Direction(s.dirCursor))
	case "esc":
		s.setup.Reset()
	}
	return s, nil
}

func (s *SetupScreen) start(d study.Direction) (screen.Screen, tea.Cmd) {
	sess, err := s.setup.ChooseDirection(d)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	var next screen.Screen
	if sess.Mode == study.ModeMatching {
		next = matching.New(sess, s.svc.Reporter)
	} else {
		next = practice.New(sess, s.svc.Reporter, s.svc.Speaker, s.pacing)
	}
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// countByTag counts unlearned cards per tag, with "" for the whole deck.
func countByTag(cards []study.Card) map[string]int {
	out := make(map[string]int)
	for _, c := range cards {
		if c.IsLearned {
			continue
		}
		out[""]++
		for _, t := range c.Tags {
			out[t]++
		}
	}
	return out
}

func (s *SetupScreen) View(width, height int) string {
	c := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return c.Foreground(theme.Error).Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press Esc to go back.", s.errMsg))
	case s.loading:
		return c.Foreground(theme.TextDim).Render("\n\n\n  Loading your words...")
	case len(s.cards) == 0:
		return c.Foreground(theme.TextDim).Render("\n\n\n  No words yet.\n\n  Add some with `lexiz cards add` or `lexiz cards import`.")
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.setup.Phase() == study.PhaseModePending {
		b.WriteString(c.Foreground(theme.Primary).Bold(true).Render("Which side first?"))
		b.WriteString("\n\n")
		opts := []string{"1) English → Russian", "2) Russian → English"}
		var list strings.Builder
		for i, o := range opts {
			list.WriteString(row(o, i == s.dirCursor) + "\n")
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))
		return b.String()
	}

	b.WriteString(c.Foreground(theme.Primary).Bold(true).Render("What would you like to study?"))
	b.WriteString("\n\n")

	var list strings.Builder
	list.WriteString(row(fmt.Sprintf("All words (%d)", s.counts[""]), s.cursor == 0) + "\n")
	for i, t := range s.setup.Tags() {
		box := "[ ]"
		if s.picked[t.ID] {
			box = "[x]"
		}
		list.WriteString(row(fmt.Sprintf("%s %s (%d)", box, t.Name, s.counts[t.ID]), s.cursor == i+1) + "\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(c.Foreground(theme.Accent).Render(s.notice))
	}
	return b.String()
}

func row(label string, selected bool) string {
	if selected {
		return theme.Selected.Render("▸ " + label)
	}
	return theme.Unselected.Render("  " + label)
}
