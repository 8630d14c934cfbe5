// Package settings edits the Lightning pacing.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/ui/components"
	"github.com/abhisek/lexiz/internal/ui/layout"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

// Bounds for either Lightning delay, in seconds.
const (
	minDelaySec = 1
	maxDelaySec = 60
)

type pacingLoadedMsg struct {
	Pacing study.Pacing
	Err    error
}

type pacingSavedMsg struct {
	Err error
}

// SettingsScreen edits the Lightning flip and next delays.
type SettingsScreen struct {
	prefs  backend.Prefs
	inputs [2]components.TextInput
	focus  int
	notice string
	failed bool
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

var (
	fieldLabels = [2]string{"Seconds before the card flips", "Seconds before the next card"}
	fieldNames  = [2]string{"flip delay", "next delay"}
)

// New creates a SettingsScreen over prefs.
func New(prefs backend.Prefs) *SettingsScreen {
	s := &SettingsScreen{prefs: prefs}
	for i := range s.inputs {
		s.inputs[i] = components.NewTextInput("sec", true, 2)
	}
	s.inputs[1].Blur()
	s.fill(study.DefaultPacing())
	return s
}

func (s *SettingsScreen) fill(p study.Pacing) {
	s.inputs[0].SetValue(strconv.Itoa(int(p.TimeToFlip / time.Second)))
	s.inputs[1].SetValue(strconv.Itoa(int(p.TimeToNext / time.Second)))
}

func (s *SettingsScreen) Init() tea.Cmd {
	prefs := s.prefs
	if prefs == nil {
		return nil
	}
	return tea.Batch(s.inputs[0].Init(), func() tea.Msg {
		p, err := prefs.Pacing(context.Background())
		return pacingLoadedMsg{Pacing: p, Err: err}
	})
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pacingLoadedMsg:
		if msg.Err != nil {
			s.setNotice("Could not load settings: "+msg.Err.Error(), true)
			return s, nil
		}
		s.fill(msg.Pacing)
		return s, nil

	case pacingSavedMsg:
		if msg.Err != nil {
			s.setNotice("Could not save: "+msg.Err.Error(), true)
		} else {
			s.setNotice("Saved. New Lightning sessions use these delays.", false)
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "up", "shift+tab":
			return s, s.switchFocus()
		case "enter":
			return s, s.save()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *SettingsScreen) switchFocus() tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = 1 - s.focus
	return s.inputs[s.focus].Focus()
}

func (s *SettingsScreen) setNotice(text string, failed bool) {
	s.notice, s.failed = text, failed
}

// parse reads both fields as whole seconds within the allowed bounds.
func (s *SettingsScreen) parse() (study.Pacing, error) {
	var secs [2]int
	for i, in := range s.inputs {
		n, err := in.NumericValue()
		if err != nil || n < minDelaySec || n > maxDelaySec {
			return study.Pacing{}, fmt.Errorf("%s must be between %d and %d seconds", fieldNames[i], minDelaySec, maxDelaySec)
		}
		secs[i] = n
	}
	return study.Pacing{
		TimeToFlip: time.Duration(secs[0]) * time.Second,
		TimeToNext: time.Duration(secs[1]) * time.Second,
	}, nil
}

func (s *SettingsScreen) save() tea.Cmd {
	p, err := s.parse()
	for i := range s.inputs {
		s.inputs[i].Submit(err == nil)
	}
	if err != nil {
		s.setNotice(err.Error(), true)
		return nil
	}
	if s.prefs == nil {
		s.setNotice(backend.ErrUnavailable.Error(), true)
		return nil
	}
	prefs := s.prefs
	return func() tea.Msg {
		return pacingSavedMsg{Err: prefs.SetPacing(context.Background(), p)}
	}
}

func (s *SettingsScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Lightning pacing"))
	b.WriteString("\n\n")
	for i, in := range s.inputs {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		marker := "  "
		if i == s.focus {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
			marker = "▸ "
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-32s", marker, fieldLabels[i])))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if s.notice != "" {
		color := theme.Success
		if s.failed {
			color = theme.Error
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
