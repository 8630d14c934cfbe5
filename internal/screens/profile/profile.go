// Package profile shows the learner's level, today's numbers, missions and
// achievements.
package profile

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/ui/components"
	"github.com/abhisek/lexiz/internal/ui/layout"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

type tab int

const (
	tabMissions tab = iota
	tabAchievements
	tabCount
)

func (t tab) label() string {
	if t == tabAchievements {
		return "Achievements"
	}
	return "Today's missions"
}

type overviewLoadedMsg struct {
	Overview *backend.Overview
	Err      error
}

// ProfileScreen displays the learner overview.
type ProfileScreen struct {
	profile      backend.Profile
	overview     *backend.Overview
	tab          tab
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a ProfileScreen. A nil profile shows an unavailable notice.
func New(profile backend.Profile) *ProfileScreen {
	return &ProfileScreen{profile: profile}
}

func (s *ProfileScreen) Init() tea.Cmd {
	profile := s.profile
	return func() tea.Msg {
		if profile == nil {
			return overviewLoadedMsg{Err: backend.ErrUnavailable}
		}
		ov, err := profile.Overview(context.Background())
		return overviewLoadedMsg{Overview: ov, Err: err}
	}
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch list"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.overview = msg.Overview
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			s.tab = (s.tab + 1) % tabCount
			s.scrollOffset = 0
		case "shift+tab":
			s.tab = (s.tab - 1 + tabCount) % tabCount
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < s.listLen()-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

func (s *ProfileScreen) listLen() int {
	if s.overview == nil {
		return 0
	}
	if s.tab == tabAchievements {
		return len(s.overview.Achievements)
	}
	return len(s.overview.Missions)
}

func (s *ProfileScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded || s.overview == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading profile...")
	}

	ov := s.overview
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ArcadeCard(renderSummary(ov), cw)))
	b.WriteString("\n\n")

	var tabs []string
	for t := tab(0); t < tabCount; t++ {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if t == s.tab {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		tabs = append(tabs, style.Render(t.label()))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	var rows []string
	if s.tab == tabAchievements {
		rows = achievementRows(ov.Achievements, cw)
	} else {
		rows = missionRows(ov.Missions, cw)
	}
	if len(rows) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("Nothing here yet"))
		return b.String()
	}

	maxVisible := max(height-14, 3)
	end := min(s.scrollOffset+maxVisible, len(rows))
	for _, r := range rows[s.scrollOffset:end] {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, r))
		b.WriteString("\n")
	}
	if end < len(rows) {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(rows)-end)))
	}
	return b.String()
}

func renderSummary(ov *backend.Overview) string {
	name := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(ov.Username)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	var lines []string
	lines = append(lines, name)
	if ov.Level > 0 || ov.LanguageLevel != "" {
		lines = append(lines, dim.Render("Level ")+val.Render(fmt.Sprint(ov.Level))+
			dim.Render("  ·  XP ")+val.Render(fmt.Sprint(ov.XP))+
			languageLevel(ov.LanguageLevel, dim, val))
	}
	lines = append(lines,
		dim.Render("Words ")+val.Render(fmt.Sprintf("%d", ov.TotalWords))+
			dim.Render("  ·  learned ")+val.Render(fmt.Sprintf("%d", ov.LearnedWords)))
	lines = append(lines,
		dim.Render("Today ")+val.Render(fmt.Sprintf("%d min", int(ov.TimeToday.Minutes())))+
			dim.Render("  ·  cards seen ")+val.Render(fmt.Sprintf("%d", ov.ViewedToday)))
	return strings.Join(lines, "\n")
}

func languageLevel(level string, dim, val lipgloss.Style) string {
	if level == "" {
		return ""
	}
	return dim.Render("  ·  ") + val.Render(level)
}

func missionRows(missions []backend.Mission, cw int) []string {
	var rows []string
	for _, m := range missions {
		icon, style := "○", lipgloss.NewStyle().Foreground(theme.Text)
		if m.Done() {
			icon, style = "●", lipgloss.NewStyle().Foreground(theme.Success)
		}
		head := style.Render(fmt.Sprintf("%s %s", icon, m.Name))
		if m.RewardXP > 0 {
			head += lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("  +%d XP", m.RewardXP))
		}
		rows = append(rows, head, progressRow(m.Progress, m.Target, cw))
	}
	return rows
}

func achievementRows(achievements []backend.Achievement, cw int) []string {
	var rows []string
	for _, a := range achievements {
		icon, style := "☆", lipgloss.NewStyle().Foreground(theme.Text)
		if a.Unlocked {
			icon, style = "★", lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s %s", icon, a.Name)))
		if a.Description != "" {
			rows = append(rows, lipgloss.NewStyle().Foreground(theme.TextDim).Render("  "+a.Description))
		}
		if !a.Unlocked && a.Threshold > 0 {
			rows = append(rows, progressRow(a.Progress, a.Threshold, cw))
		}
	}
	return rows
}

func progressRow(progress, target, cw int) string {
	pct := 1.0
	if target > 0 {
		pct = min(float64(progress)/float64(target), 1)
	}
	return components.NewProgressBar(fmt.Sprintf("%d/%d", progress, target), pct, false, cw-4).View()
}
