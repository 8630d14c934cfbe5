package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/screens/cards"
	"github.com/abhisek/lexiz/internal/screens/chat"
	"github.com/abhisek/lexiz/internal/screens/history"
	"github.com/abhisek/lexiz/internal/screens/login"
	"github.com/abhisek/lexiz/internal/screens/placeholder"
	"github.com/abhisek/lexiz/internal/screens/profile"
	"github.com/abhisek/lexiz/internal/screens/settings"
	"github.com/abhisek/lexiz/internal/screens/setup"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/ui/components"
	"github.com/abhisek/lexiz/internal/ui/layout"
)

type overviewLoadedMsg struct {
	Overview *backend.Overview
	Err      error
}

type signedOutMsg struct {
	Err error
}

// HomeScreen is the main menu. It shows today's numbers and a grid of study
// modes and tools.
type HomeScreen struct {
	svc      *backend.Services
	menu     components.Menu
	overview *backend.Overview
	notice   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen over svc.
func New(svc *backend.Services) *HomeScreen {
	h := &HomeScreen{svc: svc}
	h.menu = h.buildMenu(0)
	return h
}

func (h *HomeScreen) buildMenu(selected int) components.Menu {
	locked := !h.svc.SignedIn()
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}
	studyItem := func(mode study.Mode) components.MenuItem {
		return components.MenuItem{
			Label:    strings.ToUpper(mode.Label()),
			Disabled: locked,
			Action:   push(func() screen.Screen { return setup.New(h.svc, mode) }),
		}
	}

	var items []components.MenuItem
	for _, mode := range study.Modes {
		items = append(items, studyItem(mode))
	}
	items = append(items, []components.MenuItem{
		{Label: "CHAT", Disabled: locked || h.svc.Chat == nil, Action: push(func() screen.Screen {
			return chat.New(h.svc.Chat)
		})},
		{Label: "MY WORDS", Disabled: locked, Action: push(func() screen.Screen {
			return cards.New(h.svc.Deck)
		})},
		{Label: "HISTORY", Disabled: locked, Action: push(func() screen.Screen {
			if h.svc.History == nil {
				return placeholder.New("History", "Session history is not kept in this mode.")
			}
			return history.New(h.svc.History)
		})},
		{Label: "PROFILE", Disabled: locked, Action: push(func() screen.Screen {
			return profile.New(h.svc.Profile)
		})},
		{Label: "SETTINGS", Action: push(func() screen.Screen {
			return settings.New(h.svc.Prefs)
		})},
	}...)
	if h.svc.Account != nil {
		if h.svc.Account.Username() == "" {
			items = append(items, components.MenuItem{Label: "SIGN IN", Action: push(func() screen.Screen {
				return login.New(h.svc.Account, nil)
			})})
		} else {
			items = append(items, components.MenuItem{Label: "SIGN OUT", Action: h.signOut})
		}
	}
	items = append(items, components.MenuItem{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }})

	m := components.NewMenu(items)
	m.Columns = 2
	if selected < len(items) && !items[selected].Disabled {
		m.Selected = selected
	}
	return m
}

func (h *HomeScreen) signOut() tea.Cmd {
	account := h.svc.Account
	return func() tea.Msg {
		return signedOutMsg{Err: account.Logout(context.Background())}
	}
}

func (h *HomeScreen) loadOverview() tea.Cmd {
	profile := h.svc.Profile
	if profile == nil || !h.svc.SignedIn() {
		return nil
	}
	return func() tea.Msg {
		ov, err := profile.Overview(context.Background())
		return overviewLoadedMsg{Overview: ov, Err: err}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadOverview()
}

// Resume rebuilds the menu for the current sign-in state and reloads stats,
// which change after every study session.
func (h *HomeScreen) Resume() tea.Cmd {
	h.menu = h.buildMenu(h.menu.Selected)
	return h.loadOverview()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewLoadedMsg:
		if msg.Err != nil {
			h.notice = "Could not load stats: " + msg.Err.Error()
			return h, nil
		}
		h.overview = msg.Overview
		h.notice = ""
		return h, nil

	case signedOutMsg:
		if msg.Err != nil {
			h.notice = "Sign out failed: " + msg.Err.Error()
		}
		h.overview = nil
		h.menu = h.buildMenu(h.menu.Selected)
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 36 || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(h.overview), cw))
	}
	switch {
	case !h.svc.SignedIn():
		sections = append(sections, renderNotice("Sign in to study your words", cw))
	default:
		sections = append(sections, renderStatsBar(h.overview, cw, compact))
	}
	if h.notice != "" {
		sections = append(sections, renderNotice(h.notice, cw))
	}
	if compact {
		sections = append(sections, renderArcadeMenuCompact(h.menu, cw))
	} else {
		sections = append(sections, renderArcadeMenu(h.menu, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
