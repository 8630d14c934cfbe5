package app

import (
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/screens/home"
	"github.com/abhisek/lexiz/internal/screens/login"
	"github.com/abhisek/lexiz/internal/screens/setup"
	"github.com/abhisek/lexiz/internal/screens/welcome"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Services *backend.Services

	// Mode, when set, skips the splash and opens that mode's setup on top
	// of the home screen, behind the sign-in form when signed out.
	Mode study.Mode
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	svc    *backend.Services
	start  tea.Cmd
	width  int
	height int
}

// newAppModel builds the initial stack. Online and signed out, the splash
// hands over to the sign-in form, which continues to home.
func newAppModel(opts Options) AppModel {
	svc := opts.Services
	homeFactory := func() screen.Screen { return home.New(svc) }

	if opts.Mode != "" {
		var first screen.Screen = setup.New(svc, opts.Mode)
		if !svc.SignedIn() && svc.Account != nil {
			first = login.New(svc.Account, func() screen.Screen { return setup.New(svc, opts.Mode) })
		}
		return AppModel{
			router: router.New(homeFactory()),
			svc:    svc,
			start:  func() tea.Msg { return router.PushScreenMsg{Screen: first} },
		}
	}

	next := homeFactory
	if !svc.SignedIn() && svc.Account != nil {
		next = func() screen.Screen { return login.New(svc.Account, homeFactory) }
	}
	return AppModel{
		router: router.New(welcome.New(next)),
		svc:    svc,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.start)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bi, ok := m.router.Active().(screen.BackInterceptor); ok && bi.InterceptBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.svc.Status(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Services == nil {
		return fmt.Errorf("app: no services")
	}
	defer opts.Services.Speaker.Release()

	slog.Info("tui start", "offline", opts.Services.Offline, "mode", string(opts.Mode))
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
