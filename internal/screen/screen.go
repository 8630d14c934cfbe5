package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiz/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackInterceptor is implemented by screens that handle Esc themselves,
// e.g. to ask before abandoning a study session.
type BackInterceptor interface {
	InterceptBack() bool
}

// Leaver is implemented by screens holding resources (timers, audio) that
// must be released when the screen leaves the stack.
type Leaver interface {
	Leave()
}

// Resumer is implemented by screens that refresh their data when they become
// the top of the stack again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}
