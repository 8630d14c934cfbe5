package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default indigo
	MascotCelebrating                      // Gold, star eyes: studied today
	MascotAlert                            // Amber, exclamation: empty deck
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ A Я │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ A Я │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ A Я │
└─────┘`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch variant {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.ArcadeYellow
	case MascotAlert:
		art, fg = mascotAlert, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

// mascotFor picks the mascot mood from the learner's overview.
func mascotFor(ov *backend.Overview) MascotVariant {
	switch {
	case ov == nil:
		return MascotIdle
	case ov.TotalWords == 0:
		return MascotAlert
	case ov.ViewedToday > 0 || ov.TimeToday > 0:
		return MascotCelebrating
	}
	return MascotIdle
}
