// Package login signs the learner in or creates an account.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/ui/components"
	"github.com/abhisek/lexiz/internal/ui/layout"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// form is what the learner typed. Username is only sent when registering.
type form struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Username string `validate:"omitempty,max=32"`
}

// problem turns a validation failure into a message for the learner.
func (f form) problem() string {
	err := validate.Struct(f)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	switch fe := verrs[0]; fe.Field() {
	case "Email":
		if fe.Tag() == "required" {
			return "Enter your email and password"
		}
		return "That email doesn't look right"
	case "Password":
		if fe.Tag() == "required" {
			return "Enter your email and password"
		}
		return "Password must be at least 6 characters"
	default:
		return "Username must be at most 32 characters"
	}
}

const (
	fieldEmail = iota
	fieldPassword
	fieldUsername
)

type doneMsg struct {
	Err error
}

// LoginScreen is the sign-in and registration form.
type LoginScreen struct {
	account  backend.Account
	next     func() screen.Screen
	inputs   [3]components.TextInput
	focus    int
	register bool
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)
var _ screen.BackInterceptor = (*LoginScreen)(nil)

// New creates a LoginScreen. On success, or when the learner skips with Esc,
// it replaces itself with next(); with a nil next it pops instead.
func New(account backend.Account, next func() screen.Screen) *LoginScreen {
	s := &LoginScreen{account: account, next: next}
	s.inputs[fieldEmail] = components.NewTextInput("email", false, 254)
	s.inputs[fieldPassword] = components.NewPasswordInput("password", 128)
	s.inputs[fieldUsername] = components.NewTextInput("username (optional)", false, 32)
	s.inputs[fieldPassword].Blur()
	s.inputs[fieldUsername].Blur()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.inputs[fieldEmail].Init()
}

func (s *LoginScreen) Title() string {
	if s.register {
		return "Create account"
	}
	return "Sign in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	toggle := "Create account"
	if s.register {
		toggle = "Sign in instead"
	}
	skip := "Back"
	if s.next != nil {
		skip = "Skip"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+R", Description: toggle},
		{Key: "Esc", Description: skip},
	}
}

// InterceptBack lets Esc continue to next when the form was shown at startup.
func (s *LoginScreen) InterceptBack() bool {
	return s.next != nil
}

func (s *LoginScreen) fieldCount() int {
	if s.register {
		return 3
	}
	return 2
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.inputs[fieldPassword].Reset()
			return s, s.setFocus(fieldPassword)
		}
		return s, s.leave()

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, s.leave()
		case "ctrl+r":
			s.register = !s.register
			s.errMsg = ""
			if s.focus >= s.fieldCount() {
				return s, s.setFocus(fieldEmail)
			}
			return s, nil
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % s.fieldCount())
		case "shift+tab", "up":
			return s, s.setFocus((s.focus - 1 + s.fieldCount()) % s.fieldCount())
		case "enter":
			if s.focus < s.fieldCount()-1 {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *LoginScreen) setFocus(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[i].Focus()
}

func (s *LoginScreen) leave() tea.Cmd {
	if s.next == nil {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := s.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *LoginScreen) submit() tea.Cmd {
	f := form{
		Email:    strings.TrimSpace(s.inputs[fieldEmail].Value()),
		Password: s.inputs[fieldPassword].Value(),
	}
	if s.register {
		f.Username = strings.TrimSpace(s.inputs[fieldUsername].Value())
	}
	if p := f.problem(); p != "" {
		s.errMsg = p
		return nil
	}

	s.busy = true
	s.errMsg = ""
	account, register := s.account, s.register
	return func() tea.Msg {
		ctx := context.Background()
		if register {
			return doneMsg{Err: account.Register(ctx, f.Email, f.Password, f.Username)}
		}
		return doneMsg{Err: account.Login(ctx, f.Email, f.Password)}
	}
}

func (s *LoginScreen) View(width, height int) string {
	labels := []string{"Email", "Password", "Username"}
	var b strings.Builder

	heading := "Welcome back"
	if s.register {
		heading = "Create your account"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(heading))
	b.WriteString("\n\n")

	for i := 0; i < s.fieldCount(); i++ {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.focus {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(s.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case s.busy:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("Signing in..."))
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	card := components.ArcadeCard(b.String(), min(components.ContentWidth(width), 50))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
