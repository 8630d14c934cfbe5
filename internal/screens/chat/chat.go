// Package chat is conversation practice with a tutor that can correct the
// learner's messages.
package chat

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/ui/components"
	"github.com/abhisek/lexiz/internal/ui/layout"
	"github.com/abhisek/lexiz/internal/ui/theme"
)

// Levels are the CEFR levels a conversation can be pitched at.
var Levels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

const defaultLevel = 2 // B1

type openedMsg struct {
	ID  string
	Err error
}

type replyMsg struct {
	Reply *backend.ChatReply
	Err   error
}

type entry struct {
	fromLearner bool
	text        string
	correction  string
	explanation string
}

// ChatScreen first asks for a topic and level, then runs the conversation.
type ChatScreen struct {
	chat    backend.Chat
	topic   components.TextInput
	level   int
	input   components.TextInput
	vp      viewport.Model
	id      string
	entries []entry
	correct bool
	busy    bool
	errMsg  string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a ChatScreen over c.
func New(c backend.Chat) *ChatScreen {
	input := components.NewTextInput("Write in English...", false, 500)
	input.Blur()
	return &ChatScreen{
		chat:    c,
		topic:   components.NewTextInput("e.g. travel, food, your weekend", false, 80),
		level:   defaultLevel,
		input:   input,
		vp:      viewport.New(),
		correct: true,
	}
}

func (s *ChatScreen) started() bool { return s.id != "" }

func (s *ChatScreen) Init() tea.Cmd {
	return s.topic.Init()
}

func (s *ChatScreen) Title() string {
	if s.started() {
		return fmt.Sprintf("Chat · %s", Levels[s.level])
	}
	return "Chat"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	if !s.started() {
		return []layout.KeyHint{
			{Key: "←→", Description: "Level"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	}
	corrections := "Corrections on"
	if !s.correct {
		corrections = "Corrections off"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+T", Description: corrections},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openedMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = "Could not start the chat: " + msg.Err.Error()
			return s, nil
		}
		s.id = msg.ID
		s.errMsg = ""
		s.topic.Blur()
		return s, s.input.Focus()

	case replyMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = "No reply: " + msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.entries = append(s.entries, entry{
			text:        msg.Reply.Text,
			correction:  msg.Reply.Correction,
			explanation: msg.Reply.Explanation,
		})
		s.refresh()
		return s, nil

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		if !s.started() {
			return s, s.updateSetup(msg)
		}
		switch msg.String() {
		case "ctrl+t":
			s.correct = !s.correct
			return s, nil
		case "enter":
			return s, s.send()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			s.vp, cmd = s.vp.Update(msg)
			return s, cmd
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChatScreen) updateSetup(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left":
		s.level = max(s.level-1, 0)
		return nil
	case "right":
		s.level = min(s.level+1, len(Levels)-1)
		return nil
	case "enter":
		return s.open()
	}
	var cmd tea.Cmd
	s.topic, cmd = s.topic.Update(msg)
	return cmd
}

func (s *ChatScreen) open() tea.Cmd {
	topic := strings.TrimSpace(s.topic.Value())
	if topic == "" {
		s.errMsg = "Pick a topic to talk about"
		return nil
	}
	s.busy = true
	s.errMsg = ""
	c, level := s.chat, Levels[s.level]
	return func() tea.Msg {
		id, err := c.Open(context.Background(), topic, level)
		return openedMsg{ID: id, Err: err}
	}
}

func (s *ChatScreen) send() tea.Cmd {
	text := strings.TrimSpace(s.input.Value())
	if text == "" {
		return nil
	}
	s.input.Reset()
	s.entries = append(s.entries, entry{fromLearner: true, text: text})
	s.refresh()

	s.busy = true
	c, id, correct := s.chat, s.id, s.correct
	return func() tea.Msg {
		r, err := c.Send(context.Background(), id, text, correct)
		return replyMsg{Reply: r, Err: err}
	}
}

// refresh re-renders the transcript and keeps the newest message in view.
func (s *ChatScreen) refresh() {
	s.vp.SetContent(renderTranscript(s.entries, s.vp.Width()))
	s.vp.GotoBottom()
}

func (s *ChatScreen) View(width, height int) string {
	if !s.started() {
		return s.viewSetup(width, height)
	}

	cw := min(width-4, 90)
	if s.vp.Width() != cw || s.vp.Height() != height-5 {
		s.vp.SetWidth(cw)
		s.vp.SetHeight(max(height-5, 3))
		s.refresh()
	}

	var status string
	switch {
	case s.busy:
		status = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("tutor is typing...")
	case s.errMsg != "":
		status = lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)
	}

	inputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(cw).
		Render(s.input.View())

	content := lipgloss.JoinVertical(lipgloss.Left, s.vp.View(), status, inputBox)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (s *ChatScreen) viewSetup(width, height int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("What shall we talk about?"))
	b.WriteString("\n\n")
	b.WriteString(s.topic.View())
	b.WriteString("\n\n")

	var levels []string
	for i, l := range Levels {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.level {
			style = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)
		}
		levels = append(levels, style.Render(" "+l+" "))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("Level  "))
	b.WriteString(strings.Join(levels, " "))

	switch {
	case s.busy:
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("Starting..."))
	case s.errMsg != "":
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	card := components.ArcadeCard(b.String(), components.ContentWidth(width))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func renderTranscript(entries []entry, width int) string {
	if len(entries) == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("Say hello to start the conversation.")
	}
	bubble := max(width*3/4, 20)

	var blocks []string
	for _, e := range entries {
		if e.fromLearner {
			msg := lipgloss.NewStyle().
				Foreground(theme.Text).
				Background(theme.BgCard).
				Padding(0, 1).
				MaxWidth(bubble).
				Render(e.text)
			blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Right, msg))
			continue
		}

		var parts []string
		if e.correction != "" {
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Render("✎ "+e.correction))
			if e.explanation != "" {
				parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("  "+e.explanation))
			}
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Primary).Render(e.text))
		blocks = append(blocks, lipgloss.NewStyle().Width(bubble).Render(strings.Join(parts, "\n")))
	}
	return strings.Join(blocks, "\n\n")
}
