// Package practice is the study screen for the card-by-card modes: Speed,
// Lightning, Quiz and Listening.
package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screen"
	"github.com/abhisek/lexiz/internal/screens/summary"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/tts"
	"github.com/abhisek/lexiz/internal/ui/components"
	"github.com/abhisek/lexiz/internal/ui/layout"
)

// PracticeScreen implements screen.Screen for an active study session.
type PracticeScreen struct {
	ctx      context.Context
	session  *study.Session
	reporter study.Reporter
	speaker  *tts.Speaker

	flash *study.Flashcard // Speed
	light *study.Lightning // Lightning
	quiz  *study.Quiz      // Quiz, Listening

	choice components.MultiChoice
	// verdict is the answer being shown during the feedback pause.
	verdict *study.Verdict
	seq     int

	showingQuitConfirm bool
	pausedByConfirm    bool
	muted              bool
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.BackInterceptor = (*PracticeScreen)(nil)
var _ screen.Leaver = (*PracticeScreen)(nil)

// New creates the screen for s. Matching sessions use the matching screen
// instead. reporter and speaker may be nil.
func New(s *study.Session, reporter study.Reporter, speaker *tts.Speaker, p study.Pacing) *PracticeScreen {
	ps := &PracticeScreen{
		ctx:      context.Background(),
		session:  s,
		reporter: reporter,
		speaker:  speaker,
	}
	switch s.Mode {
	case study.ModeLightning:
		ps.light = study.NewLightning(s, nil, p)
	case study.ModeQuiz, study.ModeListening:
		ps.quiz = study.NewQuiz(s, study.NewRand())
		ps.resetChoice()
	default:
		ps.flash = study.NewFlashcard(s)
	}
	return ps
}

func (s *PracticeScreen) Init() tea.Cmd {
	switch {
	case s.light != nil:
		return tea.Batch(delayCmd(s.light.Begin()), s.autoSpeak())
	case s.quiz != nil:
		return s.speakQuestion()
	}
	return s.autoSpeak()
}

func (s *PracticeScreen) Title() string {
	return s.session.Mode.Label()
}

// InterceptBack asks before abandoning a running session.
func (s *PracticeScreen) InterceptBack() bool {
	return !s.session.IsComplete()
}

// Leave stops pacing and releases audio.
func (s *PracticeScreen) Leave() {
	if s.light != nil {
		s.light.Stop()
	}
	s.seq++
	if s.speaker != nil {
		s.speaker.Release()
	}
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	hints := []layout.KeyHint{}
	switch {
	case s.light != nil:
		pause := "Pause"
		if s.session.Paused() {
			pause = "Resume"
		}
		hints = append(hints,
			layout.KeyHint{Key: "Space", Description: pause},
			layout.KeyHint{Key: "F", Description: "Flip"},
			layout.KeyHint{Key: "→", Description: "Next"},
		)
	case s.quiz != nil:
		hints = append(hints,
			layout.KeyHint{Key: "1-4", Description: "Answer"},
			layout.KeyHint{Key: "S", Description: "Repeat word"},
		)
	default:
		hints = append(hints,
			layout.KeyHint{Key: "Space", Description: "Flip"},
			layout.KeyHint{Key: "→", Description: "Next"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pacingFireMsg:
		return s.handleFire(msg)
	case feedbackDoneMsg:
		return s.handleFeedbackDone(msg)
	case spokenMsg:
		s.muted = !msg.OK
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			s.Leave()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.showingQuitConfirm = false
			if s.pausedByConfirm {
				s.pausedByConfirm = false
				return s, delayCmd(s.light.Resume())
			}
		}
		return s, nil
	}

	if key == "esc" {
		s.showingQuitConfirm = true
		if s.light != nil && !s.session.Paused() {
			s.light.Pause()
			s.pausedByConfirm = true
		}
		return s, nil
	}

	switch {
	case s.light != nil:
		return s.handleLightningKey(key)
	case s.quiz != nil:
		return s.handleQuizKey(msg)
	}
	return s.handleFlashcardKey(key)
}

func (s *PracticeScreen) handleFlashcardKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "space", "enter", "f", "up", "down":
		s.flash.Flip()
	case "right", "n", "l":
		if done := s.flash.Next(); done != nil {
			return s, s.finish(done)
		}
		return s, s.autoSpeak()
	case "s":
		return s, s.speakCard()
	}
	return s, nil
}

func (s *PracticeScreen) handleLightningKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "space", "p":
		return s, delayCmd(s.light.TogglePause())
	case "f", "up", "down":
		next := delayCmd(s.light.Flip())
		if !s.light.Flipped {
			return s, next
		}
		return s, tea.Batch(next, s.autoSpeak())
	case "right", "n", "l":
		return s.applyStep(s.light.Next())
	case "s":
		return s, s.speakCard()
	}
	return s, nil
}

func (s *PracticeScreen) handleQuizKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "s" || key == "r" {
		return s, s.speakQuestion()
	}
	if s.quiz.Locked() {
		return s, nil
	}
	if i, ok := s.choice.Pick(key); ok {
		return s.choose(i)
	}
	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) choose(i int) (screen.Screen, tea.Cmd) {
	v, ok := s.quiz.Choose(i)
	if !ok {
		return s, nil
	}
	s.verdict = &v
	s.choice.Reveal(i, correctIndex(s.quiz.Question()))
	seq := s.seq
	return s, tea.Tick(v.Pause, func(time.Time) tea.Msg {
		return feedbackDoneMsg{Seq: seq}
	})
}

func (s *PracticeScreen) handleFeedbackDone(msg feedbackDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.seq || s.quiz == nil || !s.quiz.Locked() {
		return s, nil
	}
	retry := s.verdict != nil && s.verdict.Retry
	s.verdict = nil
	if done := s.quiz.Settle(); done != nil {
		return s, s.finish(done)
	}
	s.resetChoice()
	if retry {
		return s, nil
	}
	return s, s.speakQuestion()
}

func (s *PracticeScreen) handleFire(msg pacingFireMsg) (screen.Screen, tea.Cmd) {
	if s.light == nil {
		return s, nil
	}
	return s.applyStep(s.light.Fire(msg.Handle))
}

func (s *PracticeScreen) applyStep(step study.LightningStep) (screen.Screen, tea.Cmd) {
	if step.Stale {
		return s, nil
	}
	if step.Completion != nil {
		return s, s.finish(step.Completion)
	}
	cmds := []tea.Cmd{delayCmd(step.Next)}
	if step.Advanced || step.Flipped {
		cmds = append(cmds, s.autoSpeak())
	}
	return s, tea.Batch(cmds...)
}

// finish reports the result and swaps in the summary. The summary can
// restart this screen on the same working set.
func (s *PracticeScreen) finish(done *study.Completion) tea.Cmd {
	s.Leave()
	sum := summary.New(done.Result, s.session.Cards(), s.restart)
	ctx, reporter := s.ctx, s.reporter
	return tea.Batch(
		func() tea.Msg {
			study.OnComplete(ctx, reporter, done)
			return nil
		},
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} },
	)
}

// restart begins another pass over the same cards. Init re-arms pacing.
func (s *PracticeScreen) restart() screen.Screen {
	s.seq++
	s.verdict = nil
	s.showingQuitConfirm = false
	s.pausedByConfirm = false
	switch {
	case s.light != nil:
		s.light.Stop()
		s.light.Flashcard.Restart()
		s.session.SetPaused(false)
	case s.quiz != nil:
		s.quiz.Restart()
		s.resetChoice()
	default:
		s.flash.Restart()
	}
	return s
}

func (s *PracticeScreen) resetChoice() {
	q := s.quiz.Question()
	s.choice = components.NewMultiChoice("", q.Options)
}

// autoSpeak pronounces the current card unprompted, but only while its
// English side is the one showing.
func (s *PracticeScreen) autoSpeak() tea.Cmd {
	if !s.englishShowing() {
		return nil
	}
	return s.speakCard()
}

func (s *PracticeScreen) englishShowing() bool {
	var flipped bool
	switch {
	case s.light != nil:
		flipped = s.light.Flipped
	case s.flash != nil:
		flipped = s.flash.Flipped
	}
	return (s.session.Direction == study.EnglishFirst) != flipped
}

// speakCard pronounces the English side of the current card.
func (s *PracticeScreen) speakCard() tea.Cmd {
	c, ok := s.session.Current()
	if !ok {
		return nil
	}
	return s.speak(c.EnglishWord)
}

func (s *PracticeScreen) speakQuestion() tea.Cmd {
	if s.quiz == nil {
		return nil
	}
	return s.speak(s.quiz.Question().Speak)
}

func (s *PracticeScreen) speak(text string) tea.Cmd {
	if s.speaker == nil || !s.speaker.Enabled() || text == "" {
		return nil
	}
	sp, ctx := s.speaker, s.ctx
	return func() tea.Msg {
		return spokenMsg{OK: sp.SpeakWithin(ctx, text, 0)}
	}
}

func delayCmd(d *study.Delay) tea.Cmd {
	if d == nil {
		return nil
	}
	h := d.Handle
	return tea.Tick(d.After, func(time.Time) tea.Msg {
		return pacingFireMsg{Handle: h}
	})
}

func correctIndex(q study.Question) int {
	for i := range q.Options {
		if q.Correct(i) {
			return i
		}
	}
	return -1
}
