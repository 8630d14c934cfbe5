package study

import (
	"time"

	"github.com/abhisek/lexiz/internal/study/pacing"
)

// Timer slots used by Lightning.
const (
	SlotFlip pacing.Slot = "flip"
	SlotNext pacing.Slot = "next"
)

// Pacing holds the Lightning delays.
type Pacing struct {
	TimeToFlip time.Duration
	TimeToNext time.Duration
}

// DefaultPacing is used when no preference is stored.
func DefaultPacing() Pacing {
	return Pacing{TimeToFlip: 3 * time.Second, TimeToNext: 5 * time.Second}
}

// Delay asks the host loop to call Fire with Handle once After elapses.
type Delay struct {
	Handle pacing.Handle
	After  time.Duration
}

// LightningStep reports what a fire or manual action changed.
type LightningStep struct {
	// Stale is set when the fire belonged to a cancelled or replaced timer.
	Stale bool

	Flipped    bool
	Advanced   bool
	Completion *Completion

	// Next is the delay the host must arm, if any.
	Next *Delay
}

// Lightning drives timed review: each card flips after TimeToFlip and moves
// on TimeToNext later. Fires are delivered by the host through Fire, so the
// controller stays single-threaded; stale fires are rejected by the timer's
// generation check.
//
// Pause cancels both slots. Resume restarts whichever slot was pending from
// its full delay.
type Lightning struct {
	*Flashcard

	timer  *pacing.Timer
	pacing Pacing
}

// NewLightning wraps s. A zero delay in p falls back to the default.
func NewLightning(s *Session, timer *pacing.Timer, p Pacing) *Lightning {
	def := DefaultPacing()
	if p.TimeToFlip <= 0 {
		p.TimeToFlip = def.TimeToFlip
	}
	if p.TimeToNext <= 0 {
		p.TimeToNext = def.TimeToNext
	}
	if timer == nil {
		timer = pacing.New(nil)
	}
	return &Lightning{Flashcard: NewFlashcard(s), timer: timer, pacing: p}
}

// Pacing returns the delays in effect.
func (l *Lightning) Pacing() Pacing { return l.pacing }

// Begin arms the timer for the current card.
func (l *Lightning) Begin() *Delay {
	if l.session.Paused() || l.session.IsComplete() {
		return nil
	}
	if l.Flipped {
		return l.arm(SlotNext, l.pacing.TimeToNext)
	}
	return l.arm(SlotFlip, l.pacing.TimeToFlip)
}

func (l *Lightning) arm(slot pacing.Slot, d time.Duration) *Delay {
	// Only one slot is ever live for a card.
	l.timer.CancelSlot(SlotFlip)
	l.timer.CancelSlot(SlotNext)
	return &Delay{Handle: l.timer.Arm(slot), After: d}
}

// Fire applies a timer expiry.
func (l *Lightning) Fire(h pacing.Handle) LightningStep {
	if l.session.Paused() || !l.timer.Claim(h) {
		return LightningStep{Stale: true}
	}
	switch h.Slot {
	case SlotFlip:
		l.Flipped = true
		return LightningStep{Flipped: true, Next: l.arm(SlotNext, l.pacing.TimeToNext)}
	case SlotNext:
		return l.next()
	}
	return LightningStep{Stale: true}
}

// Flip reveals or hides the back by hand. Revealing re-arms the next timer.
func (l *Lightning) Flip() *Delay {
	l.Flashcard.Flip()
	return l.Begin()
}

// Next moves on by hand.
func (l *Lightning) Next() LightningStep {
	return l.next()
}

func (l *Lightning) next() LightningStep {
	done := l.Flashcard.Next()
	if done != nil {
		l.timer.Stop()
		return LightningStep{Advanced: true, Completion: done}
	}
	return LightningStep{Advanced: true, Next: l.Begin()}
}

// Pause suspends pacing.
func (l *Lightning) Pause() {
	l.session.SetPaused(true)
	l.timer.CancelSlot(SlotFlip)
	l.timer.CancelSlot(SlotNext)
}

// Resume restarts pacing with a full delay.
func (l *Lightning) Resume() *Delay {
	l.session.SetPaused(false)
	return l.Begin()
}

// TogglePause flips between Pause and Resume.
func (l *Lightning) TogglePause() *Delay {
	if l.session.Paused() {
		return l.Resume()
	}
	l.Pause()
	return nil
}

// SetPacing replaces the delays. The running card keeps its armed timer.
func (l *Lightning) SetPacing(p Pacing) {
	if p.TimeToFlip > 0 {
		l.pacing.TimeToFlip = p.TimeToFlip
	}
	if p.TimeToNext > 0 {
		l.pacing.TimeToNext = p.TimeToNext
	}
}

// Restart begins another pass and arms the first card.
func (l *Lightning) Restart() *Delay {
	l.Flashcard.Restart()
	return l.Begin()
}

// Stop cancels all pending timers.
func (l *Lightning) Stop() {
	l.timer.Stop()
}
