package study

import (
	"testing"
	"time"

	"github.com/abhisek/lexiz/internal/study/pacing"
)

// lightningHarness delivers Lightning delays through a manual clock, the
// way the TUI delivers them through tea.Tick.
type lightningHarness struct {
	t     *testing.T
	clock *pacing.ManualClock
	l     *Lightning
	steps []LightningStep
	stale int
	done  *Completion
}

func newLightningHarness(t *testing.T, n int, p Pacing) *lightningHarness {
	t.Helper()
	clock := pacing.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s, err := Start(testCards(n), All(), EnglishFirst, ModeLightning, WithClock(clock.Now))
	if err != nil {
		t.Fatal(err)
	}
	h := &lightningHarness{t: t, clock: clock}
	h.l = NewLightning(s, pacing.New(clock), p)
	return h
}

func (h *lightningHarness) deliver(d *Delay) {
	if d == nil {
		return
	}
	handle := d.Handle
	h.clock.AfterFunc(d.After, func() {
		step := h.l.Fire(handle)
		if step.Stale {
			h.stale++
			return
		}
		h.steps = append(h.steps, step)
		if step.Completion != nil {
			h.done = step.Completion
		}
		h.deliver(step.Next)
	})
}

func TestLightning_ScenarioD_FlipAtThreeSeconds(t *testing.T) {
	h := newLightningHarness(t, 3, DefaultPacing())
	h.deliver(h.l.Begin())

	h.clock.Advance(2999 * time.Millisecond)
	if h.l.Flipped {
		t.Fatal("flipped before 3s")
	}
	h.clock.Advance(time.Millisecond)
	if !h.l.Flipped {
		t.Fatal("expected flip at 3s")
	}
}

func TestLightning_ScenarioD_PauseResumeRestartsFullDelay(t *testing.T) {
	h := newLightningHarness(t, 3, DefaultPacing())
	h.deliver(h.l.Begin())

	h.clock.Advance(2 * time.Second)
	h.l.Pause()
	h.clock.Advance(10 * time.Second)
	if h.l.Flipped {
		t.Fatal("flipped while paused")
	}

	h.deliver(h.l.Resume())
	h.clock.Advance(2999 * time.Millisecond)
	if h.l.Flipped {
		t.Fatal("resume must restart the full 3s, not the 1s remainder")
	}
	h.clock.Advance(time.Millisecond)
	if !h.l.Flipped {
		t.Fatal("expected flip 3s after resume")
	}
	if len(h.steps) != 1 {
		t.Fatalf("expected exactly one flip, got %d steps", len(h.steps))
	}
}

func TestLightning_FullCycleRecordsEveryCard(t *testing.T) {
	h := newLightningHarness(t, 2, DefaultPacing())
	h.deliver(h.l.Begin())

	// 2 cards x (3s flip + 5s next).
	h.clock.Advance(16 * time.Second)

	if h.done == nil {
		t.Fatal("expected completion after two full cycles")
	}
	if got := h.done.Result.TotalTimeSpentSec; got != 16 {
		t.Errorf("TotalTimeSpentSec = %d, want 16", got)
	}
	for _, r := range h.done.Result.CardResults {
		if !r.IsCorrect {
			t.Errorf("lightning records every card as reviewed, got miss for %s", r.CardID)
		}
	}
	if h.clock.Waiting() != 0 {
		t.Errorf("timers left after completion: %d", h.clock.Waiting())
	}
}

func TestLightning_ManualNextDropsStaleTimer(t *testing.T) {
	h := newLightningHarness(t, 3, DefaultPacing())
	h.deliver(h.l.Begin())

	h.clock.Advance(time.Second)
	step := h.l.Next()
	h.deliver(step.Next)

	// The first card's flip timer would have fired at 3s. It must be
	// rejected and the second card must flip at 1s + 3s.
	h.clock.Advance(2 * time.Second)
	if h.l.Flipped {
		t.Fatal("stale flip timer acted on the new card")
	}
	if h.stale != 1 {
		t.Errorf("stale fires = %d, want 1", h.stale)
	}
	h.clock.Advance(time.Second)
	if !h.l.Flipped {
		t.Fatal("new card should flip 3s after it was shown")
	}
	if h.l.Session().Position() != 1 {
		t.Errorf("position = %d, want 1", h.l.Session().Position())
	}
}

func TestLightning_CustomPacingAndDefaults(t *testing.T) {
	h := newLightningHarness(t, 2, Pacing{TimeToFlip: time.Second})
	if h.l.Pacing().TimeToNext != 5*time.Second {
		t.Errorf("zero next delay should default to 5s, got %v", h.l.Pacing().TimeToNext)
	}
	h.deliver(h.l.Begin())
	h.clock.Advance(time.Second)
	if !h.l.Flipped {
		t.Fatal("expected flip after 1s")
	}
}

func TestLightning_TogglePause(t *testing.T) {
	h := newLightningHarness(t, 2, DefaultPacing())
	h.deliver(h.l.Begin())

	if d := h.l.TogglePause(); d != nil {
		t.Fatal("pausing must not arm a timer")
	}
	if !h.l.Session().Paused() {
		t.Fatal("expected paused")
	}
	if d := h.l.Begin(); d != nil {
		t.Fatal("Begin while paused must not arm a timer")
	}
	h.deliver(h.l.TogglePause())
	h.clock.Advance(3 * time.Second)
	if !h.l.Flipped {
		t.Fatal("expected flip after resuming")
	}
}
