// Package pacing provides cancelable per-slot delays that drive automatic
// flip and advance transitions.
//
// Every slot carries a generation counter. Scheduling a slot bumps its
// generation, which both stops the pending timer and invalidates any fire
// that already escaped Stop. A callback only runs if its generation is still
// current when it fires, so a stale timer can never act on a newer card.
package pacing

import (
	"sync"
	"time"
)

// Slot names an independent timer lane, e.g. "flip" or "next".
type Slot string

// Handle identifies one scheduled delay.
type Handle struct {
	Slot Slot
	Gen  uint64
}

// Timer multiplexes named slots over a Clock.
type Timer struct {
	mu    sync.Mutex
	clock Clock
	gen   map[Slot]uint64
	stops map[Slot]func() bool
}

// New creates a Timer. A nil clock means the system clock.
func New(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timer{
		clock: clock,
		gen:   make(map[Slot]uint64),
		stops: make(map[Slot]func() bool),
	}
}

// Arm invalidates whatever is pending in slot and returns a fresh handle for
// it without starting a clock timer. Callers that deliver fires through
// their own event loop (bubbletea's tea.Tick) pair Arm with Claim.
func (t *Timer) Arm(slot Slot) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armLocked(slot)
}

func (t *Timer) armLocked(slot Slot) Handle {
	if stop := t.stops[slot]; stop != nil {
		stop()
		delete(t.stops, slot)
	}
	t.gen[slot]++
	return Handle{Slot: slot, Gen: t.gen[slot]}
}

// Schedule runs fn after delay unless the slot is rescheduled or cancelled
// first. Any delay pending in the same slot is cancelled.
func (t *Timer) Schedule(slot Slot, delay time.Duration, fn func()) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.armLocked(slot)
	t.stops[slot] = t.clock.AfterFunc(delay, func() {
		if t.Claim(h) {
			fn()
		}
	})
	return h
}

// Claim reports whether h is still the live handle of its slot and, if so,
// retires it so it can be claimed at most once.
func (t *Timer) Claim(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen[h.Slot] != h.Gen {
		return false
	}
	t.gen[h.Slot]++
	delete(t.stops, h.Slot)
	return true
}

// Pending reports whether h has neither fired nor been cancelled.
func (t *Timer) Pending(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen[h.Slot] == h.Gen
}

// Cancel stops h. Cancelling twice, or after the fire, is a no-op.
func (t *Timer) Cancel(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen[h.Slot] != h.Gen {
		return
	}
	t.armLocked(h.Slot)
}

// CancelSlot stops whatever is pending in slot.
func (t *Timer) CancelSlot(slot Slot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.armLocked(slot)
}

// Stop cancels every slot.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for slot := range t.gen {
		t.armLocked(slot)
	}
}

// Now returns the current time of the underlying clock.
func (t *Timer) Now() time.Time {
	return t.clock.Now()
}
