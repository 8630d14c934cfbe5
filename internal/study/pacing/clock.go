package pacing

import "time"

// Clock is the time source behind a Timer.
type Clock interface {
	Now() time.Time

	// AfterFunc runs f after d on its own goroutine. The returned stop
	// function reports whether it prevented f from running.
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) func() bool {
	t := time.AfterFunc(d, f)
	return t.Stop
}
