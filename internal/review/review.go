// Package review schedules offline card reviews on an expanding interval.
// The server keeps its own schedule; this one is derived from the local
// per-card answer tallies.
package review

import (
	"sort"
	"time"

	"github.com/abhisek/lexiz/internal/store"
)

// Intervals is the expanding schedule in days, indexed by stage.
var Intervals = []int{1, 3, 7, 14, 30, 60}

// State is the review schedule of one card.
type State struct {
	CardID     string
	Stage      int
	LastReview time.Time
	NextReview time.Time
}

// IsDue reports whether the card should be reviewed at now.
func (s State) IsDue(now time.Time) bool {
	return !now.Before(s.NextReview)
}

// OverdueDays is how long past due the card is, 0 when not yet due.
func (s State) OverdueDays(now time.Time) float64 {
	if now.Before(s.NextReview) {
		return 0
	}
	return now.Sub(s.NextReview).Hours() / 24.0
}

// IntervalDays returns the interval for the card's stage.
func (s State) IntervalDays() int {
	if s.Stage >= len(Intervals) {
		return Intervals[len(Intervals)-1]
	}
	return Intervals[s.Stage]
}

// FromProgress folds the per-mode tallies of each card into one state.
// A card's first net correct answer puts it at stage 0; each further one
// moves it a stage up and each wrong answer a stage back.
func FromProgress(progress []store.CardProgress) map[string]State {
	type tally struct {
		net  int
		last time.Time
	}
	byCard := make(map[string]*tally)
	for _, p := range progress {
		t := byCard[p.CardID]
		if t == nil {
			t = &tally{}
			byCard[p.CardID] = t
		}
		t.net += p.CorrectAnswers - p.IncorrectAnswers
		if p.LastAttempt.After(t.last) {
			t.last = p.LastAttempt
		}
	}

	out := make(map[string]State, len(byCard))
	for id, t := range byCard {
		s := State{CardID: id, Stage: min(max(t.net-1, 0), len(Intervals)-1), LastReview: t.last}
		s.NextReview = t.last.AddDate(0, 0, s.IntervalDays())
		out[id] = s
	}
	return out
}

// Due returns the ids of cards due at now, most overdue first. Cards never
// answered are due and come first, in the order given. Learned cards are
// skipped.
func Due(cards []store.Card, states map[string]State, now time.Time) []string {
	type due struct {
		id      string
		overdue float64
	}
	var fresh []string
	var seen []due
	for _, c := range cards {
		if c.IsLearned {
			continue
		}
		s, ok := states[c.ID]
		if !ok {
			fresh = append(fresh, c.ID)
			continue
		}
		if s.IsDue(now) {
			seen = append(seen, due{id: c.ID, overdue: s.OverdueDays(now)})
		}
	}

	sort.SliceStable(seen, func(i, j int) bool {
		if seen[i].overdue != seen[j].overdue {
			return seen[i].overdue > seen[j].overdue
		}
		return seen[i].id < seen[j].id
	})

	ids := fresh
	for _, d := range seen {
		ids = append(ids, d.id)
	}
	return ids
}
