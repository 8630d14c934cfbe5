package study

import "context"

// Card is a single flashcard as seen by a study session. Cards are a
// read-only snapshot for the life of a session.
type Card struct {
	ID                 string
	EnglishWord        string
	RussianTranslation string
	IsLearned          bool
	Tags               []string // tag IDs
}

// HasAnyTag reports whether the card carries at least one of ids.
func (c Card) HasAnyTag(ids map[string]bool) bool {
	for _, t := range c.Tags {
		if ids[t] {
			return true
		}
	}
	return false
}

// Tag labels a group of cards.
type Tag struct {
	ID           string
	Name         string
	IsPredefined bool
}

// CardSource supplies the card and tag snapshot a session is built from.
type CardSource interface {
	StudyCards(ctx context.Context) ([]Card, error)
	StudyTags(ctx context.Context) ([]Tag, error)
}

// Filter selects the working set of a session.
type Filter struct {
	byTags bool
	tagIDs map[string]bool
}

// All selects every card that is not yet learned.
func All() Filter {
	return Filter{}
}

// ByTags selects unlearned cards carrying at least one of ids. An empty id
// list selects nothing.
func ByTags(ids ...string) Filter {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return Filter{byTags: true, tagIDs: set}
}

// IsAll reports whether f selects without regard to tags.
func (f Filter) IsAll() bool { return !f.byTags }

// TagIDs returns the selected tag IDs (nil for All).
func (f Filter) TagIDs() []string {
	if !f.byTags {
		return nil
	}
	out := make([]string, 0, len(f.tagIDs))
	for id := range f.tagIDs {
		out = append(out, id)
	}
	return out
}

// Match reports whether c belongs to the working set.
func (f Filter) Match(c Card) bool {
	if c.IsLearned {
		return false
	}
	if !f.byTags {
		return true
	}
	return c.HasAnyTag(f.tagIDs)
}

// Apply returns the matching cards in their original order. The returned
// slice never aliases cards.
func (f Filter) Apply(cards []Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if f.Match(c) {
			c.Tags = append([]string(nil), c.Tags...)
			out = append(out, c)
		}
	}
	return out
}
