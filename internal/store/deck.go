package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lexiz/internal/study"
)

// ErrNotFound is returned when a card or tag does not exist.
var ErrNotFound = errors.New("not found")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Card is a locally stored vocabulary card.
type Card struct {
	ID                 string    `db:"id"`
	EnglishWord        string    `db:"english_word"`
	RussianTranslation string    `db:"russian_translation"`
	Notes              string    `db:"notes"`
	DifficultyLevel    string    `db:"difficulty_level"`
	IsLearned          bool      `db:"is_learned"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
	TagIDs             []string  `db:"-"`
}

// Tag is a locally stored tag.
type Tag struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	IsPredefined bool   `db:"is_predefined"`
}

// CardInput is the data needed to create a card.
type CardInput struct {
	EnglishWord        string `validate:"required,max=200"`
	RussianTranslation string `validate:"required,max=200"`
	Notes              string `validate:"max=2000"`
	DifficultyLevel    string `validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	IsLearned          bool
}

// DeckStats counts the local deck.
type DeckStats struct {
	TotalWords   int `db:"total_words"`
	LearnedWords int `db:"learned_words"`
	Tags         int `db:"-"`
}

var cardFields = []string{
	"id", "english_word", "russian_translation", "notes",
	"difficulty_level", "is_learned", "created_at", "updated_at",
}

// DeckRepo stores cards and tags for offline study.
type DeckRepo struct {
	db *sqlx.DB
}

// CreateCard validates and stores a new card.
func (r *DeckRepo) CreateCard(ctx context.Context, in CardInput) (*Card, error) {
	in.EnglishWord = strings.TrimSpace(in.EnglishWord)
	in.RussianTranslation = strings.TrimSpace(in.RussianTranslation)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid card: %w", err)
	}

	now := time.Now().UTC()
	c := &Card{
		ID:                 uuid.NewString(),
		EnglishWord:        in.EnglishWord,
		RussianTranslation: in.RussianTranslation,
		Notes:              in.Notes,
		DifficultyLevel:    in.DifficultyLevel,
		IsLearned:          in.IsLearned,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	query, args := builder().Insert(cardsTable).
		Columns(cardFields...).
		Values(c.ID, c.EnglishWord, c.RussianTranslation, c.Notes,
			c.DifficultyLevel, c.IsLearned, c.CreatedAt, c.UpdatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}
	return c, nil
}

// UpdateCard replaces a card's text fields.
func (r *DeckRepo) UpdateCard(ctx context.Context, id string, in CardInput) error {
	in.EnglishWord = strings.TrimSpace(in.EnglishWord)
	in.RussianTranslation = strings.TrimSpace(in.RussianTranslation)
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid card: %w", err)
	}
	query, args := builder().Update(cardsTable).
		Set("english_word", in.EnglishWord).
		Set("russian_translation", in.RussianTranslation).
		Set("notes", in.Notes).
		Set("difficulty_level", in.DifficultyLevel).
		Set("is_learned", in.IsLearned).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, "update card", query, args)
}

// SetLearned marks a card learned or not learned.
func (r *DeckRepo) SetLearned(ctx context.Context, id string, learned bool) error {
	query, args := builder().Update(cardsTable).
		Set("is_learned", learned).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, "set learned", query, args)
}

// DeleteCard removes a card and its tag links.
func (r *DeckRepo) DeleteCard(ctx context.Context, id string) error {
	query, args := builder().Delete(cardsTable).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, "delete card", query, args)
}

// GetCard returns one card with its tags.
func (r *DeckRepo) GetCard(ctx context.Context, id string) (*Card, error) {
	b := builder()
	query, args := b.Select(cardFields...).
		From(b.Table(cardsTable)).
		Where(entsql.EQ("id", id)).
		Query()
	var c Card
	if err := r.db.GetContext(ctx, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	links, err := r.tagLinks(ctx)
	if err != nil {
		return nil, err
	}
	c.TagIDs = links[c.ID]
	return &c, nil
}

// FindByWord returns the card whose English word matches word, ignoring
// case, or nil.
func (r *DeckRepo) FindByWord(ctx context.Context, word string) (*Card, error) {
	b := builder()
	query, args := b.Select(cardFields...).
		From(b.Table(cardsTable)).
		Where(entsql.EqualFold("english_word", strings.TrimSpace(word))).
		Limit(1).
		Query()
	var c Card
	if err := r.db.GetContext(ctx, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return &c, nil
}

// ListCards returns every card, oldest first, with tag ids filled in.
func (r *DeckRepo) ListCards(ctx context.Context) ([]Card, error) {
	b := builder()
	query, args := b.Select(cardFields...).
		From(b.Table(cardsTable)).
		OrderBy("created_at", "id").
		Query()
	var cards []Card
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	links, err := r.tagLinks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].TagIDs = links[cards[i].ID]
	}
	return cards, nil
}

// tagLinks maps card id to its tag ids.
func (r *DeckRepo) tagLinks(ctx context.Context) (map[string][]string, error) {
	b := builder()
	query, args := b.Select("card_id", "tag_id").
		From(b.Table(cardTagsTable)).
		OrderBy("assigned_at", "tag_id").
		Query()
	var rows []struct {
		CardID string `db:"card_id"`
		TagID  string `db:"tag_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list card tags: %w", err)
	}
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.CardID] = append(out[row.CardID], row.TagID)
	}
	return out, nil
}

// CreateTag stores a tag. Names are unique.
func (r *DeckRepo) CreateTag(ctx context.Context, name string, predefined bool) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tag name is required")
	}
	t := &Tag{ID: uuid.NewString(), Name: name, IsPredefined: predefined}
	query, args := builder().Insert(tagsTable).
		Columns("id", "name", "is_predefined").
		Values(t.ID, t.Name, t.IsPredefined).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert tag %q: %w", name, err)
	}
	return t, nil
}

// EnsureTag returns the tag named name, creating it if needed.
func (r *DeckRepo) EnsureTag(ctx context.Context, name string) (*Tag, error) {
	b := builder()
	query, args := b.Select("id", "name", "is_predefined").
		From(b.Table(tagsTable)).
		Where(entsql.EQ("name", strings.TrimSpace(name))).
		Query()
	var t Tag
	err := r.db.GetContext(ctx, &t, query, args...)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find tag: %w", err)
	}
	return r.CreateTag(ctx, name, false)
}

// ListTags returns every tag ordered by name.
func (r *DeckRepo) ListTags(ctx context.Context) ([]Tag, error) {
	b := builder()
	query, args := b.Select("id", "name", "is_predefined").
		From(b.Table(tagsTable)).
		OrderBy("name").
		Query()
	var tags []Tag
	if err := r.db.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// DeleteTag removes a tag and unassigns it from every card.
func (r *DeckRepo) DeleteTag(ctx context.Context, id string) error {
	query, args := builder().Delete(tagsTable).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, "delete tag", query, args)
}

// TagCard assigns a tag to a card. Assigning twice is a no-op.
func (r *DeckRepo) TagCard(ctx context.Context, cardID, tagID string) error {
	query, args := builder().Insert(cardTagsTable).
		Columns("card_id", "tag_id", "assigned_at").
		Values(cardID, tagID, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("card_id", "tag_id"),
			entsql.DoNothing(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("tag card: %w", err)
	}
	return nil
}

// UntagCard unassigns a tag from a card.
func (r *DeckRepo) UntagCard(ctx context.Context, cardID, tagID string) error {
	query, args := builder().Delete(cardTagsTable).
		Where(entsql.And(entsql.EQ("card_id", cardID), entsql.EQ("tag_id", tagID))).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("untag card: %w", err)
	}
	return nil
}

// Stats counts cards, learned cards, and tags.
func (r *DeckRepo) Stats(ctx context.Context) (DeckStats, error) {
	b := builder()
	query, args := b.Select(
		entsql.As(entsql.Count("*"), "total_words"),
		entsql.As("COALESCE(SUM(is_learned), 0)", "learned_words"),
	).
		From(b.Table(cardsTable)).
		Query()
	var s DeckStats
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		return DeckStats{}, fmt.Errorf("deck stats: %w", err)
	}
	query, args = b.Select(entsql.Count("*")).From(b.Table(tagsTable)).Query()
	if err := r.db.GetContext(ctx, &s.Tags, query, args...); err != nil {
		return DeckStats{}, fmt.Errorf("count tags: %w", err)
	}
	return s, nil
}

// StudyCards loads the deck for a session. It satisfies study.CardSource.
func (r *DeckRepo) StudyCards(ctx context.Context) ([]study.Card, error) {
	cards, err := r.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]study.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, study.Card{
			ID:                 c.ID,
			EnglishWord:        c.EnglishWord,
			RussianTranslation: c.RussianTranslation,
			IsLearned:          c.IsLearned,
			Tags:               c.TagIDs,
		})
	}
	return out, nil
}

// StudyTags loads the tags offered by the setup filter.
func (r *DeckRepo) StudyTags(ctx context.Context) ([]study.Tag, error) {
	tags, err := r.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]study.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, study.Tag{ID: t.ID, Name: t.Name, IsPredefined: t.IsPredefined})
	}
	return out, nil
}

func (r *DeckRepo) execOne(ctx context.Context, op, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

var _ study.CardSource = (*DeckRepo)(nil)
