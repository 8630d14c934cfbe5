package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lexiz/internal/study"
)

// SessionRecord is a stored session result.
type SessionRecord struct {
	ID           int       `db:"id"`
	Sequence     int64     `db:"sequence"`
	Timestamp    time.Time `db:"timestamp"`
	Mode         string    `db:"mode"`
	CardsTotal   int       `db:"cards_total"`
	CardsCorrect int       `db:"cards_correct"`
	TotalTimeSec int       `db:"total_time_sec"`
	CardResults  string    `db:"card_results"`
}

// Results decodes the per-card results.
func (r SessionRecord) Results() ([]study.CardResult, error) {
	var out []study.CardResult
	if err := json.Unmarshal([]byte(r.CardResults), &out); err != nil {
		return nil, fmt.Errorf("decode card results: %w", err)
	}
	return out, nil
}

// CardProgress is the local per-card, per-mode tally.
type CardProgress struct {
	CardID           string    `db:"card_id"`
	Mode             string    `db:"mode"`
	CorrectAnswers   int       `db:"correct_answers"`
	IncorrectAnswers int       `db:"incorrect_answers"`
	LastAttempt      time.Time `db:"last_attempt"`
}

// ResultRepo stores finished sessions when studying offline.
type ResultRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

// SubmitSessionResult stores a finished session and folds its card results
// into the per-card progress tallies. It satisfies study.Reporter.
func (r *ResultRepo) SubmitSessionResult(ctx context.Context, res study.SessionResult) error {
	payload, err := json.Marshal(res.CardResults)
	if err != nil {
		return fmt.Errorf("encode card results: %w", err)
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	correct := 0
	for _, cr := range res.CardResults {
		if cr.IsCorrect {
			correct++
		}
	}
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args := builder().Insert(sessionResultsTable).
		Columns("sequence", "timestamp", "mode", "cards_total", "cards_correct", "total_time_sec", "card_results").
		Values(seqNum, now, string(res.Mode), len(res.CardResults), correct, res.TotalTimeSpentSec, string(payload)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session result: %w", err)
	}

	for _, cr := range res.CardResults {
		right, wrong := 0, 1
		if cr.IsCorrect {
			right, wrong = 1, 0
		}
		query, args := builder().Insert(cardProgressTable).
			Columns("card_id", "mode", "correct_answers", "incorrect_answers", "last_attempt").
			Values(cr.CardID, string(res.Mode), right, wrong, now).
			OnConflict(
				entsql.ConflictColumns("card_id", "mode"),
				entsql.ResolveWith(func(u *entsql.UpdateSet) {
					u.Add("correct_answers", right)
					u.Add("incorrect_answers", wrong)
					u.SetExcluded("last_attempt")
				}),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update progress for %s: %w", cr.CardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session result: %w", err)
	}
	return nil
}

// Recent returns up to limit session records, newest first.
func (r *ResultRepo) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	b := builder()
	sel := b.Select("id", "sequence", "timestamp", "mode", "cards_total", "cards_correct", "total_time_sec", "card_results").
		From(b.Table(sessionResultsTable)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()
	var out []SessionRecord
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query session results: %w", err)
	}
	return out, nil
}

// Progress returns the tallies for mode, or for every mode when mode is "".
func (r *ResultRepo) Progress(ctx context.Context, mode study.Mode) ([]CardProgress, error) {
	b := builder()
	sel := b.Select("card_id", "mode", "correct_answers", "incorrect_answers", "last_attempt").
		From(b.Table(cardProgressTable)).
		OrderBy("card_id", "mode")
	if mode != "" {
		sel.Where(entsql.EQ("mode", string(mode)))
	}
	query, args := sel.Query()
	var out []CardProgress
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return out, nil
}

// TimeSpentSince sums session time recorded at or after t.
func (r *ResultRepo) TimeSpentSince(ctx context.Context, t time.Time) (int, error) {
	b := builder()
	query, args := b.Select(entsql.As("COALESCE(SUM(total_time_sec), 0)", "total")).
		From(b.Table(sessionResultsTable)).
		Where(entsql.GTE("timestamp", t.UTC())).
		Query()
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("sum time spent: %w", err)
	}
	return total, nil
}

var _ study.Reporter = (*ResultRepo)(nil)
