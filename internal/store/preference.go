package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/abhisek/lexiz/internal/auth"
)

// Preference keys.
const (
	KeyTimeToFlip = "lightning.time_to_flip"
	KeyTimeToNext = "lightning.time_to_next"
	KeyAuthToken  = "auth.token"
	KeyAuthUser   = "auth.user"
)

// Lightning pacing defaults.
const (
	DefaultTimeToFlip = 3 * time.Second
	DefaultTimeToNext = 5 * time.Second
)

// PreferenceRepo is a small key/value store for user settings and the
// persisted auth session.
type PreferenceRepo struct {
	db *sqlx.DB
}

// Get returns the value for key and whether it was set.
func (r *PreferenceRepo) Get(ctx context.Context, key string) (string, bool, error) {
	b := builder()
	query, args := b.Select("value").
		From(b.Table(preferencesTable)).
		Where(entsql.EQ("key", key)).
		Query()

	var v string
	if err := r.db.GetContext(ctx, &v, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value.
func (r *PreferenceRepo) Set(ctx context.Context, key, value string) error {
	query, args := builder().Insert(preferencesTable).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *PreferenceRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query, qargs := builder().Delete(preferencesTable).
		Where(entsql.In("key", args...)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, qargs...); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}

// All returns every stored preference except the auth session.
func (r *PreferenceRepo) All(ctx context.Context) (map[string]string, error) {
	b := builder()
	query, args := b.Select("key", "value").
		From(b.Table(preferencesTable)).
		Where(entsql.NotIn("key", KeyAuthToken, KeyAuthUser)).
		OrderBy("key").
		Query()

	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Pacing returns the lightning flip and next delays. Missing or invalid
// values fall back to 3s and 5s.
func (r *PreferenceRepo) Pacing(ctx context.Context) (flip, next time.Duration, err error) {
	flip, err = r.duration(ctx, KeyTimeToFlip, DefaultTimeToFlip)
	if err != nil {
		return 0, 0, err
	}
	next, err = r.duration(ctx, KeyTimeToNext, DefaultTimeToNext)
	if err != nil {
		return 0, 0, err
	}
	return flip, next, nil
}

// SetPacing stores the lightning delays in milliseconds.
func (r *PreferenceRepo) SetPacing(ctx context.Context, flip, next time.Duration) error {
	if flip <= 0 || next <= 0 {
		return fmt.Errorf("pacing delays must be positive (flip=%v, next=%v)", flip, next)
	}
	if err := r.Set(ctx, KeyTimeToFlip, strconv.FormatInt(flip.Milliseconds(), 10)); err != nil {
		return err
	}
	return r.Set(ctx, KeyTimeToNext, strconv.FormatInt(next.Milliseconds(), 10))
}

func (r *PreferenceRepo) duration(ctx context.Context, key string, def time.Duration) (time.Duration, error) {
	v, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	ms, perr := strconv.ParseInt(v, 10, 64)
	if perr != nil || ms <= 0 {
		return def, nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// SaveSession persists the auth token and user.
func (r *PreferenceRepo) SaveSession(ctx context.Context, token string, user auth.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := r.Set(ctx, KeyAuthToken, token); err != nil {
		return err
	}
	return r.Set(ctx, KeyAuthUser, string(data))
}

// LoadSession returns the persisted session. A missing token yields "".
func (r *PreferenceRepo) LoadSession(ctx context.Context) (string, auth.User, error) {
	token, ok, err := r.Get(ctx, KeyAuthToken)
	if err != nil || !ok {
		return "", auth.User{}, err
	}
	var user auth.User
	raw, ok, err := r.Get(ctx, KeyAuthUser)
	if err != nil {
		return "", auth.User{}, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return "", auth.User{}, fmt.Errorf("decode user: %w", err)
		}
	}
	return token, user, nil
}

// ClearSession forgets the persisted session.
func (r *PreferenceRepo) ClearSession(ctx context.Context) error {
	return r.Delete(ctx, KeyAuthToken, KeyAuthUser)
}

var _ auth.Store = (*PreferenceRepo)(nil)
