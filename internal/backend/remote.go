package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lexiz/internal/api"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/textclean"
)

// Remote serves the deck, profile, chat and account from the API.
type Remote struct {
	client *api.Client
}

// NewRemote wraps an API client.
func NewRemote(client *api.Client) *Remote {
	return &Remote{client: client}
}

func (r *Remote) StudyCards(ctx context.Context) ([]study.Card, error) {
	return r.client.StudyCards(ctx)
}

func (r *Remote) StudyTags(ctx context.Context) ([]study.Tag, error) {
	return r.client.StudyTags(ctx)
}

// Cards lists the learner's cards with tag names resolved.
func (r *Remote) Cards(ctx context.Context) ([]CardInfo, error) {
	cards, err := r.client.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := r.client.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	out := make([]CardInfo, 0, len(cards))
	for _, c := range cards {
		info := CardInfo{
			ID:                 c.ID,
			EnglishWord:        c.EnglishWord,
			RussianTranslation: c.RussianTranslation,
			Notes:              deref(c.Notes),
			Level:              deref(c.DifficultyLevel),
			IsLearned:          c.IsLearned,
		}
		for _, id := range c.TagIDs() {
			if n, ok := names[id]; ok {
				info.TagNames = append(info.TagNames, n)
			}
		}
		out = append(out, info)
	}
	return out, nil
}

func (r *Remote) SetLearned(ctx context.Context, id string, learned bool) error {
	_, err := r.client.SetLearned(ctx, id, learned)
	return err
}

func (r *Remote) DeleteCard(ctx context.Context, id string) error {
	return r.client.DeleteCard(ctx, id)
}

// Overview combines the user's stats, achievements and daily missions.
// Achievements and missions are optional; failures there leave them empty.
func (r *Remote) Overview(ctx context.Context) (*Overview, error) {
	stats, err := r.client.Stats(ctx)
	if err != nil {
		return nil, err
	}
	ov := &Overview{
		Username:      r.Username(),
		Level:         stats.CurrentLevel,
		XP:            stats.TotalXP,
		LanguageLevel: stats.CurrentLanguageLevel,
		TotalWords:    stats.TotalWords,
		LearnedWords:  stats.LearnedWords,
		ViewedToday:   stats.WordsViewedToday,
		TimeToday:     time.Duration(stats.TimeSpentTodaySec) * time.Second,
	}

	if achievements, err := r.client.Achievements(ctx); err == nil {
		for _, a := range achievements {
			if a.IsSecret && !a.IsUnlocked {
				continue
			}
			ov.Achievements = append(ov.Achievements, Achievement{
				Name:        a.Name,
				Description: a.Description,
				Progress:    a.Progress,
				Threshold:   a.Threshold,
				Unlocked:    a.IsUnlocked,
			})
		}
	}
	if missions, err := r.client.DailyMissions(ctx); err == nil {
		for _, m := range missions {
			ov.Missions = append(ov.Missions, Mission{
				Name:     m.Name,
				Progress: m.Progress,
				Target:   m.TargetValue,
				RewardXP: m.RewardXP,
			})
		}
	}
	return ov, nil
}

// Open creates a server-side dialog.
func (r *Remote) Open(ctx context.Context, topic, level string) (string, error) {
	d, err := r.client.CreateDialog(ctx, api.DialogInput{Topic: topic, Difficulty: level})
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

// Send posts a learner message to the dialog.
func (r *Remote) Send(ctx context.Context, id, text string, correct bool) (*ChatReply, error) {
	send := r.client.Send
	if correct {
		send = r.client.SendWithCorrection
	}
	ex, err := send(ctx, id, text)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &ChatReply{
		Text:        textclean.Plain(ex.AIMessage.Text),
		Correction:  textclean.Plain(deref(ex.AIMessage.Correction)),
		Explanation: textclean.Plain(deref(ex.AIMessage.Explanation)),
	}, nil
}

func (r *Remote) Login(ctx context.Context, email, password string) error {
	_, err := r.client.Login(ctx, api.Credentials{Email: email, Password: password})
	return err
}

func (r *Remote) Register(ctx context.Context, email, password, username string) error {
	_, err := r.client.Register(ctx, api.Credentials{Email: email, Password: password, Username: username})
	return err
}

func (r *Remote) Logout(ctx context.Context) error {
	return r.client.Logout(ctx)
}

func (r *Remote) Username() string {
	sess := r.client.Auth().Current()
	if !sess.SignedIn() {
		return ""
	}
	u := sess.User()
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
