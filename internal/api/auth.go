package api

import (
	"context"
	"fmt"

	"github.com/abhisek/lexiz/internal/auth"
)

// Credentials are sent to login and register.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

type authResponse struct {
	AccessToken string    `json:"accessToken"`
	User        auth.User `json:"user"`
}

// Login exchanges credentials for a token and installs the new session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*auth.Session, error) {
	return c.authenticate(ctx, "/auth/login", Credentials{Email: creds.Email, Password: creds.Password})
}

// Register creates an account and installs its session.
func (c *Client) Register(ctx context.Context, creds Credentials) (*auth.Session, error) {
	return c.authenticate(ctx, "/auth/register", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds Credentials) (*auth.Session, error) {
	var resp authResponse
	if err := c.post(ctx, path, creds, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%s: response carried no access token", path)
	}
	if err := c.auth.SignIn(ctx, resp.AccessToken, resp.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return c.auth.Current(), nil
}

// Logout drops the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.auth.SignOut(ctx)
}

// UserStats is the learner's progress summary.
type UserStats struct {
	UserID               string `json:"userId"`
	TotalXP              int    `json:"totalXp"`
	CurrentLevel         int    `json:"currentLevel"`
	TotalWords           int    `json:"totalWords"`
	LearnedWords         int    `json:"learnedWords"`
	WordsViewedToday     int    `json:"wordsViewedToday"`
	WordsLearnedToday    int    `json:"wordsLearnedToday"`
	CardsAddedToday      int    `json:"cardsAddedToday"`
	TimeSpentSec         int    `json:"timeSpentSec"`
	TimeSpentTodaySec    int    `json:"timeSpentTodaySec"`
	StoriesReadToday     int    `json:"storiesReadToday"`
	CurrentLanguageLevel string `json:"currentLanguageLevel"`
}

// Stats fetches the signed-in user's stats.
func (c *Client) Stats(ctx context.Context) (*UserStats, error) {
	var s UserStats
	if err := c.get(ctx, "/auth/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
