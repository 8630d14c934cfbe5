package api

import (
	"context"
	"net/url"
	"time"
)

// Achievement is a badge and the user's progress toward it.
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Threshold   int        `json:"threshold"`
	Category    string     `json:"category"`
	IsSecret    bool       `json:"isSecret"`
	IsUnlocked  bool       `json:"isUnlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
	Progress    int        `json:"progress"`
}

// DailyMission is one of today's assigned missions.
type DailyMission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	TargetValue int       `json:"targetValue"`
	RewardXP    int       `json:"rewardXp"`
	Progress    int       `json:"progress"`
	AssignedAt  time.Time `json:"assignedAt"`
}

// Done reports whether the mission target has been reached.
func (m DailyMission) Done() bool { return m.Progress >= m.TargetValue }

// Achievements lists every achievement with the user's progress.
func (c *Client) Achievements(ctx context.Context) ([]Achievement, error) {
	var out []Achievement
	if err := c.get(ctx, "/achievements", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DailyMissions lists today's missions.
func (c *Client) DailyMissions(ctx context.Context) ([]DailyMission, error) {
	var out []DailyMission
	if err := c.get(ctx, "/missions/daily", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdvanceMission bumps a mission's progress by one step.
func (c *Client) AdvanceMission(ctx context.Context, id string) error {
	return c.post(ctx, "/missions/"+url.PathEscape(id)+"/progress", nil, nil)
}
