package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Levels are the CEFR levels a dialog may be pitched at.
var Levels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

// ValidLevel reports whether s is a CEFR level.
func ValidLevel(s string) bool {
	for _, l := range Levels {
		if l == s {
			return true
		}
	}
	return false
}

// Sender identifies the author of a chat message.
type Sender string

const (
	SenderUser Sender = "USER"
	SenderAI   Sender = "AI"
)

// Dialog is a conversation practice thread.
type Dialog struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Topic         string    `json:"topic"`
	Difficulty    string    `json:"difficulty"`
	LanguageLevel string    `json:"languageLevel"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Message is one turn of a dialog. AI turns may carry a correction of the
// preceding user message.
type Message struct {
	ID          string    `json:"id"`
	DialogID    string    `json:"dialogId"`
	Sender      Sender    `json:"sender"`
	Text        string    `json:"text"`
	AudioURL    *string   `json:"audioUrl,omitempty"`
	Correction  *string   `json:"correction,omitempty"`
	Explanation *string   `json:"explanation,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Pagination describes a page of dialog messages.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
}

// DialogPage is a dialog and one page of its messages.
type DialogPage struct {
	Dialog
	Messages   []Message  `json:"messages"`
	Pagination Pagination `json:"pagination"`
}

// Exchange is the user's message and the tutor's reply.
type Exchange struct {
	UserMessage Message `json:"userMessage"`
	AIMessage   Message `json:"aiMessage"`
}

// DialogInput starts a new dialog.
type DialogInput struct {
	Topic      string `json:"topic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Dialogs lists one page of the user's dialogs.
func (c *Client) Dialogs(ctx context.Context, page, limit int) ([]Dialog, error) {
	var out struct {
		Dialogs []Dialog `json:"dialogs"`
	}
	if err := c.get(ctx, "/chat/dialogs", pageQuery(page, limit), &out); err != nil {
		return nil, err
	}
	return out.Dialogs, nil
}

// CreateDialog starts a dialog at the given level.
func (c *Client) CreateDialog(ctx context.Context, in DialogInput) (*Dialog, error) {
	if !ValidLevel(in.Difficulty) {
		return nil, fmt.Errorf("invalid difficulty %q: want one of %v", in.Difficulty, Levels)
	}
	var d Dialog
	if err := c.post(ctx, "/chat/dialog", in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDialog changes a dialog's topic or level.
func (c *Client) UpdateDialog(ctx context.Context, id string, in DialogInput) (*Dialog, error) {
	if in.Difficulty != "" && !ValidLevel(in.Difficulty) {
		return nil, fmt.Errorf("invalid difficulty %q: want one of %v", in.Difficulty, Levels)
	}
	var d Dialog
	if err := c.do(ctx, http.MethodPut, dialogPath(id), nil, in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Dialog fetches one page of a dialog's messages.
func (c *Client) Dialog(ctx context.Context, id string, page, limit int) (*DialogPage, error) {
	var out DialogPage
	if err := c.get(ctx, dialogPath(id), pageQuery(page, limit), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDialog removes a dialog.
func (c *Client) DeleteDialog(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, dialogPath(id), nil, nil, nil)
}

// Send posts a message and returns the tutor's reply.
func (c *Client) Send(ctx context.Context, dialogID, text string) (*Exchange, error) {
	return c.send(ctx, dialogPath(dialogID)+"/message/send", text)
}

// SendWithCorrection posts a message and asks the tutor to correct it.
func (c *Client) SendWithCorrection(ctx context.Context, dialogID, text string) (*Exchange, error) {
	return c.send(ctx, dialogPath(dialogID)+"/message/send-with-correction", text)
}

func (c *Client) send(ctx context.Context, path, text string) (*Exchange, error) {
	var out Exchange
	if err := c.post(ctx, path, map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func dialogPath(id string) string {
	return "/chat/dialog/" + url.PathEscape(id)
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
