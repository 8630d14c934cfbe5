// Package auth holds the signed-in user's session. A Session value is never
// mutated; login and logout swap in a new value.
package auth

import (
	"context"
	"sync/atomic"
)

// User is the account the session belongs to.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Session is an immutable snapshot of the current credentials.
type Session struct {
	token string
	user  User
}

// New builds a signed-in session.
func New(token string, user User) *Session {
	return &Session{token: token, user: user}
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// User returns the signed-in user.
func (s *Session) User() User {
	if s == nil {
		return User{}
	}
	return s.user
}

// SignedIn reports whether s carries a token.
func (s *Session) SignedIn() bool {
	return s.Token() != ""
}

// Store persists the session across process runs.
type Store interface {
	SaveSession(ctx context.Context, token string, user User) error
	LoadSession(ctx context.Context) (token string, user User, err error)
	ClearSession(ctx context.Context) error
}

// Context hands the current session to the components that need it.
type Context struct {
	current atomic.Pointer[Session]
	store   Store
}

// NewContext creates a signed-out context. A nil store keeps the session in
// memory only.
func NewContext(store Store) *Context {
	return &Context{store: store}
}

// Current returns the current session, which may be signed out.
func (c *Context) Current() *Session {
	return c.current.Load()
}

// Restore loads a persisted session, if any.
func (c *Context) Restore(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	token, user, err := c.store.LoadSession(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		c.current.Store(New(token, user))
	}
	return nil
}

// SignIn replaces the current session and persists it.
func (c *Context) SignIn(ctx context.Context, token string, user User) error {
	c.current.Store(New(token, user))
	if c.store == nil {
		return nil
	}
	return c.store.SaveSession(ctx, token, user)
}

// SignOut replaces the current session with a signed-out one.
func (c *Context) SignOut(ctx context.Context) error {
	c.current.Store(nil)
	if c.store == nil {
		return nil
	}
	return c.store.ClearSession(ctx)
}
