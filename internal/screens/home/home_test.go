package home

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/screens/login"
	"github.com/abhisek/lexiz/internal/screens/setup"
)

type fakeProfile struct {
	ov    *backend.Overview
	calls int
}

func (f *fakeProfile) Overview(context.Context) (*backend.Overview, error) {
	f.calls++
	return f.ov, nil
}

type fakeAccount struct {
	name      string
	loggedOut bool
}

func (a *fakeAccount) Login(context.Context, string, string) error            { return nil }
func (a *fakeAccount) Register(context.Context, string, string, string) error { return nil }
func (a *fakeAccount) Logout(context.Context) error {
	a.name, a.loggedOut = "", true
	return nil
}
func (a *fakeAccount) Username() string { return a.name }

func labels(h *HomeScreen) []string {
	var out []string
	for _, it := range h.menu.Items {
		out = append(out, it.Label)
	}
	return out
}

func item(t *testing.T, h *HomeScreen, label string) int {
	t.Helper()
	for i, it := range h.menu.Items {
		if it.Label == label {
			return i
		}
	}
	t.Fatalf("no %q item in %v", label, labels(h))
	return -1
}

func TestHome_OfflineMenu(t *testing.T) {
	h := New(&backend.Services{Offline: true, Profile: &fakeProfile{}})

	got := strings.Join(labels(h), ",")
	want := "SPEED,QUIZ,MATCHING,LISTENING,LIGHTNING,CHAT,MY WORDS,HISTORY,PROFILE,SETTINGS,EXIT"
	if got != want {
		t.Errorf("labels = %s", got)
	}
	if !h.menu.Items[item(t, h, "CHAT")].Disabled {
		t.Error("chat needs a chat service")
	}
	if h.menu.Items[item(t, h, "SPEED")].Disabled {
		t.Error("study modes are always available offline")
	}
}

func TestHome_SignedOutLocksStudy(t *testing.T) {
	h := New(&backend.Services{Account: &fakeAccount{}})

	for _, label := range []string{"SPEED", "MY WORDS", "PROFILE"} {
		if !h.menu.Items[item(t, h, label)].Disabled {
			t.Errorf("%s should be locked while signed out", label)
		}
	}
	if h.menu.Selected != item(t, h, "SETTINGS") {
		t.Errorf("selection should start on the first enabled item, got %d", h.menu.Selected)
	}

	h.menu.Selected = item(t, h, "SIGN IN")
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected push, got %T", cmd())
	}
	if _, ok := push.Screen.(*login.LoginScreen); !ok {
		t.Errorf("expected login screen, got %T", push.Screen)
	}
}

func TestHome_StudyItemOpensSetup(t *testing.T) {
	h := New(&backend.Services{Offline: true})
	h.menu.Selected = item(t, h, "QUIZ")

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected push, got %T", cmd())
	}
	if _, ok := push.Screen.(*setup.SetupScreen); !ok {
		t.Errorf("expected setup screen, got %T", push.Screen)
	}
}

func TestHome_GridNavigation(t *testing.T) {
	h := New(&backend.Services{Offline: true})
	h.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if h.menu.Selected != 1 {
		t.Errorf("right: selected = %d", h.menu.Selected)
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if h.menu.Selected != 3 {
		t.Errorf("down: selected = %d", h.menu.Selected)
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	// CHAT (5) is disabled offline without a chat service, so down skips to 7.
	if h.menu.Selected != 7 {
		t.Errorf("down over disabled: selected = %d", h.menu.Selected)
	}
}

func TestHome_ResumeReloadsStats(t *testing.T) {
	prof := &fakeProfile{ov: &backend.Overview{TotalWords: 12, LearnedWords: 4, TimeToday: 3 * time.Minute}}
	h := New(&backend.Services{Offline: true, Profile: prof})

	h.Update(h.Init()())
	if h.overview == nil || h.overview.TotalWords != 12 {
		t.Fatal("overview not loaded")
	}
	if mascotFor(h.overview) != MascotCelebrating {
		t.Error("studying today should celebrate")
	}

	cmd := h.Resume()
	if cmd == nil {
		t.Fatal("resume should reload")
	}
	h.Update(cmd())
	if prof.calls != 2 {
		t.Errorf("overview calls = %d", prof.calls)
	}
	if !strings.Contains(h.View(120, 40), "4 LEARNED") {
		t.Error("stats bar missing")
	}
}

func TestHome_SignOut(t *testing.T) {
	acc := &fakeAccount{name: "ann"}
	h := New(&backend.Services{Account: acc, Profile: &fakeProfile{ov: &backend.Overview{}}})
	h.menu.Selected = item(t, h, "SIGN OUT")

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	h.Update(cmd())

	if !acc.loggedOut {
		t.Fatal("expected logout")
	}
	item(t, h, "SIGN IN")
	if !h.menu.Items[item(t, h, "SPEED")].Disabled {
		t.Error("study should lock after sign out")
	}
}

func TestMascotFor(t *testing.T) {
	if mascotFor(nil) != MascotIdle {
		t.Error("nil overview is idle")
	}
	if mascotFor(&backend.Overview{}) != MascotAlert {
		t.Error("empty deck should alert")
	}
	if mascotFor(&backend.Overview{TotalWords: 3}) != MascotIdle {
		t.Error("nothing today is idle")
	}
}
