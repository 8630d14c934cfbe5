package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiz/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
}

type leavingScreen struct {
	stubScreen
	left int
}

func (s *leavingScreen) Leave() { s.left++ }

func TestPopAndReplaceCallLeave(t *testing.T) {
	r := New(&stubScreen{title: "root"})

	a := &leavingScreen{stubScreen: stubScreen{title: "a"}}
	r.Push(a)
	r.Pop()
	if a.left != 1 {
		t.Errorf("expected Leave once on pop, got %d", a.left)
	}

	b := &leavingScreen{stubScreen: stubScreen{title: "b"}}
	r.Push(b)
	r.Replace(&stubScreen{title: "c"})
	if b.left != 1 {
		t.Errorf("expected Leave once on replace, got %d", b.left)
	}
}

func TestPopToRoot(t *testing.T) {
	r := New(&stubScreen{title: "root"})
	leaving := &leavingScreen{stubScreen: stubScreen{title: "a"}}
	r.Push(leaving)
	r.Push(&stubScreen{title: "b"})

	r.Update(PopToRootMsg{})

	if r.Depth() != 1 || r.Active().Title() != "root" {
		t.Errorf("expected only root left, depth=%d active=%q", r.Depth(), r.Active().Title())
	}
	if leaving.left != 1 {
		t.Errorf("expected Leave on unwound screen, got %d", leaving.left)
	}
}

type resumingScreen struct {
	stubScreen
	resumed int
}

type resumedMsg struct{}

func (s *resumingScreen) Resume() tea.Cmd {
	s.resumed++
	return func() tea.Msg { return resumedMsg{} }
}

func TestPopResumesRevealedScreen(t *testing.T) {
	root := &resumingScreen{stubScreen: stubScreen{title: "root"}}
	r := New(root)
	r.Push(&stubScreen{title: "a"})
	r.Push(&stubScreen{title: "b"})

	cmd := r.Pop()
	if root.resumed != 0 || cmd != nil {
		t.Error("popping to a plain screen should not resume root")
	}

	cmd = r.Pop()
	if root.resumed != 1 {
		t.Fatalf("expected one Resume, got %d", root.resumed)
	}
	if cmd == nil {
		t.Fatal("expected the resume command")
	}
	if _, ok := cmd().(resumedMsg); !ok {
		t.Error("expected resumedMsg")
	}

	if r.Pop() != nil || root.resumed != 1 {
		t.Error("pop at bottom must not resume")
	}
}

func TestPopToRootResumesOnce(t *testing.T) {
	root := &resumingScreen{stubScreen: stubScreen{title: "root"}}
	r := New(root)
	r.Push(&stubScreen{title: "a"})
	r.Push(&stubScreen{title: "b"})

	if cmd := r.PopToRoot(); cmd == nil {
		t.Error("expected resume command")
	}
	if root.resumed != 1 {
		t.Errorf("expected one Resume, got %d", root.resumed)
	}
	if r.PopToRoot() != nil {
		t.Error("nothing to unwind should not resume")
	}
}
