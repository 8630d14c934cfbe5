package placeholder

import (
	"strings"
	"testing"
)

func TestPlaceholderView(t *testing.T) {
	p := New("History", "History is kept on this device only.")
	if p.Title() != "History" {
		t.Errorf("title = %q", p.Title())
	}
	if !strings.Contains(p.View(80, 20), "kept on this device") {
		t.Error("reason missing from view")
	}
	if !strings.Contains(New("Chat", "").View(80, 20), "isn't available") {
		t.Error("expected default reason")
	}
}
