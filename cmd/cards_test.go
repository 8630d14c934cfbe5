package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/abhisek/lexiz/internal/backend"
)

func TestResolveCard(t *testing.T) {
	cards := []backend.CardInfo{
		{ID: "a1b2c3d4-0001", EnglishWord: "Cat"},
		{ID: "a1b2c3d4-0002", EnglishWord: "dog"},
		{ID: "ffee0000-0003", EnglishWord: "a1b2"},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr string
	}{
		{ref: "a1b2c3d4-0002", want: "dog"},
		{ref: "cat", want: "Cat"},
		{ref: "ffee", want: "a1b2"},
		{ref: "a1b2", want: "a1b2"}, // word beats ambiguous prefix
		{ref: "a1b2c3", wantErr: "matches 2 cards"},
		{ref: "horse", wantErr: "no card matches"},
		{ref: " ", wantErr: "no card given"},
	}
	for _, tt := range tests {
		got, err := resolveCard(cards, tt.ref)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("resolveCard(%q) err = %v, want %q", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolveCard(%q): %v", tt.ref, err)
			continue
		}
		if got.EnglishWord != tt.want {
			t.Errorf("resolveCard(%q) = %q, want %q", tt.ref, got.EnglishWord, tt.want)
		}
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	if got := truncate("собака", 3); got != "соб" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("cat", 8); got != "cat" {
		t.Errorf("truncate = %q", got)
	}
}

func TestCheckDelay(t *testing.T) {
	for _, d := range []time.Duration{time.Second, 5 * time.Second, time.Minute} {
		if err := checkDelay("flip", d); err != nil {
			t.Errorf("checkDelay(%s): %v", d, err)
		}
	}
	for _, d := range []time.Duration{0, 500 * time.Millisecond, 61 * time.Second} {
		if err := checkDelay("flip", d); err == nil {
			t.Errorf("checkDelay(%s) should fail", d)
		}
	}
}

func TestHasTagName(t *testing.T) {
	c := backend.CardInfo{TagNames: []string{"Animals", "home"}}
	if !hasTagName(c, "animals") || hasTagName(c, "food") {
		t.Error("tag match should be case-insensitive and exact")
	}
}
