package study

import (
	"fmt"
	"strings"
)

// Mode is a study mode. Values match the remote API's StudyMode enum.
type Mode string

const (
	ModeSpeed     Mode = "SPEED"
	ModeQuiz      Mode = "QUIZ"
	ModeMatching  Mode = "MATCHING"
	ModeListening Mode = "LISTENING"
	ModeLightning Mode = "LIGHTNING"
	ModeStories   Mode = "STORIES" // server side only; not playable here
)

// Modes lists the playable modes in menu order.
var Modes = []Mode{ModeSpeed, ModeQuiz, ModeMatching, ModeListening, ModeLightning}

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown study mode %q", s)
}

// Label returns the human-facing name.
func (m Mode) Label() string {
	switch m {
	case ModeSpeed:
		return "Speed"
	case ModeQuiz:
		return "Quiz"
	case ModeMatching:
		return "Matching"
	case ModeListening:
		return "Listening"
	case ModeLightning:
		return "Lightning"
	case ModeStories:
		return "Stories"
	}
	return string(m)
}

// Direction decides which side of a card is shown first.
type Direction int

const (
	EnglishFirst Direction = iota // show English, answer in Russian
	RussianFirst                  // show Russian, answer in English
)

// ParseDirection accepts "en", "en-ru", "ru" or "ru-en".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "en", "en-ru", "english":
		return EnglishFirst, nil
	case "ru", "ru-en", "russian":
		return RussianFirst, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) String() string {
	if d == RussianFirst {
		return "ru-en"
	}
	return "en-ru"
}

// Front returns the side of c shown first.
func (d Direction) Front(c Card) string {
	if d == RussianFirst {
		return c.RussianTranslation
	}
	return c.EnglishWord
}

// Back returns the side of c revealed on flip, which is also the expected
// answer in multiple-choice modes.
func (d Direction) Back(c Card) string {
	if d == RussianFirst {
		return c.EnglishWord
	}
	return c.RussianTranslation
}
