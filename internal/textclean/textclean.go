// Package textclean strips markup from text that came from the server or an
// LLM before it is shown in the terminal or stored.
package textclean

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrEmpty is returned when nothing is left after cleaning.
var ErrEmpty = errors.New("input is empty or unsafe")

var strict = bluemonday.StrictPolicy()

// Plain removes every tag and control character and collapses the result
// to readable text. Entities are decoded so "&amp;" shows as "&".
func Plain(s string) string {
	if s == "" {
		return ""
	}
	out := html.UnescapeString(strict.Sanitize(s))
	out = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, out)
	return strings.TrimSpace(out)
}

// Field cleans user input for a card or tag field and rejects values that
// are empty once cleaned.
func Field(s string) (string, error) {
	out := strings.Join(strings.Fields(Plain(s)), " ")
	if out == "" {
		return "", ErrEmpty
	}
	return out, nil
}
