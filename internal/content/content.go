package content

import (
	"context"
	"strings"
	"unicode/utf8"

	"maxbitcoins/internal/domain"
)

// MaxNoteRunes is the longest note the publisher sends; longer text is cut
// by Fit.
const MaxNoteRunes = 280

const ellipsis = "..."

// Fit trims s and cuts it to at most limit runes, ending a cut string with
// "...".
func Fit(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	keep := limit - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string([]rune(s)[:keep]) + ellipsis
}

// Static returns the same text on every call.
type Static string

func (s Static) Generate(context.Context, string, int) (string, error) {
	return string(s), nil
}

var _ domain.ContentSource = Static("")
