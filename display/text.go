package display

import "strings"

// Text fitting helpers shared by the board and ticker renderers. Widths are
// measured against the surface so double-width runes count correctly.

const ellipsisRune = "…"

// Ellipsize truncates s to at most max cells, appending an ellipsis when cut.
func Ellipsize(s Surface, text string, max int) string {
	if s.TextWidth(text) <= max {
		return text
	}
	if max <= 1 {
		return ellipsisRune
	}
	runes := []rune(text)
	for len(runes) > 1 && s.TextWidth(string(runes)+ellipsisRune) > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsisRune
}

// FitWords is the word-safe truncation: whole trailing words are dropped
// until the text plus ellipsis fits, falling back to character trimming for
// a single over-long word.
func FitWords(s Surface, text string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	work := strings.TrimSpace(text)
	if s.TextWidth(work) <= maxW {
		return work
	}

	if !strings.Contains(work, " ") {
		return Ellipsize(s, work, maxW)
	}

	out := work
	for {
		lastSpace := strings.LastIndexByte(out, ' ')
		if lastSpace <= 0 {
			break
		}
		candidate := strings.TrimSpace(out[:lastSpace])
		if s.TextWidth(candidate+ellipsisRune) <= maxW {
			return candidate + ellipsisRune
		}
		out = candidate
	}
	return Ellipsize(s, out, maxW)
}
