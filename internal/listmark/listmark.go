// Package listmark detects and strips redundant leading list markers from
// text. Pasted list items frequently arrive with the bullet or number glyph
// baked into the text; these helpers remove exactly the one marker the paste
// introduced, never legitimate leading punctuation the user typed.
package listmark

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Bullet glyphs recognized as unordered markers, in nesting-tier order.
var bulletTiers = []rune{'•', '◦', '▪'}

// prefixPattern matches one leading list marker followed by required
// whitespace: an unordered marker (hyphen, asterisk, plus, or bullet glyph)
// or an ordered marker (digits or a single letter followed by '.' or ')').
var prefixPattern = regexp.MustCompile(`^([-*+•◦▪‣·]|\d+[.)]|[A-Za-z][.)])[ \t]+`)

// nbspReplacer maps no-break space variants to ordinary spaces. Pasted
// content substitutes these freely, which would otherwise defeat matching.
var nbspReplacer = strings.NewReplacer(
	" ", " ", // no-break space
	" ", " ", // narrow no-break space
	" ", " ", // figure space
)

// NormalizeSpaces replaces no-break space variants with ordinary spaces.
func NormalizeSpaces(s string) string {
	return nbspReplacer.Replace(s)
}

// HasPrefix reports whether s begins with a recognized list marker.
func HasPrefix(s string) bool {
	return prefixPattern.MatchString(NormalizeSpaces(s))
}

// StripPrefix removes at most one leading list marker from s. A string with
// two stacked markers is reduced to one, never to zero: only the literal
// paste artifact is removed.
func StripPrefix(s string) string {
	s = NormalizeSpaces(s)
	if m := prefixPattern.FindString(s); m != "" {
		return s[len(m):]
	}
	return s
}

// IsLikelyItem reports whether s looks like list-item text, applying
// conservative exclusions on top of the marker match: content after the
// marker must not open a code fence, heading marker, or quote marker, and a
// dash-family marker must be followed by word content so an em-dash used
// mid-sentence is not mistaken for a bullet.
func IsLikelyItem(s string) bool {
	s = NormalizeSpaces(s)
	m := prefixPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	rest := s[len(m[0]):]
	if strings.HasPrefix(rest, "```") || strings.HasPrefix(rest, "#") || strings.HasPrefix(rest, ">") {
		return false
	}
	switch m[1] {
	case "-", "*", "+":
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// DetectDepth maps indentation width to a nesting depth at 4 columns per
// level (tabs count as 4). When the text carries no indentation, the bullet
// glyph tier is used instead.
func DetectDepth(s string) int {
	s = NormalizeSpaces(s)
	cols := 0
	for _, r := range s {
		if r == ' ' {
			cols++
		} else if r == '\t' {
			cols += 4
		} else {
			break
		}
	}
	if cols > 0 {
		return cols / 4
	}
	trimmed := strings.TrimLeft(s, " \t")
	r, _ := utf8.DecodeRuneInString(trimmed)
	for tier, glyph := range bulletTiers {
		if r == glyph {
			return tier
		}
	}
	return 0
}
