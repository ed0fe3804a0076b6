// package formatter renders playlists into Markdown documents and M3U index files, and parses those documents back
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const markdownSpecial = "\\*_`[]()#+-.!&"

// Escape prepares free text for a single Markdown line.
//
// Every Markdown control character is backslash-escaped. Line breaks and surrounding whitespace are written as numeric
// character references (&#32;) so that [Unescape] recovers the text exactly.
func Escape(text string) string {
	runes := []rune(text)
	start, end := 0, len(runes)
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}

	var b strings.Builder
	b.Grow(len(text))
	for i, r := range runes {
		switch {
		case i < start || i >= end || r == '\n' || r == '\r':
			fmt.Fprintf(&b, "&#%d;", r)
		case strings.ContainsRune(markdownSpecial, r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape reverses [Escape]. Backslashes that do not precede a control character are kept.
func Unescape(text string) string {
	if !strings.ContainsAny(text, "\\&") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch {
		case runes[i] == '\\' && i+1 < len(runes) && strings.ContainsRune(markdownSpecial, runes[i+1]):
			i++
			b.WriteRune(runes[i])
		case runes[i] == '&':
			if r, n, ok := decodeCharRef(runes[i:]); ok {
				b.WriteRune(r)
				i += n - 1
				continue
			}
			b.WriteRune('&')
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

// decodeCharRef reads a decimal reference such as "&#10;" from the start of runes.
func decodeCharRef(runes []rune) (rune, int, bool) {
	if len(runes) < 4 || runes[1] != '#' {
		return 0, 0, false
	}

	for j := 2; j < len(runes) && j < 10; j++ {
		if runes[j] == ';' {
			if j == 2 {
				return 0, 0, false
			}
			n, err := strconv.Atoi(string(runes[2:j]))
			if err != nil || !utf8.ValidRune(rune(n)) {
				return 0, 0, false
			}
			return rune(n), j + 1, true
		}
		if runes[j] < '0' || runes[j] > '9' {
			return 0, 0, false
		}
	}
	return 0, 0, false
}
