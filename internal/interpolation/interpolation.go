// Package interpolation turns classified string literals into their text
// value, replacing interpolation holes with positional placeholders.
package interpolation

import (
	"regexp"
	"strconv"
	"strings"

	"zh-extractor/internal/lexer"
)

// Value is a literal's content after unescaping.
type Value struct {
	// Raw is the literal text with holes removed.
	Raw string
	// Normalized is the literal text with each hole replaced by {i}.
	Normalized string
}

var placeholderRe = regexp.MustCompile(`\{[0-9]+\}`)

// Normalize builds the value of lit. Quote escapes and doubled braces are
// unescaped; other backslash escapes are kept as written so the value can be
// pasted back into source.
func Normalize(content string, lit lexer.Span) Value {
	var raw, norm strings.Builder
	holes := 0
	interpolated := lit.Sub == lexer.Interpolated

	for _, p := range lit.Parts {
		if p.Kind == lexer.ExprPart {
			norm.WriteString("{" + strconv.Itoa(holes) + "}")
			holes++
			continue
		}
		text := unescape(content[p.Start:p.End], lit.Escapes, interpolated)
		raw.WriteString(text)
		norm.WriteString(text)
	}

	return Value{Raw: raw.String(), Normalized: norm.String()}
}

func unescape(text string, style lexer.EscapeStyle, braces bool) string {
	if style == lexer.EscapeNone {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		var next byte
		if i+1 < len(text) {
			next = text[i+1]
		}
		switch {
		case style == lexer.EscapeBackslash && c == '\\':
			if next == '"' {
				sb.WriteByte('"')
			} else if next != 0 {
				sb.WriteByte(c)
				sb.WriteByte(next)
			} else {
				sb.WriteByte(c)
			}
			i++
		case style == lexer.EscapeDoubledQuote && c == '"' && next == '"':
			sb.WriteByte('"')
			i++
		case braces && (c == '{' || c == '}') && next == c:
			sb.WriteByte(c)
			i++
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Placeholders counts the positional placeholders in s.
func Placeholders(s string) int {
	return len(placeholderRe.FindAllStringIndex(s, -1))
}

// Strip removes positional placeholders from s.
func Strip(s string) string {
	return placeholderRe.ReplaceAllString(s, "")
}
