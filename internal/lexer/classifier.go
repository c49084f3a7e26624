// Package lexer classifies C# source text into code, comment, string literal,
// attribute and region spans without parsing the language.
package lexer

import (
	"strings"
	"unicode/utf8"
)

// Classify partitions content into an ordered, gap-free sequence of spans.
// Concatenating content[s.Start:s.End] over the result reproduces content.
// Malformed input never aborts the scan; it is reported through Result.Issues.
func Classify(content string) *Result {
	s := &scanner{src: content}
	for s.pos < len(s.src) {
		s.step()
	}
	s.flushCode(len(s.src))
	return &Result{Spans: s.spans, Issues: s.issues}
}

type scanner struct {
	src       string
	pos       int
	codeStart int
	// lastSig is the last non-blank code byte, 0 before any code.
	lastSig   byte
	afterAttr bool
	spans     []Span
	issues    []Issue
}

// opening describes the token that starts a string literal.
type opening struct {
	interpolated bool
	verbatim     bool
	raw          bool
	width        int // bytes up to and including the opening quote run
	quotes       int // length of the quote run for raw literals
}

func (s *scanner) at(i int) byte {
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

func (s *scanner) step() {
	c := s.src[s.pos]
	switch {
	case c == '/' && s.at(s.pos+1) == '/':
		s.emit(Span{Kind: LineComment, Start: s.pos, End: s.lineEnd(s.pos)})
	case c == '/' && s.at(s.pos+1) == '*':
		s.emit(s.scanBlockComment(s.pos))
	case c == '#' && s.isRegionMarker(s.pos):
		s.emit(Span{Kind: RegionMarker, Start: s.pos, End: s.lineEnd(s.pos)})
	case c == '\'':
		s.pos = s.skipChar(s.pos)
		s.lastSig = '\''
		s.afterAttr = false
	case c == '[' && (s.atStatementStart() || s.lineInitial(s.pos)):
		if span, issues, ok := s.scanAttribute(s.pos, !s.atStatementStart()); ok {
			s.issues = append(s.issues, issues...)
			s.emit(span)
			s.lastSig = ']'
			s.afterAttr = true
			return
		}
		s.advance(c)
	default:
		if _, ok := s.opening(s.pos); ok {
			span, issues := s.scanString(s.pos)
			s.issues = append(s.issues, issues...)
			s.emit(span)
			s.lastSig = '"'
			s.afterAttr = false
			return
		}
		s.advance(c)
	}
}

func (s *scanner) advance(c byte) {
	s.pos++
	if !isBlank(c) {
		s.lastSig = c
		s.afterAttr = false
	}
}

func (s *scanner) emit(span Span) {
	s.flushCode(span.Start)
	s.spans = append(s.spans, span)
	s.codeStart = span.End
	s.pos = span.End
}

func (s *scanner) flushCode(end int) {
	if end > s.codeStart {
		s.spans = append(s.spans, Span{Kind: Code, Start: s.codeStart, End: end})
	}
	s.codeStart = end
}

// lineEnd returns the offset of the next line break at or after i.
func (s *scanner) lineEnd(i int) int {
	if j := strings.IndexAny(s.src[i:], "\r\n"); j >= 0 {
		return i + j
	}
	return len(s.src)
}

func (s *scanner) lineInitial(i int) bool {
	for k := i - 1; k >= 0; k-- {
		switch s.src[k] {
		case '\n', '\r':
			return true
		case ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func (s *scanner) scanBlockComment(start int) Span {
	if j := strings.Index(s.src[start+2:], "*/"); j >= 0 {
		return Span{Kind: BlockComment, Start: start, End: start + 2 + j + 2}
	}
	s.issues = append(s.issues, Issue{
		Kind:    UnterminatedComment,
		Offset:  start,
		Message: "block comment is not closed before end of file",
	})
	return Span{Kind: BlockComment, Start: start, End: len(s.src), Unterminated: true}
}

func (s *scanner) isRegionMarker(i int) bool {
	if !s.lineInitial(i) {
		return false
	}
	j := i + 1
	for j < len(s.src) && (s.src[j] == ' ' || s.src[j] == '\t') {
		j++
	}
	rest := s.src[j:]
	for _, directive := range []string{"region", "endregion"} {
		if strings.HasPrefix(rest, directive) && !isIdentByte(s.at(j+len(directive))) {
			return true
		}
	}
	return false
}

// atStatementStart reports whether a '[' at the current position may open an
// attribute: at the start of input, after a statement or block boundary, or
// directly after another attribute.
func (s *scanner) atStatementStart() bool {
	if s.afterAttr {
		return true
	}
	switch s.lastSig {
	case 0, ';', '{', '}':
		return true
	}
	return false
}

// scanAttribute matches an attribute block by bracket depth. Strings inside
// it are lexed so a ']' in an argument does not close the block. A block that
// is only line-initial, such as one after an enum member's comma or a
// preprocessor line, must also be followed by a declaration.
func (s *scanner) scanAttribute(start int, needDecl bool) (Span, []Issue, bool) {
	j := start + 1
	for j < len(s.src) && isBlank(s.src[j]) {
		j++
	}
	if j >= len(s.src) || !isIdentStart(s.src[j]) {
		return Span{}, nil, false
	}

	var nested []Span
	var issues []Issue
	depth := 0
	i := start
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case c == '[':
			depth++
			i++
		case c == ']':
			depth--
			i++
			if depth == 0 {
				if s.followedByAssign(i) || (needDecl && !s.followedByDeclaration(i)) {
					return Span{}, nil, false
				}
				return Span{Kind: AttributeBlock, Start: start, End: i, Nested: nested}, issues, true
			}
		case c == ';' || c == '{' || c == '}':
			return Span{}, nil, false
		case c == '\'':
			i = s.skipChar(i)
		case c == '/' && s.at(i+1) == '/':
			i = s.lineEnd(i)
		case c == '/' && s.at(i+1) == '*':
			e := strings.Index(s.src[i+2:], "*/")
			if e < 0 {
				return Span{}, nil, false
			}
			i += 2 + e + 2
		default:
			if _, ok := s.opening(i); !ok {
				i++
				continue
			}
			lit, litIssues := s.scanString(i)
			if lit.Unterminated {
				return Span{}, nil, false
			}
			nested = append(nested, lit)
			issues = append(issues, litIssues...)
			i = lit.End
		}
	}
	return Span{}, nil, false
}

// followedByAssign detects index initializers such as `[key] = value`.
func (s *scanner) followedByAssign(i int) bool {
	for i < len(s.src) && isBlank(s.src[i]) {
		i++
	}
	if s.at(i) != '=' {
		return false
	}
	next := s.at(i + 1)
	return next != '=' && next != '>'
}

// followedByDeclaration reports whether the next significant byte after i
// can begin what an attribute decorates: a declaration, another attribute,
// a directive or a comment.
func (s *scanner) followedByDeclaration(i int) bool {
	for i < len(s.src) && isBlank(s.src[i]) {
		i++
	}
	c := s.at(i)
	return isIdentStart(c) || c == '[' || c == '#' || c == '/'
}

// opening reports whether a string literal starts at i.
func (s *scanner) opening(i int) (opening, bool) {
	var o opening
	dollars, ats := 0, 0
	j := i
	for j < len(s.src) && (s.src[j] == '$' || s.src[j] == '@') {
		if s.src[j] == '$' {
			dollars++
		} else {
			ats++
		}
		j++
	}
	if s.at(j) != '"' || ats > 1 {
		return o, false
	}

	quotes := 0
	for s.at(j+quotes) == '"' {
		quotes++
	}
	if quotes >= 3 && ats == 0 {
		o.raw = true
		o.interpolated = dollars > 0
		o.quotes = quotes
		o.width = j - i + quotes
		return o, true
	}
	if dollars > 1 {
		return o, false
	}
	o.interpolated = dollars == 1
	o.verbatim = ats == 1
	o.width = j - i + 1
	return o, true
}

func (s *scanner) scanString(start int) (Span, []Issue) {
	o, _ := s.opening(start)
	switch {
	case o.raw:
		return s.scanRaw(start, o)
	case o.interpolated:
		if span, issues, ok := s.scanInterpolated(start, o); ok {
			return span, issues
		}
		span, issues := s.scanQuoted(start, o)
		span.Malformed = true
		malformed := Issue{
			Kind:    MalformedInterpolation,
			Offset:  start,
			Message: "unbalanced braces in interpolated string, treated as plain",
		}
		return span, append([]Issue{malformed}, issues...)
	default:
		return s.scanQuoted(start, o)
	}
}

// scanQuoted scans plain and verbatim literals. Interpolated literals that
// failed brace matching also land here and are reported as Plain.
func (s *scanner) scanQuoted(start int, o opening) (Span, []Issue) {
	span := Span{Kind: StringLiteral, Sub: Plain, Escapes: EscapeBackslash, Start: start}
	if o.verbatim {
		span.Escapes = EscapeDoubledQuote
		if !o.interpolated {
			span.Sub = Verbatim
		}
	}
	body := start + o.width
	i := body
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case c == '"':
			if o.verbatim && s.at(i+1) == '"' {
				i += 2
				continue
			}
			span.End = i + 1
			span.Parts = []Part{{Kind: TextPart, Start: body, End: i}}
			return span, nil
		case c == '\\' && !o.verbatim:
			i = s.skipEscape(i)
		case (c == '\n' || c == '\r') && !o.verbatim:
			span.End = i
			span.Parts = []Part{{Kind: TextPart, Start: body, End: i}}
			return unterminated(span, "string literal is not closed before end of line")
		default:
			i++
		}
	}
	span.End = len(s.src)
	span.Parts = []Part{{Kind: TextPart, Start: body, End: len(s.src)}}
	return unterminated(span, "string literal is not closed before end of file")
}

// scanRaw scans """-delimited literals. Interpolation holes in raw literals
// are not tracked; their content is kept as written.
func (s *scanner) scanRaw(start int, o opening) (Span, []Issue) {
	span := Span{Kind: StringLiteral, Sub: Verbatim, Escapes: EscapeNone, Start: start}
	body := start + o.width
	closer := strings.Repeat(`"`, o.quotes)
	if j := strings.Index(s.src[body:], closer); j >= 0 {
		span.End = body + j + o.quotes
		span.Parts = []Part{{Kind: TextPart, Start: body, End: body + j}}
		return span, nil
	}
	span.End = len(s.src)
	span.Parts = []Part{{Kind: TextPart, Start: body, End: len(s.src)}}
	return unterminated(span, "raw string literal is not closed before end of file")
}

// scanInterpolated returns ok=false when the braces do not balance so the
// caller can fall back to a plain scan.
func (s *scanner) scanInterpolated(start int, o opening) (Span, []Issue, bool) {
	span := Span{Kind: StringLiteral, Sub: Interpolated, Escapes: EscapeBackslash, Start: start}
	if o.verbatim {
		span.Escapes = EscapeDoubledQuote
	}
	body := start + o.width
	textStart := body
	var parts []Part
	i := body
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case c == '{':
			if s.at(i+1) == '{' {
				i += 2
				continue
			}
			end, ok := s.scanHole(i + 1)
			if !ok {
				return Span{}, nil, false
			}
			parts = append(parts,
				Part{Kind: TextPart, Start: textStart, End: i},
				Part{Kind: ExprPart, Start: i + 1, End: end},
			)
			i = end + 1
			textStart = i
		case c == '}':
			if s.at(i+1) == '}' {
				i += 2
				continue
			}
			return Span{}, nil, false
		case c == '"':
			if o.verbatim && s.at(i+1) == '"' {
				i += 2
				continue
			}
			span.End = i + 1
			span.Parts = append(parts, Part{Kind: TextPart, Start: textStart, End: i})
			return span, nil, true
		case c == '\\' && !o.verbatim:
			i = s.skipEscape(i)
		case (c == '\n' || c == '\r') && !o.verbatim:
			span.End = i
			span.Parts = append(parts, Part{Kind: TextPart, Start: textStart, End: i})
			lit, issues := unterminated(span, "interpolated string is not closed before end of line")
			return lit, issues, true
		default:
			i++
		}
	}
	span.End = len(s.src)
	span.Parts = append(parts, Part{Kind: TextPart, Start: textStart, End: len(s.src)})
	lit, issues := unterminated(span, "interpolated string is not closed before end of file")
	return lit, issues, true
}

// scanHole finds the '}' closing an interpolation hole whose body starts at
// i. Quotes inside the hole open nested literals lexed by the same rules.
func (s *scanner) scanHole(i int) (int, bool) {
	depth := 0
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case c == '{':
			depth++
			i++
		case c == '}':
			if depth == 0 {
				return i, true
			}
			depth--
			i++
		case c == '\'':
			i = s.skipChar(i)
		default:
			if _, ok := s.opening(i); !ok {
				i++
				continue
			}
			lit, issues := s.scanString(i)
			if lit.Unterminated || len(issues) > 0 {
				return 0, false
			}
			i = lit.End
		}
	}
	return 0, false
}

// skipEscape steps over a backslash escape. A backslash before a line break
// escapes nothing, so the break still ends the literal.
func (s *scanner) skipEscape(i int) int {
	switch s.at(i + 1) {
	case '\n', '\r', 0:
		return i + 1
	}
	return i + 2
}

// skipChar consumes a character literal starting at i and returns the offset
// after it. An apostrophe that does not open a well-formed literal is consumed
// on its own.
func (s *scanner) skipChar(i int) int {
	if s.at(i+1) == '\\' {
		for j := i + 2; j < len(s.src) && j < i+12; j++ {
			switch s.src[j] {
			case '\'':
				if j > i+2 {
					return j + 1
				}
			case '\n', '\r':
				return i + 1
			}
		}
		return i + 1
	}
	if i+1 >= len(s.src) {
		return i + 1
	}
	switch s.src[i+1] {
	case '\'', '\n', '\r':
		return i + 1
	}
	_, w := utf8.DecodeRuneInString(s.src[i+1:])
	if s.at(i+1+w) == '\'' {
		return i + 2 + w
	}
	return i + 1
}

func unterminated(span Span, msg string) (Span, []Issue) {
	span.Unterminated = true
	return span, []Issue{{Kind: UnterminatedLiteral, Offset: span.Start, Message: msg}}
}

func isBlank(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '@' || c >= 0x80 || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
