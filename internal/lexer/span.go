package lexer

// Kind is the lexical role of a span.
type Kind int

const (
	Code Kind = iota
	LineComment
	BlockComment
	StringLiteral
	AttributeBlock
	RegionMarker
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case LineComment:
		return "line_comment"
	case BlockComment:
		return "block_comment"
	case StringLiteral:
		return "string_literal"
	case AttributeBlock:
		return "attribute_block"
	case RegionMarker:
		return "region_marker"
	}
	return "unknown"
}

// StringKind is the literal subtype, decided by the opening token.
type StringKind int

const (
	Plain StringKind = iota
	Verbatim
	Interpolated
)

func (k StringKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Verbatim:
		return "verbatim"
	case Interpolated:
		return "interpolated"
	}
	return "unknown"
}

// EscapeStyle tells how text inside a literal encodes a quote character.
type EscapeStyle int

const (
	// EscapeBackslash: regular literals, \" is a quote.
	EscapeBackslash EscapeStyle = iota
	// EscapeDoubledQuote: verbatim literals, "" is a quote.
	EscapeDoubledQuote
	// EscapeNone: raw literals, content is taken as written.
	EscapeNone
)

// PartKind separates literal text from interpolation holes.
type PartKind int

const (
	TextPart PartKind = iota
	ExprPart
)

// Part is a byte range [Start, End) inside a string literal's content.
// ExprPart ranges exclude the surrounding braces.
type Part struct {
	Kind  PartKind
	Start int
	End   int
}

// Span is a classified range [Start, End) of the scanned content.
type Span struct {
	Kind Kind
	// Sub and Escapes are only meaningful for StringLiteral spans.
	Sub     StringKind
	Escapes EscapeStyle
	Start   int
	End     int
	// Parts covers the literal content. Interpolated literals alternate
	// TextPart and ExprPart, beginning and ending with a TextPart.
	Parts []Part
	// Nested holds the string literals found inside an AttributeBlock.
	Nested []Span
	// Unterminated is set when the literal or comment ran into a line
	// break or the end of input before its closer.
	Unterminated bool
	// Malformed is set on interpolated literals whose braces did not
	// balance; they are re-scanned as Plain.
	Malformed bool
}

// Expressions returns the number of interpolation holes in the span.
func (s Span) Expressions() int {
	n := 0
	for _, p := range s.Parts {
		if p.Kind == ExprPart {
			n++
		}
	}
	return n
}

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// IssueKind names a recoverable lexing problem.
type IssueKind string

const (
	UnterminatedLiteral    IssueKind = "unterminated_literal"
	UnterminatedComment    IssueKind = "unterminated_comment"
	MalformedInterpolation IssueKind = "malformed_interpolation"
)

// Issue is a recoverable problem found at Offset.
type Issue struct {
	Kind    IssueKind
	Offset  int
	Message string
}

// Result is the output of Classify.
type Result struct {
	Spans  []Span
	Issues []Issue
}
