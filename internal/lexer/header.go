package lexer

import "strings"

// Header is the file's leading documentation block: a run of comment spans
// separated only by whitespace, with nothing but whitespace before it.
type Header struct {
	// First and Last are span indices; both are -1 when there is no header.
	First int
	Last  int
	Start int
	End   int
}

// DetectHeader finds the leading comment run of a classified file.
func DetectHeader(content string, spans []Span) Header {
	h := Header{First: -1, Last: -1}
	for i, sp := range spans {
		switch sp.Kind {
		case LineComment, BlockComment:
			if h.First < 0 {
				h.First = i
				h.Start = sp.Start
			}
			h.Last = i
			h.End = sp.End
		case Code:
			if strings.TrimSpace(content[sp.Start:sp.End]) != "" {
				return h
			}
		default:
			return h
		}
	}
	return h
}

// Empty reports whether the file has no header comment.
func (h Header) Empty() bool {
	return h.First < 0
}

// Contains reports whether offset falls inside the header block.
func (h Header) Contains(offset int) bool {
	return !h.Empty() && offset >= h.Start && offset < h.End
}
