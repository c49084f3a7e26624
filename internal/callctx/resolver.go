// Package callctx decides whether a string literal sits in a context whose
// text is never user facing: an argument to an excluded call such as a
// logging API, or an attribute declaration.
package callctx

import (
	"sort"
	"strings"

	"zh-extractor/internal/lexer"
)

// maxLookback bounds how far before a literal the resolver walks when
// looking for an enclosing call.
const maxLookback = 4096

// Context is what the resolver learned about a literal's surroundings.
type Context struct {
	// Call is the innermost enclosing call head, e.g. "Debug.LogError" or
	// "new ArgumentException". Empty when the literal is not a call argument.
	Call         string
	ExcludedCall bool
	InAttribute  bool
}

// Excluded reports whether the literal must be dropped.
func (c Context) Excluded() bool {
	return c.ExcludedCall || c.InAttribute
}

// Resolver walks classified spans backwards from a literal to its enclosing
// calls. It is safe for concurrent use.
type Resolver struct {
	matcher *Matcher
}

func NewResolver(m *Matcher) *Resolver {
	return &Resolver{matcher: m}
}

// Resolve inspects the statement around lit. Every enclosing call up to the
// statement boundary is tested, so `Debug.Log(string.Format("中{0}", x))` is
// excluded even though string.Format is the nearest call.
func (r *Resolver) Resolve(content string, spans []lexer.Span, lit lexer.Span) Context {
	var ctx Context

	idx := sort.Search(len(spans), func(i int) bool { return spans[i].End > lit.Start })
	if idx < len(spans) && spans[idx].Kind == lexer.AttributeBlock && spans[idx].Start <= lit.Start {
		ctx.InAttribute = true
		return ctx
	}

	w := walker{content: content, limit: max(0, lit.Start-maxLookback)}
	for j := idx - 1; j >= 0; j-- {
		sp := spans[j]
		if sp.End <= w.limit {
			break
		}
		switch sp.Kind {
		case lexer.AttributeBlock:
			return ctx
		case lexer.Code:
		default:
			continue
		}

		for i := sp.End - 1; i >= max(sp.Start, w.limit); i-- {
			head, stop := w.visit(i)
			if stop {
				return ctx
			}
			if head == "" {
				continue
			}
			if ctx.Call == "" {
				ctx.Call = head
			}
			if r.matcher.Match(head) {
				ctx.Call = head
				ctx.ExcludedCall = true
				return ctx
			}
		}
	}
	return ctx
}

// walker holds the backward scan state shared across code spans.
type walker struct {
	content string
	limit   int
	depth   int
}

// visit consumes the code byte at i. It returns the head of a call whose
// argument list encloses the literal, or stop once the statement boundary
// is reached.
func (w *walker) visit(i int) (head string, stop bool) {
	switch w.content[i] {
	case ')', ']', '}':
		w.depth++
	case '[':
		if w.depth > 0 {
			w.depth--
		}
	case '(':
		if w.depth > 0 {
			w.depth--
			return "", false
		}
		return callHead(w.content, i, w.limit), false
	case '{':
		if w.depth == 0 {
			return "", !initializerBrace(w.content, i, w.limit)
		}
		w.depth--
	case ';':
		return "", w.depth == 0
	}
	return "", false
}

var keywords = map[string]bool{
	"if": true, "while": true, "for": true, "foreach": true, "switch": true,
	"catch": true, "using": true, "lock": true, "return": true, "nameof": true,
	"typeof": true, "sizeof": true, "default": true, "when": true, "fixed": true,
	"await": true, "in": true, "is": true, "checked": true, "unchecked": true,
}

// callHead recovers the dotted name before the '(' at open. Generic type
// arguments are skipped; a preceding `new` yields "new Name". A chain whose
// receiver is not a plain name, as in `GetLogger().Error(`, keeps a leading
// dot: ".Error".
func callHead(content string, open, limit int) string {
	i := skipBlankBack(content, open-1, limit)
	if i >= limit && content[i] == '>' {
		i = skipGenericBack(content, i, limit)
		if i < limit {
			return ""
		}
		i = skipBlankBack(content, i, limit)
	}

	var parts []string
	dangling := false
	for i >= limit {
		end := i + 1
		for i >= limit && isIdent(content[i]) {
			i--
		}
		name := strings.TrimPrefix(content[i+1:end], "@")
		if name == "" {
			break
		}
		parts = append(parts, name)
		dangling = false

		k := skipBlankBack(content, i, limit)
		if k >= limit && content[k] == '!' {
			k = skipBlankBack(content, k-1, limit)
		}
		if k < limit || content[k] != '.' {
			break
		}
		k--
		if k >= limit && content[k] == '?' {
			k--
		}
		i = skipBlankBack(content, k, limit)
		dangling = true
	}
	if len(parts) == 0 {
		return ""
	}

	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	head := strings.Join(parts, ".")
	if dangling {
		return "." + head
	}
	if len(parts) == 1 && keywords[head] {
		return ""
	}

	k := skipBlankBack(content, i, limit)
	if k >= limit+2 && content[k-2:k+1] == "new" && (k-3 < limit || !isIdent(content[k-3])) {
		return "new " + head
	}
	return head
}

// initializerBrace reports whether the '{' at open starts an object or
// collection initializer (`new[] {`, `new List<string>() {`, `new {`)
// rather than a block.
func initializerBrace(content string, open, limit int) bool {
	i := open - 1
	for {
		i = skipBlankBack(content, i, limit)
		if i < limit {
			return false
		}
		switch c := content[i]; {
		case c == ')' || c == ']':
			i = skipBalancedBack(content, i, limit)
		case c == '>':
			i = skipGenericBack(content, i, limit)
		case c == '.':
			i--
		case isIdent(c):
			end := i + 1
			for i >= limit && isIdent(content[i]) {
				i--
			}
			if content[i+1:end] == "new" {
				return true
			}
		default:
			return false
		}
	}
}

// skipBalancedBack moves from a closing ')' or ']' to the byte before its
// opener.
func skipBalancedBack(content string, i, limit int) int {
	depth := 0
	for ; i >= limit; i-- {
		switch content[i] {
		case ')', ']':
			depth++
		case '(', '[':
			depth--
			if depth == 0 {
				return i - 1
			}
		}
	}
	return limit - 1
}

// skipGenericBack moves from a closing '>' to the byte before its '<'.
// It returns a value below limit when the brackets do not look like type
// arguments.
func skipGenericBack(content string, i, limit int) int {
	depth := 0
	for ; i >= limit; i-- {
		c := content[i]
		switch {
		case c == '>':
			depth++
		case c == '<':
			depth--
			if depth == 0 {
				return i - 1
			}
		case isIdent(c), c == '.', c == ',', c == '?', c == '[', c == ']', c == ' ', c == '\t':
		default:
			return limit - 1
		}
	}
	return limit - 1
}

func skipBlankBack(content string, i, limit int) int {
	for i >= limit {
		switch content[i] {
		case ' ', '\t', '\n', '\r':
			i--
		default:
			return i
		}
	}
	return i
}

func isIdent(c byte) bool {
	return c == '_' || c == '@' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
