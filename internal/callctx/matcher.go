package callctx

import "strings"

// Matcher tests call heads against the configured exclusion names.
//
// Entry forms:
//
//	Debug.LogError        exact qualified name
//	UnityEngine.Debug.    prefix, every member of the type
//	.LogException         suffix, the method on any receiver
//	new ArgumentException constructor call
type Matcher struct {
	exact    map[string]struct{}
	prefixes []string
	suffixes []string
}

// NewMatcher compiles an exclusion list. Blank entries are ignored.
func NewMatcher(names []string) *Matcher {
	m := &Matcher{exact: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = normalizeName(name)
		switch {
		case name == "" || name == ".":
		case strings.HasPrefix(name, "."):
			m.suffixes = append(m.suffixes, name)
		case strings.HasSuffix(name, "."):
			m.prefixes = append(m.prefixes, name)
		default:
			m.exact[name] = struct{}{}
		}
	}
	return m
}

// Match reports whether call is excluded.
func (m *Matcher) Match(call string) bool {
	if call == "" {
		return false
	}
	if _, ok := m.exact[call]; ok {
		return true
	}
	bare := strings.TrimPrefix(call, "new ")
	for _, p := range m.prefixes {
		if strings.HasPrefix(bare, p) {
			return true
		}
	}
	for _, s := range m.suffixes {
		if strings.HasSuffix(bare, s) {
			return true
		}
	}
	return false
}

// normalizeName collapses whitespace and drops null-conditional markers so
// `Debug . Log`, `logger?.Error` and `new  Exception` compare equal to their
// canonical spellings.
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	isNew := false
	if rest, ok := strings.CutPrefix(name, "new "); ok {
		isNew = true
		name = rest
	}
	var sb strings.Builder
	for _, r := range name {
		switch r {
		case ' ', '\t', '\n', '\r', '?':
			continue
		}
		sb.WriteRune(r)
	}
	if isNew && sb.Len() > 0 {
		return "new " + sb.String()
	}
	return sb.String()
}
