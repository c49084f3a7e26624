package parser

import (
	"path/filepath"
	"sort"
	"strings"

	"zh-extractor/internal/callctx"
	"zh-extractor/internal/interpolation"
	"zh-extractor/internal/lexer"
	"zh-extractor/internal/textutil"
)

// CSharpParser extracts Chinese string literals from C# source files.
type CSharpParser struct {
	resolver   *callctx.Resolver
	extensions map[string]bool
}

// NewCSharpParser returns a parser for the given extensions, ".cs" when none
// are given.
func NewCSharpParser(resolver *callctx.Resolver, extensions ...string) *CSharpParser {
	if len(extensions) == 0 {
		extensions = []string{".cs"}
	}
	p := &CSharpParser{resolver: resolver, extensions: make(map[string]bool, len(extensions))}
	for _, ext := range extensions {
		p.extensions[strings.ToLower(ext)] = true
	}
	return p
}

func (p *CSharpParser) CanParse(ext string) bool {
	return p.extensions[strings.ToLower(ext)]
}

func (p *CSharpParser) Parse(filePath string) (*ParseResult, error) {
	content, err := textutil.ReadSource(filePath)
	if err != nil {
		return nil, &Diagnostic{
			Kind:    UnreadableFile,
			Path:    filePath,
			Message: err.Error(),
			Err:     err,
		}
	}
	return p.Extract(filePath, content), nil
}

// Extract runs the classifier over content and returns the surviving
// literals in source order. It never fails; problems are reported as
// diagnostics alongside whatever could be extracted.
func (p *CSharpParser) Extract(filePath, content string) *ParseResult {
	classified := lexer.Classify(content)
	header := lexer.DetectHeader(content, classified.Spans)
	lines := newLineIndex(content)

	result := &ParseResult{
		FilePath: filePath,
		FileType: strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."),
	}

	for _, issue := range classified.Issues {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Kind:    DiagnosticKind(issue.Kind),
			Path:    filePath,
			Line:    lines.lineOf(issue.Offset),
			Offset:  issue.Offset,
			Message: issue.Message,
		})
	}

	for _, sp := range classified.Spans {
		switch sp.Kind {
		case lexer.AttributeBlock:
			for _, lit := range sp.Nested {
				result.Stats.Literals++
				if textutil.ContainsChinese(content[lit.Start:lit.End]) {
					result.Stats.InAttribute++
				} else {
					result.Stats.NoChinese++
				}
			}
		case lexer.StringLiteral:
			result.Stats.Literals++
			if rec, ok := p.record(content, classified.Spans, header, sp, &result.Stats); ok {
				rec.FilePath = filePath
				rec.Line = lines.lineOf(sp.Start)
				result.Records = append(result.Records, rec)
			}
		}
	}
	result.Stats.Extracted = len(result.Records)
	return result
}

func (p *CSharpParser) record(content string, spans []lexer.Span, header lexer.Header, lit lexer.Span, stats *Stats) (ExtractionRecord, bool) {
	if lit.Unterminated {
		stats.Unterminated++
		return ExtractionRecord{}, false
	}

	chinese := textutil.ContainsChinese(content[lit.Start:lit.End])
	if header.Contains(lit.Start) {
		if chinese {
			stats.InHeader++
		}
		return ExtractionRecord{}, false
	}

	ctx := p.resolver.Resolve(content, spans, lit)
	if ctx.Excluded() {
		switch {
		case !chinese:
			stats.NoChinese++
		case ctx.InAttribute:
			stats.InAttribute++
		default:
			stats.ExcludedCall++
		}
		return ExtractionRecord{}, false
	}

	value := interpolation.Normalize(content, lit)
	if !textutil.ContainsChinese(value.Raw) {
		stats.NoChinese++
		return ExtractionRecord{}, false
	}

	return ExtractionRecord{
		RawValue:        value.Raw,
		NormalizedValue: value.Normalized,
		Offset:          lit.Start,
		Call:            ctx.Call,
	}, true
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(content string) lineIndex {
	var idx lineIndex
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			idx = append(idx, i)
		}
	}
	return idx
}

func (l lineIndex) lineOf(offset int) int {
	return sort.SearchInts(l, offset) + 1
}
