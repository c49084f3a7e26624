package parser

// ExtractionRecord is one user-facing literal found in a source file.
type ExtractionRecord struct {
	// RawValue is the literal text with interpolation holes removed.
	RawValue string
	// NormalizedValue is the literal text with holes replaced by {0}, {1}, ...
	NormalizedValue string
	// Line is the 1-based line of the literal's opening token.
	Line int
	// Offset is the byte offset of the literal's opening token.
	Offset int
	// FilePath is the path the file was read from.
	FilePath string
	// Call is the nearest enclosing call head, if any.
	Call string
}

// Stats counts what happened to the literals of one file.
type Stats struct {
	Literals     int
	Extracted    int
	NoChinese    int
	InHeader     int
	InAttribute  int
	ExcludedCall int
	Unterminated int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Literals += o.Literals
	s.Extracted += o.Extracted
	s.NoChinese += o.NoChinese
	s.InHeader += o.InHeader
	s.InAttribute += o.InAttribute
	s.ExcludedCall += o.ExcludedCall
	s.Unterminated += o.Unterminated
}

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the path to the parsed file.
	FilePath string
	// FileType is the detected type (cs).
	FileType string
	// Records are in source order.
	Records     []ExtractionRecord
	Diagnostics []Diagnostic
	Stats       Stats
}

// Parser is the interface for all file format parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse extracts records from a file. Read and decode failures are
	// returned as a *Diagnostic of kind UnreadableFile.
	Parse(filePath string) (*ParseResult, error)
}
