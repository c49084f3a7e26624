package parser

import (
	"fmt"

	"zh-extractor/internal/lexer"
)

// DiagnosticKind classifies a file-scoped problem. None of them abort a run.
type DiagnosticKind string

const (
	UnterminatedLiteral    = DiagnosticKind(lexer.UnterminatedLiteral)
	UnterminatedComment    = DiagnosticKind(lexer.UnterminatedComment)
	MalformedInterpolation = DiagnosticKind(lexer.MalformedInterpolation)
	UnreadableFile         DiagnosticKind = "unreadable_file"
)

// Diagnostic reports a problem in one file. Line and Offset are zero for
// UnreadableFile.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string
	Line    int
	Offset  int
	Message string
	Err     error
}

func (d *Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", d.Path, d.Line, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Path, d.Kind, d.Message)
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}
