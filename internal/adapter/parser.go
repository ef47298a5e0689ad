package adapter

import (
	"bufio"
	"fmt"
	"io"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

// maxLineLength bounds a single line of a coverage file. Function names in
// C++ tracefiles can be very long once mangled.
const maxLineLength = 4 * 1024 * 1024

// CoverageParser turns one raw coverage stream into per-source records.
type CoverageParser interface {
	Parse(r io.Reader) ([]*m.SourceFileCoverage, error)
}

// ParseError reports malformed input. Line is 1-based; zero means the error is
// not tied to a line (for example a truncated file).
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}

	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func parseErrorf(line int, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// DefaultParsers returns the parsers for every ingestible format.
func DefaultParsers() map[m.Format]CoverageParser {
	return map[m.Format]CoverageParser{
		m.FormatTracefile: NewLcovParser(),
		m.FormatGcov:      NewGcovParser(),
	}
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	return scanner
}
