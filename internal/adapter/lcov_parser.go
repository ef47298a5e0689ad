package adapter

import (
	"io"
	"strconv"
	"strings"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

// lcov tracefile record prefixes.
const (
	lcovTestName      = "TN:"
	lcovSourceFile    = "SF:"
	lcovFunction      = "FN:"
	lcovFunctionData  = "FNDA:"
	lcovFunctionFound = "FNF:"
	lcovFunctionHit   = "FNH:"
	lcovBranchData    = "BRDA:"
	lcovBranchAlt     = "BA:"
	lcovBranchFound   = "BRF:"
	lcovBranchHit     = "BRH:"
	lcovLineData      = "DA:"
	lcovLineFound     = "LF:"
	lcovLineHit       = "LH:"
	lcovEndOfRecord   = "end_of_record"
)

// LcovParser reads lcov tracefiles.
//
// Format example:
//
//	SF:/path/to/source.c
//	FN:10,function_name
//	FNDA:5,function_name
//	FNF:1
//	FNH:1
//	BRDA:12,0,0,3
//	DA:10,5
//	LH:1
//	LF:1
//	end_of_record
//
// The summary lines (FNF, FNH, BRF, BRH, LF, LH) are recomputed from the data
// lines when printing, so their values are not checked.
type LcovParser struct{}

// NewLcovParser creates an LcovParser.
func NewLcovParser() *LcovParser {
	return &LcovParser{}
}

type lcovState struct {
	current    *m.SourceFileCoverage
	baOrdinals map[int]int
	records    []*m.SourceFileCoverage
}

// Parse implements CoverageParser.
func (p *LcovParser) Parse(r io.Reader) ([]*m.SourceFileCoverage, error) {
	state := &lcovState{}
	scanner := newLineScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if err := state.handle(line, lineNo); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}

	if state.current != nil {
		return nil, &ParseError{Msg: "missing end_of_record for " + state.current.SourceFileName}
	}

	return state.records, nil
}

func (s *lcovState) handle(line string, lineNo int) error {
	switch {
	case line == "", strings.HasPrefix(line, lcovTestName):
		return nil
	case strings.HasPrefix(line, lcovSourceFile):
		return s.startRecord(strings.TrimPrefix(line, lcovSourceFile), lineNo)
	case line == lcovEndOfRecord:
		return s.endRecord(lineNo)
	case strings.HasPrefix(line, lcovFunctionData):
		return s.withRecord(lineNo, line, func() error { return s.functionData(line[len(lcovFunctionData):], lineNo) })
	case strings.HasPrefix(line, lcovFunction):
		return s.withRecord(lineNo, line, func() error { return s.function(line[len(lcovFunction):], lineNo) })
	case strings.HasPrefix(line, lcovBranchData):
		return s.withRecord(lineNo, line, func() error { return s.branchData(line[len(lcovBranchData):], lineNo) })
	case strings.HasPrefix(line, lcovBranchAlt):
		return s.withRecord(lineNo, line, func() error { return s.branchAlt(line[len(lcovBranchAlt):], lineNo) })
	case strings.HasPrefix(line, lcovLineData):
		return s.withRecord(lineNo, line, func() error { return s.lineData(line[len(lcovLineData):], lineNo) })
	case isLcovSummary(line):
		return s.withRecord(lineNo, line, func() error { return nil })
	}

	// Unknown records (VER:, comments from newer lcov releases) are skipped.
	return nil
}

func isLcovSummary(line string) bool {
	for _, prefix := range []string{lcovFunctionFound, lcovFunctionHit, lcovBranchFound, lcovBranchHit, lcovLineFound, lcovLineHit} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	return false
}

func (s *lcovState) withRecord(lineNo int, line string, fn func() error) error {
	if s.current == nil {
		return parseErrorf(lineNo, "%q outside of a source file record", line)
	}

	return fn()
}

func (s *lcovState) startRecord(name string, lineNo int) error {
	if s.current != nil {
		return parseErrorf(lineNo, "source file %s starts before end_of_record of %s", name, s.current.SourceFileName)
	}

	if name == "" {
		return parseErrorf(lineNo, "empty source file name")
	}

	s.current = m.NewSourceFileCoverage(name)
	s.baOrdinals = map[int]int{}

	return nil
}

func (s *lcovState) endRecord(lineNo int) error {
	if s.current == nil {
		return parseErrorf(lineNo, "end_of_record without source file")
	}

	s.records = append(s.records, s.current)
	s.current = nil

	return nil
}

// FN:<line>,<name> or FN:<line>,<end line>,<name>.
func (s *lcovState) function(value string, lineNo int) error {
	head, name, ok := strings.Cut(value, ",")
	if !ok {
		return parseErrorf(lineNo, "malformed FN record %q", value)
	}

	line, err := strconv.Atoi(head)
	if err != nil {
		return parseErrorf(lineNo, "invalid function line %q", head)
	}

	if end, rest, ok := strings.Cut(name, ","); ok {
		if _, err := strconv.Atoi(end); err == nil {
			name = rest
		}
	}

	if name == "" {
		return parseErrorf(lineNo, "missing function name")
	}

	s.current.AddFunction(m.FunctionCoverage{Name: name, Line: line})

	return nil
}

// FNDA:<hits>,<name>.
func (s *lcovState) functionData(value string, lineNo int) error {
	head, name, ok := strings.Cut(value, ",")
	if !ok || name == "" {
		return parseErrorf(lineNo, "malformed FNDA record %q", value)
	}

	hits, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return parseErrorf(lineNo, "invalid function hit count %q", head)
	}

	s.current.AddFunction(m.FunctionCoverage{Name: name, Hits: hits})

	return nil
}

// BRDA:<line>,<block>,<branch>,<hits or ->.
func (s *lcovState) branchData(value string, lineNo int) error {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return parseErrorf(lineNo, "malformed BRDA record %q", value)
	}

	line, err := strconv.Atoi(parts[0])
	if err != nil {
		return parseErrorf(lineNo, "invalid branch line %q", parts[0])
	}

	branch := m.BranchCoverage{Line: line, Block: parts[1], Branch: parts[2]}

	if parts[3] != "-" {
		hits, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return parseErrorf(lineNo, "invalid branch hit count %q", parts[3])
		}

		branch.Evaluated = true
		branch.Hits = hits
	}

	s.current.AddBranch(branch)

	return nil
}

// BA:<line>,<0 not evaluated | 1 not taken | 2 taken>.
func (s *lcovState) branchAlt(value string, lineNo int) error {
	head, taken, ok := strings.Cut(value, ",")
	if !ok {
		return parseErrorf(lineNo, "malformed BA record %q", value)
	}

	line, err := strconv.Atoi(head)
	if err != nil {
		return parseErrorf(lineNo, "invalid branch line %q", head)
	}

	ordinal := s.baOrdinals[line]
	s.baOrdinals[line] = ordinal + 1

	branch := m.BranchCoverage{Line: line, Branch: strconv.Itoa(ordinal)}

	switch taken {
	case "0":
	case "1":
		branch.Evaluated = true
	case "2":
		branch.Evaluated = true
		branch.Hits = 1
	default:
		return parseErrorf(lineNo, "invalid BA value %q", taken)
	}

	s.current.AddBranch(branch)

	return nil
}

// DA:<line>,<hits>[,<checksum>].
func (s *lcovState) lineData(value string, lineNo int) error {
	parts := strings.Split(value, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return parseErrorf(lineNo, "malformed DA record %q", value)
	}

	line, err := strconv.Atoi(parts[0])
	if err != nil {
		return parseErrorf(lineNo, "invalid line number %q", parts[0])
	}

	hits, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return parseErrorf(lineNo, "invalid line hit count %q", parts[1])
	}

	lc := m.LineCoverage{Line: line, Hits: hits}
	if len(parts) == 3 {
		lc.Checksum = parts[2]
	}

	s.current.AddLine(lc)

	return nil
}
