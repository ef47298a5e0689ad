package adapter

import (
	"io"
	"strconv"
	"strings"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

const (
	gcovVersion  = "version:"
	gcovFile     = "file:"
	gcovFunction = "function:"
	gcovLcount   = "lcount:"
	gcovBranch   = "branch:"

	gcovTaken    = "taken"
	gcovNotTaken = "nottaken"
	gcovNotExec  = "notexec"

	// gcov has no notion of blocks; every branch of a line lands in block 0.
	gcovBranchBlock = "0"
)

// GcovParser reads the text intermediate format written by `gcov -i`.
//
//	version:8.3.0
//	file:src/foo.cc
//	function:3,9,1,_Z3fooi
//	lcount:4,1,0
//	branch:4,taken
//	branch:4,nottaken
type GcovParser struct{}

// NewGcovParser creates a GcovParser.
func NewGcovParser() *GcovParser {
	return &GcovParser{}
}

// Parse implements CoverageParser.
func (p *GcovParser) Parse(r io.Reader) ([]*m.SourceFileCoverage, error) {
	var (
		records  []*m.SourceFileCoverage
		current  *m.SourceFileCoverage
		ordinals map[int]int
	)

	scanner := newLineScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "", strings.HasPrefix(line, gcovVersion):
			continue
		case strings.HasPrefix(line, gcovFile):
			name := strings.TrimPrefix(line, gcovFile)
			if name == "" {
				return nil, parseErrorf(lineNo, "empty source file name")
			}

			current = m.NewSourceFileCoverage(name)
			ordinals = map[int]int{}
			records = append(records, current)

			continue
		}

		if current == nil {
			return nil, parseErrorf(lineNo, "%q before any file: record", line)
		}

		var err error

		switch {
		case strings.HasPrefix(line, gcovFunction):
			err = parseGcovFunction(current, strings.TrimPrefix(line, gcovFunction), lineNo)
		case strings.HasPrefix(line, gcovLcount):
			err = parseGcovLcount(current, strings.TrimPrefix(line, gcovLcount), lineNo)
		case strings.HasPrefix(line, gcovBranch):
			err = parseGcovBranch(current, ordinals, strings.TrimPrefix(line, gcovBranch), lineNo)
		default:
			err = parseErrorf(lineNo, "unknown gcov record %q", line)
		}

		if err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}

	return records, nil
}

// function:<line>,<hits>,<name> (gcc < 8) or
// function:<start>,<end>,<hits>,<name> (gcc 8).
func parseGcovFunction(current *m.SourceFileCoverage, value string, lineNo int) error {
	parts := strings.SplitN(value, ",", 4)
	if len(parts) < 3 {
		return parseErrorf(lineNo, "malformed function record %q", value)
	}

	line, err := strconv.Atoi(parts[0])
	if err != nil {
		return parseErrorf(lineNo, "invalid function line %q", parts[0])
	}

	hitsField, name := parts[1], strings.Join(parts[2:], ",")
	if len(parts) == 4 {
		if _, endErr := strconv.Atoi(parts[1]); endErr == nil {
			if _, hitsErr := strconv.ParseInt(parts[2], 10, 64); hitsErr == nil {
				hitsField, name = parts[2], parts[3]
			}
		}
	}

	hits, err := strconv.ParseInt(hitsField, 10, 64)
	if err != nil {
		return parseErrorf(lineNo, "invalid function hit count %q", hitsField)
	}

	if name == "" {
		return parseErrorf(lineNo, "missing function name")
	}

	current.AddFunction(m.FunctionCoverage{Name: name, Line: line, Hits: hits})

	return nil
}

// lcount:<line>,<hits>[,<has unexecuted block>].
func parseGcovLcount(current *m.SourceFileCoverage, value string, lineNo int) error {
	parts := strings.Split(value, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return parseErrorf(lineNo, "malformed lcount record %q", value)
	}

	line, err := strconv.Atoi(parts[0])
	if err != nil {
		return parseErrorf(lineNo, "invalid line number %q", parts[0])
	}

	hits, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return parseErrorf(lineNo, "invalid line hit count %q", parts[1])
	}

	current.AddLine(m.LineCoverage{Line: line, Hits: hits})

	return nil
}

// branch:<line>,<taken|nottaken|notexec>.
func parseGcovBranch(current *m.SourceFileCoverage, ordinals map[int]int, value string, lineNo int) error {
	head, kind, ok := strings.Cut(value, ",")
	if !ok {
		return parseErrorf(lineNo, "malformed branch record %q", value)
	}

	line, err := strconv.Atoi(head)
	if err != nil {
		return parseErrorf(lineNo, "invalid branch line %q", head)
	}

	ordinal := ordinals[line]
	ordinals[line] = ordinal + 1

	branch := m.BranchCoverage{Line: line, Block: gcovBranchBlock, Branch: strconv.Itoa(ordinal)}

	switch kind {
	case gcovTaken:
		branch.Evaluated = true
		branch.Hits = 1
	case gcovNotTaken:
		branch.Evaluated = true
	case gcovNotExec:
	default:
		return parseErrorf(lineNo, "invalid branch coverage type %q", kind)
	}

	current.AddBranch(branch)

	return nil
}
