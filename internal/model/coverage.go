package model

import (
	"fmt"
	"sort"
	"strconv"
)

// LineCoverage holds the execution count of a single source line.
type LineCoverage struct {
	Line     int
	Hits     int64
	Checksum string
}

// BranchKey identifies a branch within a source file. Branches recorded with
// the lcov BA: form have an empty Block and are numbered per line in Branch.
type BranchKey struct {
	Line   int
	Block  string
	Branch string
}

// BranchCoverage holds the outcome of a single branch.
type BranchCoverage struct {
	Line      int
	Block     string
	Branch    string
	Evaluated bool
	Hits      int64
}

// Key returns the identity of the branch inside its source file.
func (b BranchCoverage) Key() BranchKey {
	return BranchKey{Line: b.Line, Block: b.Block, Branch: b.Branch}
}

// FunctionCoverage holds the invocation count of a function.
type FunctionCoverage struct {
	Name string
	Line int
	Hits int64
}

// Mismatch describes structural data that disagreed while merging two
// records for the same file. Counters are still merged.
type Mismatch struct {
	Source string
	Detail string
}

func (m Mismatch) String() string {
	return m.Source + ": " + m.Detail
}

// SourceFileCoverage is the coverage of one source file.
type SourceFileCoverage struct {
	SourceFileName string
	Lines          map[int]LineCoverage
	Branches       map[BranchKey]BranchCoverage
	Functions      map[string]FunctionCoverage
}

// NewSourceFileCoverage returns an empty record for name.
func NewSourceFileCoverage(name string) *SourceFileCoverage {
	return &SourceFileCoverage{
		SourceFileName: name,
		Lines:          map[int]LineCoverage{},
		Branches:       map[BranchKey]BranchCoverage{},
		Functions:      map[string]FunctionCoverage{},
	}
}

// AddLine accumulates hits for a line.
func (s *SourceFileCoverage) AddLine(line LineCoverage) []Mismatch {
	if s.Lines == nil {
		s.Lines = map[int]LineCoverage{}
	}

	existing, ok := s.Lines[line.Line]
	if !ok {
		s.Lines[line.Line] = line
		return nil
	}

	var mismatches []Mismatch

	existing.Hits += line.Hits

	if existing.Checksum != line.Checksum {
		if existing.Checksum != "" && line.Checksum != "" {
			mismatches = append(mismatches, s.mismatch("line %d checksum %q differs from %q", line.Line, line.Checksum, existing.Checksum))
		}

		existing.Checksum = smallerNonEmpty(existing.Checksum, line.Checksum)
	}

	s.Lines[line.Line] = existing

	return mismatches
}

// AddBranch accumulates a branch outcome.
func (s *SourceFileCoverage) AddBranch(branch BranchCoverage) {
	if s.Branches == nil {
		s.Branches = map[BranchKey]BranchCoverage{}
	}

	key := branch.Key()

	existing, ok := s.Branches[key]
	if !ok {
		s.Branches[key] = branch
		return
	}

	existing.Evaluated = existing.Evaluated || branch.Evaluated
	existing.Hits += branch.Hits
	s.Branches[key] = existing
}

// AddFunction accumulates invocations of a function.
func (s *SourceFileCoverage) AddFunction(fn FunctionCoverage) []Mismatch {
	if s.Functions == nil {
		s.Functions = map[string]FunctionCoverage{}
	}

	existing, ok := s.Functions[fn.Name]
	if !ok {
		s.Functions[fn.Name] = fn
		return nil
	}

	var mismatches []Mismatch

	existing.Hits += fn.Hits

	if existing.Line != fn.Line {
		if existing.Line != 0 && fn.Line != 0 {
			mismatches = append(mismatches, s.mismatch("function %s declared on line %d and line %d", fn.Name, existing.Line, fn.Line))
		}

		existing.Line = smallerPositive(existing.Line, fn.Line)
	}

	s.Functions[fn.Name] = existing

	return mismatches
}

// Merge adds every counter of other into s. other is not modified.
func (s *SourceFileCoverage) Merge(other *SourceFileCoverage) []Mismatch {
	var mismatches []Mismatch

	for _, line := range other.Lines {
		mismatches = append(mismatches, s.AddLine(line)...)
	}

	for _, branch := range other.Branches {
		s.AddBranch(branch)
	}

	for _, fn := range other.Functions {
		mismatches = append(mismatches, s.AddFunction(fn)...)
	}

	sortMismatches(mismatches)

	return mismatches
}

// Clone returns a deep copy of s.
func (s *SourceFileCoverage) Clone() *SourceFileCoverage {
	clone := NewSourceFileCoverage(s.SourceFileName)

	for k, v := range s.Lines {
		clone.Lines[k] = v
	}

	for k, v := range s.Branches {
		clone.Branches[k] = v
	}

	for k, v := range s.Functions {
		clone.Functions[k] = v
	}

	return clone
}

// SortedLines returns the line records ordered by line number.
func (s *SourceFileCoverage) SortedLines() []LineCoverage {
	lines := make([]LineCoverage, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, line)
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].Line < lines[j].Line })

	return lines
}

// SortedBranches returns the branch records ordered by line, block and branch.
// Numeric block and branch ids compare as numbers so BA ordinals print in the
// order they are renumbered on parse.
func (s *SourceFileCoverage) SortedBranches() []BranchCoverage {
	branches := make([]BranchCoverage, 0, len(s.Branches))
	for _, branch := range s.Branches {
		branches = append(branches, branch)
	}

	sort.Slice(branches, func(i, j int) bool {
		a, b := branches[i], branches[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}

		if a.Block != b.Block {
			return lessID(a.Block, b.Block)
		}

		return lessID(a.Branch, b.Branch)
	})

	return branches
}

// lessID orders ids numerically when both are integers, lexically otherwise.
func lessID(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)

	if errA == nil && errB == nil && x != y {
		return x < y
	}

	return a < b
}

// SortedFunctions returns the function records ordered by line then name.
func (s *SourceFileCoverage) SortedFunctions() []FunctionCoverage {
	functions := make([]FunctionCoverage, 0, len(s.Functions))
	for _, fn := range s.Functions {
		functions = append(functions, fn)
	}

	sort.Slice(functions, func(i, j int) bool {
		if functions[i].Line != functions[j].Line {
			return functions[i].Line < functions[j].Line
		}

		return functions[i].Name < functions[j].Name
	})

	return functions
}

// LinesFound is the number of instrumented lines (LF).
func (s *SourceFileCoverage) LinesFound() int {
	return len(s.Lines)
}

// LinesHit is the number of lines executed at least once (LH).
func (s *SourceFileCoverage) LinesHit() int {
	hit := 0

	for _, line := range s.Lines {
		if line.Hits > 0 {
			hit++
		}
	}

	return hit
}

// FunctionsFound is the number of instrumented functions (FNF).
func (s *SourceFileCoverage) FunctionsFound() int {
	return len(s.Functions)
}

// FunctionsHit is the number of functions invoked at least once (FNH).
func (s *SourceFileCoverage) FunctionsHit() int {
	hit := 0

	for _, fn := range s.Functions {
		if fn.Hits > 0 {
			hit++
		}
	}

	return hit
}

// BranchesFound is the number of instrumented branches (BRF).
func (s *SourceFileCoverage) BranchesFound() int {
	return len(s.Branches)
}

// BranchesHit is the number of branches taken at least once (BRH).
func (s *SourceFileCoverage) BranchesHit() int {
	hit := 0

	for _, branch := range s.Branches {
		if branch.Evaluated && branch.Hits > 0 {
			hit++
		}
	}

	return hit
}

func (s *SourceFileCoverage) mismatch(format string, args ...interface{}) Mismatch {
	return Mismatch{Source: s.SourceFileName, Detail: fmt.Sprintf(format, args...)}
}

func smallerNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case b < a:
		return b
	}

	return a
}

func smallerPositive(a, b int) int {
	switch {
	case a <= 0:
		return b
	case b <= 0:
		return a
	case b < a:
		return b
	}

	return a
}

func sortMismatches(mismatches []Mismatch) {
	sort.Slice(mismatches, func(i, j int) bool {
		return mismatches[i].Detail < mismatches[j].Detail
	})
}
