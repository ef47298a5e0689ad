package adapter

import (
	"bufio"
	"fmt"
	"io"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

// LcovPrinter renders a Coverage aggregate as an lcov tracefile. Files are
// written in source name order and every section is sorted, so equal
// aggregates always produce identical bytes.
type LcovPrinter struct{}

// NewLcovPrinter creates an LcovPrinter.
func NewLcovPrinter() *LcovPrinter {
	return &LcovPrinter{}
}

// Print writes coverage to w.
func (p *LcovPrinter) Print(w io.Writer, coverage *m.Coverage) error {
	bw := bufio.NewWriter(w)

	for _, source := range coverage.Files() {
		printSourceFile(bw, source)
	}

	return bw.Flush()
}

func printSourceFile(w *bufio.Writer, source *m.SourceFileCoverage) {
	fmt.Fprintf(w, "%s%s\n", lcovSourceFile, source.SourceFileName)

	functions := source.SortedFunctions()
	for _, fn := range functions {
		fmt.Fprintf(w, "%s%d,%s\n", lcovFunction, fn.Line, fn.Name)
	}

	for _, fn := range functions {
		fmt.Fprintf(w, "%s%d,%s\n", lcovFunctionData, fn.Hits, fn.Name)
	}

	fmt.Fprintf(w, "%s%d\n", lcovFunctionFound, source.FunctionsFound())
	fmt.Fprintf(w, "%s%d\n", lcovFunctionHit, source.FunctionsHit())

	for _, branch := range source.SortedBranches() {
		printBranch(w, branch)
	}

	fmt.Fprintf(w, "%s%d\n", lcovBranchFound, source.BranchesFound())
	fmt.Fprintf(w, "%s%d\n", lcovBranchHit, source.BranchesHit())

	for _, line := range source.SortedLines() {
		if line.Checksum != "" {
			fmt.Fprintf(w, "%s%d,%d,%s\n", lcovLineData, line.Line, line.Hits, line.Checksum)
			continue
		}

		fmt.Fprintf(w, "%s%d,%d\n", lcovLineData, line.Line, line.Hits)
	}

	fmt.Fprintf(w, "%s%d\n", lcovLineHit, source.LinesHit())
	fmt.Fprintf(w, "%s%d\n", lcovLineFound, source.LinesFound())
	fmt.Fprintln(w, lcovEndOfRecord)
}

func printBranch(w *bufio.Writer, branch m.BranchCoverage) {
	if branch.Block == "" {
		taken := 0

		switch {
		case branch.Evaluated && branch.Hits > 0:
			taken = 2
		case branch.Evaluated:
			taken = 1
		}

		fmt.Fprintf(w, "%s%d,%d\n", lcovBranchAlt, branch.Line, taken)

		return
	}

	hits := "-"
	if branch.Evaluated {
		hits = fmt.Sprintf("%d", branch.Hits)
	}

	fmt.Fprintf(w, "%s%d,%s,%s,%s\n", lcovBranchData, branch.Line, branch.Block, branch.Branch, hits)
}
