package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "covmerge.dev/pkg/covmerge/internal/model"
)

func TestLcovPrinter_Print(t *testing.T) {
	foo := m.NewSourceFileCoverage("b.cc")
	foo.AddFunction(m.FunctionCoverage{Name: "f", Line: 2, Hits: 3})
	foo.AddBranch(m.BranchCoverage{Line: 3, Block: "0", Branch: "0", Evaluated: true, Hits: 2})
	foo.AddBranch(m.BranchCoverage{Line: 3, Block: "0", Branch: "1"})
	foo.AddBranch(m.BranchCoverage{Line: 4, Branch: "0", Evaluated: true})
	foo.AddLine(m.LineCoverage{Line: 3, Hits: 3, Checksum: "abc"})
	foo.AddLine(m.LineCoverage{Line: 2, Hits: 0})

	bar := m.NewSourceFileCoverage("a.cc")
	bar.AddLine(m.LineCoverage{Line: 1, Hits: 1})

	cov := m.NewCoverage()
	cov.Add(foo)
	cov.Add(bar)

	var out strings.Builder
	require.NoError(t, NewLcovPrinter().Print(&out, cov))

	want := `SF:a.cc
FNF:0
FNH:0
BRF:0
BRH:0
DA:1,1
LH:1
LF:1
end_of_record
SF:b.cc
FN:2,f
FNDA:3,f
FNF:1
FNH:1
BRDA:3,0,0,2
BRDA:3,0,1,-
BA:4,1
BRF:3
BRH:1
DA:2,0
DA:3,3,abc
LH:1
LF:2
end_of_record
`
	assert.Equal(t, want, out.String())
}

func TestLcovPrinter_RoundTrip(t *testing.T) {
	records, err := NewLcovParser().Parse(strings.NewReader(sampleTracefile))
	require.NoError(t, err)

	cov := m.NewCoverage()
	for _, r := range records {
		cov.Add(r)
	}

	var out strings.Builder
	require.NoError(t, NewLcovPrinter().Print(&out, cov))

	reparsed, err := NewLcovParser().Parse(strings.NewReader(out.String()))
	require.NoError(t, err)

	again := m.NewCoverage()
	for _, r := range reparsed {
		again.Add(r)
	}

	assert.Equal(t, cov.Files(), again.Files())
}

func TestLcovPrinter_RoundTripManyBAOnOneLine(t *testing.T) {
	var in strings.Builder
	in.WriteString("SF:src/wide.cc\n")

	for i := 0; i < 12; i++ {
		value := 1
		if i == 10 {
			value = 2
		}

		fmt.Fprintf(&in, "BA:1,%d\n", value)
	}

	in.WriteString("DA:1,1\nend_of_record\n")

	records, err := NewLcovParser().Parse(strings.NewReader(in.String()))
	require.NoError(t, err)
	require.Len(t, records, 1)

	taken := m.BranchKey{Line: 1, Branch: "10"}
	require.Equal(t, int64(1), records[0].Branches[taken].Hits)

	cov := m.NewCoverage()
	cov.Add(records[0])

	var out strings.Builder
	require.NoError(t, NewLcovPrinter().Print(&out, cov))

	reparsed, err := NewLcovParser().Parse(strings.NewReader(out.String()))
	require.NoError(t, err)
	require.Len(t, reparsed, 1)

	assert.Equal(t, records[0].Branches, reparsed[0].Branches)
	assert.Equal(t, int64(1), reparsed[0].Branches[taken].Hits)
}

func TestLcovReportStore_SaveAndLoad(t *testing.T) {
	store := NewReportStore(NewLocalSourceFSAdapter())

	cov := m.NewCoverage()
	r := m.NewSourceFileCoverage("a.cc")
	r.AddLine(m.LineCoverage{Line: 1, Hits: 2})
	cov.Add(r)

	path := m.Path(filepath.Join(t.TempDir(), "out", "coverage.dat"))
	require.NoError(t, store.SaveCoverage(path, cov))

	loaded, err := store.LoadCoverage(path)
	require.NoError(t, err)
	assert.Equal(t, cov.Files(), loaded.Files())
}

func TestLcovReportStore_LoadMalformed(t *testing.T) {
	store := NewReportStore(NewLocalSourceFSAdapter())

	path := filepath.Join(t.TempDir(), "bad.dat")
	require.NoError(t, os.WriteFile(path, []byte("DA:1,1\n"), 0o644))

	_, err := store.LoadCoverage(m.Path(path))
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestLcovReportStore_SaveFailure(t *testing.T) {
	store := NewReportStore(NewLocalSourceFSAdapter())

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := store.SaveCoverage(m.Path(filepath.Join(blocker, "coverage.dat")), m.NewCoverage())
	require.Error(t, err)
}
