package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, lines map[int]int64, fns map[string]int64, branches ...BranchCoverage) *SourceFileCoverage {
	r := NewSourceFileCoverage(name)
	for line, hits := range lines {
		r.AddLine(LineCoverage{Line: line, Hits: hits})
	}

	for fn, hits := range fns {
		r.AddFunction(FunctionCoverage{Name: fn, Line: 1, Hits: hits})
	}

	for _, b := range branches {
		r.AddBranch(b)
	}

	return r
}

func TestCoverage_AddNewAndExisting(t *testing.T) {
	cov := NewCoverage()
	assert.True(t, cov.IsEmpty())

	cov.Add(record("a.cc", map[int]int64{1: 1, 2: 0}, map[string]int64{"f": 1}))
	cov.Add(record("a.cc", map[int]int64{2: 3, 3: 1}, map[string]int64{"f": 2, "g": 0}))
	cov.Add(record("b.cc", map[int]int64{1: 5}, nil))

	require.Equal(t, 2, cov.Len())
	assert.Equal(t, []string{"a.cc", "b.cc"}, cov.Sources())

	a, ok := cov.Get("a.cc")
	require.True(t, ok)
	assert.Equal(t, int64(1), a.Lines[1].Hits)
	assert.Equal(t, int64(3), a.Lines[2].Hits)
	assert.Equal(t, int64(1), a.Lines[3].Hits)
	assert.Equal(t, int64(3), a.Functions["f"].Hits)
	assert.Equal(t, int64(0), a.Functions["g"].Hits)

	b, ok := cov.Get("b.cc")
	require.True(t, ok)
	assert.Equal(t, int64(5), b.Lines[1].Hits)
	assert.Len(t, b.Lines, 1)
}

func TestCoverage_AddSameRecordTwiceDoubles(t *testing.T) {
	cov := NewCoverage()
	r := record("a.cc", map[int]int64{7: 2}, nil)

	cov.Add(r)
	cov.Add(r)

	got, _ := cov.Get("a.cc")
	assert.Equal(t, int64(4), got.Lines[7].Hits)
	assert.Equal(t, int64(2), r.Lines[7].Hits, "input record must not be modified")
}

func TestCoverage_MergeIsOrderIndependent(t *testing.T) {
	records := []*SourceFileCoverage{
		record("a.cc", map[int]int64{1: 1, 2: 2}, map[string]int64{"f": 1},
			BranchCoverage{Line: 2, Block: "0", Branch: "0", Evaluated: true, Hits: 1}),
		record("a.cc", map[int]int64{2: 5, 9: 1}, map[string]int64{"f": 4, "h": 1},
			BranchCoverage{Line: 2, Block: "0", Branch: "0", Evaluated: false}),
		record("b.cc", map[int]int64{4: 1}, nil),
		record("a.cc", map[int]int64{1: 10}, nil,
			BranchCoverage{Line: 2, Block: "0", Branch: "1", Evaluated: true}),
	}

	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}}

	var first []*SourceFileCoverage

	for _, order := range orders {
		cov := NewCoverage()
		for _, i := range order {
			cov.Add(records[i])
		}

		if first == nil {
			first = cov.Files()
			continue
		}

		assert.Equal(t, first, cov.Files(), "order %v", order)
	}

	a := first[0]
	assert.Equal(t, int64(11), a.Lines[1].Hits)
	assert.Equal(t, int64(7), a.Lines[2].Hits)
	assert.Equal(t, int64(5), a.Functions["f"].Hits)
	assert.True(t, a.Branches[BranchKey{Line: 2, Block: "0", Branch: "0"}].Evaluated)
	assert.Equal(t, int64(1), a.Branches[BranchKey{Line: 2, Block: "0", Branch: "0"}].Hits)
}

func TestCoverage_FilterOutMatching(t *testing.T) {
	cov := NewCoverage()
	cov.Add(record("foo/bar.cc", map[int]int64{1: 1}, nil))
	cov.Add(record("foo/baz.cc", map[int]int64{1: 1}, nil))

	filtered := cov.FilterOutMatching([]string{"bar"})

	assert.Equal(t, []string{"foo/baz.cc"}, filtered.Sources())
	assert.Equal(t, 2, cov.Len(), "source aggregate must not change")
}

func TestCoverage_FilterOutMatching_NoSubstrings(t *testing.T) {
	cov := NewCoverage()
	cov.Add(record("a.cc", map[int]int64{1: 1}, nil))

	assert.Equal(t, []string{"a.cc"}, cov.FilterOutMatching(nil).Sources())
}

func TestCoverage_OnlyTheseSources(t *testing.T) {
	cov := NewCoverage()
	for _, name := range []string{"A", "B", "C"} {
		cov.Add(record(name, map[int]int64{1: 1}, nil))
	}

	manifest := NewSourceManifest([]string{"A", "C", "A.gcno"})
	filtered := cov.OnlyTheseSources(manifest)

	assert.Equal(t, []string{"A", "C"}, filtered.Sources())
	assert.Equal(t, 3, cov.Len())
}

func TestCoverage_FilteredCopyIsIndependent(t *testing.T) {
	cov := NewCoverage()
	cov.Add(record("a.cc", map[int]int64{1: 1}, nil))

	filtered := cov.FilterOutMatching([]string{"zzz"})
	filtered.Add(record("a.cc", map[int]int64{1: 1}, nil))

	orig, _ := cov.Get("a.cc")
	assert.Equal(t, int64(1), orig.Lines[1].Hits)
}

func TestStateOf(t *testing.T) {
	nonEmpty := NewCoverage()
	nonEmpty.Add(record("a.cc", map[int]int64{1: 1}, nil))

	tests := []struct {
		name     string
		coverage *Coverage
		profdata int
		want     CoverageState
	}{
		{"has coverage", nonEmpty, 3, HasCoverage},
		{"nothing", NewCoverage(), 0, NoCoverageNoProfdata},
		{"one profdata", NewCoverage(), 1, NoCoverageOneProfdata},
		{"two profdata", NewCoverage(), 2, NoCoverageMultipleProfdata},
		{"nil coverage", nil, 0, NoCoverageNoProfdata},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateOf(tt.coverage, tt.profdata))
		})
	}
}
