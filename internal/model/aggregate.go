package model

import (
	"sort"
	"strings"
)

// Coverage is the merged coverage of a run, one entry per source file.
//
// Entries are only ever added through Add; the filter methods build new
// instances and leave the receiver untouched.
type Coverage struct {
	sources map[string]*SourceFileCoverage
}

// NewCoverage returns an empty aggregate.
func NewCoverage() *Coverage {
	return &Coverage{sources: map[string]*SourceFileCoverage{}}
}

// Add contributes one record. A record for an unknown file is copied in as is;
// otherwise its counters are summed into the existing entry. Adding the same
// record twice doubles its counts.
func (c *Coverage) Add(record *SourceFileCoverage) []Mismatch {
	if record == nil {
		return nil
	}

	existing, ok := c.sources[record.SourceFileName]
	if !ok {
		c.sources[record.SourceFileName] = record.Clone()
		return nil
	}

	return existing.Merge(record)
}

// IsEmpty reports whether no source file has been added.
func (c *Coverage) IsEmpty() bool {
	return len(c.sources) == 0
}

// Len returns the number of source files.
func (c *Coverage) Len() int {
	return len(c.sources)
}

// Get returns a copy of the record for source.
func (c *Coverage) Get(source string) (*SourceFileCoverage, bool) {
	record, ok := c.sources[source]
	if !ok {
		return nil, false
	}

	return record.Clone(), true
}

// Sources returns the source file names in lexical order.
func (c *Coverage) Sources() []string {
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Files returns copies of all records ordered by source file name.
func (c *Coverage) Files() []*SourceFileCoverage {
	names := c.Sources()

	files := make([]*SourceFileCoverage, 0, len(names))
	for _, name := range names {
		files = append(files, c.sources[name].Clone())
	}

	return files
}

// FilterOutMatching returns a new aggregate without the files whose name
// contains any of substrings.
func (c *Coverage) FilterOutMatching(substrings []string) *Coverage {
	return c.filter(func(source string) bool {
		for _, s := range substrings {
			if strings.Contains(source, s) {
				return false
			}
		}

		return true
	})
}

// OnlyTheseSources returns a new aggregate with only the files listed in
// manifest.
func (c *Coverage) OnlyTheseSources(manifest SourceManifest) *Coverage {
	return c.filter(manifest.Contains)
}

func (c *Coverage) filter(keep func(source string) bool) *Coverage {
	filtered := NewCoverage()

	for name, record := range c.sources {
		if keep(name) {
			filtered.sources[name] = record.Clone()
		}
	}

	return filtered
}
