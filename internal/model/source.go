// Package model defines the data structures for coverage merging.
package model

import "strings"

// Path represents a file system path.
type Path string

// Format identifies the raw coverage format of a file.
type Format string

const (
	// FormatTracefile is an lcov tracefile, already in the merged textual format.
	FormatTracefile Format = "tracefile"
	// FormatGcov is a gcov intermediate text file produced per compilation unit.
	FormatGcov Format = "gcov"
	// FormatProfdata is an llvm profdata file. It cannot be decoded and is only
	// ever copied through.
	FormatProfdata Format = "profdata"
)

// File extensions recognised by FormatOf.
const (
	TracefileExtension = ".dat"
	GcovExtension      = ".gcov"
	ProfdataExtension  = ".profdata"
)

// BaselineCoverageFile is the legacy tracefile that is never ingested.
const BaselineCoverageFile = "baseline_coverage.dat"

var metadataExtensions = []string{".gcno", ".em"}

// FormatOf classifies path by its extension. The second result is false when
// the extension is not a known coverage format.
func FormatOf(path Path) (Format, bool) {
	p := string(path)

	switch {
	case strings.HasSuffix(p, TracefileExtension):
		return FormatTracefile, true
	case strings.HasSuffix(p, GcovExtension):
		return FormatGcov, true
	case strings.HasSuffix(p, ProfdataExtension):
		return FormatProfdata, true
	}

	return "", false
}

// Ingestible reports whether files of this format are parsed into the model.
func (f Format) Ingestible() bool {
	return f == FormatTracefile || f == FormatGcov
}

// RawCoverageFile is a discovered coverage artifact and its format.
type RawCoverageFile struct {
	Path   Path
	Format Format
}

// IsMetadataFile reports whether name is a coverage metadata file (.gcno, .em)
// rather than a genuine source file.
func IsMetadataFile(name string) bool {
	for _, ext := range metadataExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}

// SourceManifest is the set of genuine source files a report may mention.
type SourceManifest map[string]struct{}

// NewSourceManifest builds a manifest from raw manifest lines, dropping blank
// lines and coverage metadata files.
func NewSourceManifest(lines []string) SourceManifest {
	manifest := make(SourceManifest, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" || IsMetadataFile(line) {
			continue
		}

		manifest[line] = struct{}{}
	}

	return manifest
}

// Contains reports whether source is listed in the manifest.
func (s SourceManifest) Contains(source string) bool {
	_, ok := s[source]
	return ok
}
