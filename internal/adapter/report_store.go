package adapter

import (
	"bytes"
	"fmt"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

const reportFilePerm = 0o644

// ReportStore persists merged coverage as lcov tracefiles.
type ReportStore interface {
	SaveCoverage(path m.Path, coverage *m.Coverage) error
	LoadCoverage(path m.Path) (*m.Coverage, error)
}

// LcovReportStore implements ReportStore on top of a SourceFSAdapter.
type LcovReportStore struct {
	fs      SourceFSAdapter
	printer *LcovPrinter
	parser  CoverageParser
}

// NewReportStore creates a ReportStore that reads and writes lcov tracefiles.
func NewReportStore(fs SourceFSAdapter) *LcovReportStore {
	return &LcovReportStore{
		fs:      fs,
		printer: NewLcovPrinter(),
		parser:  NewLcovParser(),
	}
}

// SaveCoverage renders the whole report before touching path, so a failure
// never leaves a half-written tracefile behind.
func (s *LcovReportStore) SaveCoverage(path m.Path, coverage *m.Coverage) error {
	var buf bytes.Buffer
	if err := s.printer.Print(&buf, coverage); err != nil {
		return fmt.Errorf("render tracefile: %w", err)
	}

	if err := s.fs.WriteFile(path, buf.Bytes(), reportFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// LoadCoverage parses the tracefile at path into a new aggregate.
func (s *LcovReportStore) LoadCoverage(path m.Path) (*m.Coverage, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	defer func() { _ = f.Close() }()

	records, err := s.parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	coverage := m.NewCoverage()
	for _, record := range records {
		coverage.Add(record)
	}

	return coverage, nil
}
