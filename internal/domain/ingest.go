package domain

import (
	"context"
	"fmt"
	"log/slog"

	"covmerge.dev/pkg/covmerge/internal/adapter"
	m "covmerge.dev/pkg/covmerge/internal/model"
)

// ingestOrder is the order in which format buckets are parsed.
var ingestOrder = []m.Format{m.FormatTracefile, m.FormatGcov}

// Ingestor parses raw coverage files into one aggregate.
type Ingestor interface {
	Ingest(ctx context.Context, files []m.RawCoverageFile) (*m.Coverage, error)
}

type ingestor struct {
	fs      adapter.SourceFSAdapter
	parsers map[m.Format]adapter.CoverageParser
	logger  *slog.Logger
}

// NewIngestor constructs an Ingestor dispatching to parsers by format.
func NewIngestor(fs adapter.SourceFSAdapter, parsers map[m.Format]adapter.CoverageParser, logger *slog.Logger) Ingestor {
	return &ingestor{fs: fs, parsers: parsers, logger: logger}
}

// Ingest parses every ingestible file and merges all records. Files of other
// formats are ignored. The first file that fails to parse aborts the run.
func (i *ingestor) Ingest(ctx context.Context, files []m.RawCoverageFile) (*m.Coverage, error) {
	coverage := m.NewCoverage()
	buckets := Bucket(files)

	skipped := 0
	for _, file := range files {
		if !file.Format.Ingestible() {
			skipped++
		}
	}

	if skipped > 0 {
		i.logger.DebugContext(ctx, "Skipping files that are not parsed", "count", skipped)
	}

	for _, format := range ingestOrder {
		bucket := buckets[format]
		if len(bucket) == 0 {
			i.logger.InfoContext(ctx, "No coverage files found", "format", format)
			continue
		}

		i.logger.InfoContext(ctx, "Found coverage files", "format", format, "count", len(bucket))

		parser, ok := i.parsers[format]
		if !ok {
			return nil, newError(KindParse, "", fmt.Errorf("no parser registered for format %s", format))
		}

		for _, file := range bucket {
			if err := i.ingestFile(ctx, coverage, parser, file); err != nil {
				return nil, err
			}
		}
	}

	return coverage, nil
}

func (i *ingestor) ingestFile(ctx context.Context, coverage *m.Coverage, parser adapter.CoverageParser, file m.RawCoverageFile) error {
	i.logger.DebugContext(ctx, "Parsing file", "file", file.Path, "format", file.Format)

	f, err := i.fs.Open(file.Path)
	if err != nil {
		return newError(KindParse, file.Path, err)
	}

	defer func() { _ = f.Close() }()

	records, err := parser.Parse(f)
	if err != nil {
		return newError(KindParse, file.Path, err)
	}

	for _, record := range records {
		for _, mismatch := range coverage.Add(record) {
			i.logger.WarnContext(ctx, "Conflicting coverage data", "file", file.Path, "source", mismatch.Source, "detail", mismatch.Detail)
		}
	}

	return nil
}
