package domain

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"covmerge.dev/pkg/covmerge/internal/adapter"
	m "covmerge.dev/pkg/covmerge/internal/model"
)

// Discovery finds the raw coverage files of a run.
//
// Discovery never fails: unreadable directories or manifests are logged and
// reported as "nothing found", leaving the empty-coverage decision to the
// workflow.
type Discovery interface {
	// InDir walks root recursively and returns every tracefile, gcov and
	// profdata file below it in walk order.
	InDir(ctx context.Context, root m.Path) []m.RawCoverageFile
	// FromReportsFile returns the tracefiles listed one per line in path.
	FromReportsFile(ctx context.Context, path m.Path) []m.RawCoverageFile
}

type discovery struct {
	fs     adapter.SourceFSAdapter
	logger *slog.Logger
}

// NewDiscovery constructs a Discovery backed by the filesystem adapter.
func NewDiscovery(fs adapter.SourceFSAdapter, logger *slog.Logger) Discovery {
	return &discovery{fs: fs, logger: logger}
}

func (d *discovery) InDir(ctx context.Context, root m.Path) []m.RawCoverageFile {
	var files []m.RawCoverageFile

	err := d.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || isBaseline(path) {
			return nil
		}

		format, ok := m.FormatOf(m.Path(path))
		if !ok {
			return nil
		}

		files = append(files, m.RawCoverageFile{Path: m.Path(path), Format: format})

		return nil
	})
	if err != nil {
		d.logger.ErrorContext(ctx, "Error reading coverage directory", "dir", root, "error", err)
		return nil
	}

	d.logger.DebugContext(ctx, "Scanned coverage directory", "dir", root, "files", len(files))

	return files
}

func (d *discovery) FromReportsFile(ctx context.Context, path m.Path) []m.RawCoverageFile {
	lines, err := d.fs.ReadLines(path)
	if err != nil {
		d.logger.ErrorContext(ctx, "Error reading reports file", "file", path, "error", err)
		return nil
	}

	files := make([]m.RawCoverageFile, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || isBaseline(line) {
			continue
		}

		files = append(files, m.RawCoverageFile{Path: m.Path(line), Format: m.FormatTracefile})
	}

	return files
}

func isBaseline(path string) bool {
	return strings.HasSuffix(path, m.BaselineCoverageFile)
}

// Bucket groups files by format, keeping discovery order inside each group.
func Bucket(files []m.RawCoverageFile) map[m.Format][]m.RawCoverageFile {
	buckets := map[m.Format][]m.RawCoverageFile{}

	for _, f := range files {
		buckets[f.Format] = append(buckets[f.Format], f)
	}

	return buckets
}
