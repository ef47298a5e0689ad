// Package domain implements the coverage merge workflow.
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"covmerge.dev/pkg/covmerge/internal/adapter"
	"covmerge.dev/pkg/covmerge/internal/controller"
	m "covmerge.dev/pkg/covmerge/internal/model"
)

// MergeArgs is the immutable configuration of a merge run.
type MergeArgs struct {
	Output             m.Path
	CoverageDir        m.Path
	ReportsFile        m.Path
	FilterSources      []string
	SourceFileManifest m.Path
}

// Validate checks the arguments before any I/O happens.
func (a MergeArgs) Validate() error {
	if strings.TrimSpace(string(a.Output)) == "" {
		return newError(KindConfig, "", ErrNoOutput)
	}

	hasDir := strings.TrimSpace(string(a.CoverageDir)) != ""
	hasReports := strings.TrimSpace(string(a.ReportsFile)) != ""

	switch {
	case !hasDir && !hasReports:
		return newError(KindConfig, "", ErrNoInput)
	case hasDir && hasReports:
		return newError(KindConfig, "", ErrBothInputs)
	}

	return nil
}

func (a MergeArgs) exclusions() []string {
	var out []string

	for _, s := range a.FilterSources {
		if s != "" {
			out = append(out, s)
		}
	}

	return out
}

// SummaryArgs selects the tracefile shown by Summary.
type SummaryArgs struct {
	Tracefile m.Path
	Format    controller.SummaryFormat
}

// Workflow defines the covmerge use cases.
type Workflow interface {
	Merge(ctx context.Context, args MergeArgs) error
	Summary(ctx context.Context, args SummaryArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Discovery
	Ingestor

	logger *slog.Logger
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	discovery Discovery,
	ingestor Ingestor,
	logger *slog.Logger,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Discovery:       discovery,
		Ingestor:        ingestor,
		logger:          logger,
	}
}

// Merge discovers, parses, merges, filters and writes coverage. It returns
// nil on success, including when a lone profdata file was copied through.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	if err := args.Validate(); err != nil {
		return err
	}

	files := w.discover(ctx, args)

	coverage, err := w.Ingest(ctx, files)
	if err != nil {
		return err
	}

	profdata := Bucket(files)[m.FormatProfdata]
	if len(profdata) == 0 {
		w.logger.InfoContext(ctx, "No .profdata file found")
	} else {
		w.logger.InfoContext(ctx, "Found .profdata files", "count", len(profdata))
	}

	switch m.StateOf(coverage, len(profdata)) {
	case m.NoCoverageNoProfdata:
		return newError(KindNoCoverage, "", ErrNoCoverage)
	case m.NoCoverageMultipleProfdata:
		return newError(KindMultipleProfdata, "", fmt.Errorf("%w, but %d were found", ErrMultipleProfdata, len(profdata)))
	case m.NoCoverageOneProfdata:
		return w.passthrough(ctx, profdata[0].Path, args.Output)
	case m.HasCoverage:
	}

	if exclusions := args.exclusions(); len(exclusions) > 0 {
		coverage = coverage.FilterOutMatching(exclusions)
	}

	if args.SourceFileManifest != "" {
		coverage = coverage.OnlyTheseSources(w.readSourceManifest(ctx, args.SourceFileManifest))
	}

	if err := w.SaveCoverage(args.Output, coverage); err != nil {
		return newError(KindOutput, args.Output, err)
	}

	w.logger.InfoContext(ctx, "Wrote merged coverage", "output", args.Output, "sources", coverage.Len())

	return nil
}

// Summary loads a tracefile and displays per-file totals.
func (w *workflow) Summary(ctx context.Context, args SummaryArgs) error {
	coverage, err := w.LoadCoverage(args.Tracefile)
	if err != nil {
		return newError(KindParse, args.Tracefile, err)
	}

	if err := w.DisplaySummary(ctx, coverage, args.Format); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) discover(ctx context.Context, args MergeArgs) []m.RawCoverageFile {
	if args.CoverageDir != "" {
		return w.InDir(ctx, args.CoverageDir)
	}

	return w.FromReportsFile(ctx, args.ReportsFile)
}

// passthrough copies the only profdata file to the output. profdata cannot be
// converted to lcov yet, so it is kept as is rather than dropped.
func (w *workflow) passthrough(ctx context.Context, profdata, output m.Path) error {
	w.logger.InfoContext(ctx, "One profdata file was found. Skipping converting to lcov.", "file", profdata)

	if err := w.CopyFile(profdata, output); err != nil {
		return newError(KindPassthrough, profdata, err)
	}

	return nil
}

// readSourceManifest returns the genuine source files listed in path. A
// manifest that cannot be read is logged and yields an empty allow-list.
func (w *workflow) readSourceManifest(ctx context.Context, path m.Path) m.SourceManifest {
	lines, err := w.ReadLines(path)
	if err != nil {
		w.logger.ErrorContext(ctx, "Error reading source file manifest", "file", path, "error", err)
		return m.SourceManifest{}
	}

	return m.NewSourceManifest(lines)
}
