package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

type fileSummary struct {
	Source         string `yaml:"source"`
	LinesFound     int    `yaml:"lines_found"`
	LinesHit       int    `yaml:"lines_hit"`
	FunctionsFound int    `yaml:"functions_found"`
	FunctionsHit   int    `yaml:"functions_hit"`
	BranchesFound  int    `yaml:"branches_found"`
	BranchesHit    int    `yaml:"branches_hit"`
}

type summaryDocument struct {
	Files []fileSummary `yaml:"files"`
	Total fileSummary   `yaml:"total"`
}

// DisplaySummary prints per-file and total line, function and branch counts.
func (s *SimpleUI) DisplaySummary(ctx context.Context, coverage *m.Coverage, format SummaryFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := buildSummary(coverage)

	switch format {
	case FormatYAML:
		out, err := renderSummaryYAML(doc)
		if err != nil {
			return err
		}

		s.printf("%s", out)
	case FormatTable, "":
		s.printf("\n%s", renderSummaryTable(doc))
	default:
		return fmt.Errorf("unknown summary format %q", format)
	}

	return nil
}

func buildSummary(coverage *m.Coverage) summaryDocument {
	doc := summaryDocument{Total: fileSummary{Source: "total"}}

	for _, file := range coverage.Files() {
		fs := fileSummary{
			Source:         file.SourceFileName,
			LinesFound:     file.LinesFound(),
			LinesHit:       file.LinesHit(),
			FunctionsFound: file.FunctionsFound(),
			FunctionsHit:   file.FunctionsHit(),
			BranchesFound:  file.BranchesFound(),
			BranchesHit:    file.BranchesHit(),
		}

		doc.Files = append(doc.Files, fs)

		doc.Total.LinesFound += fs.LinesFound
		doc.Total.LinesHit += fs.LinesHit
		doc.Total.FunctionsFound += fs.FunctionsFound
		doc.Total.FunctionsHit += fs.FunctionsHit
		doc.Total.BranchesFound += fs.BranchesFound
		doc.Total.BranchesHit += fs.BranchesHit
	}

	return doc
}

func renderSummaryTable(doc summaryDocument) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Source", "Lines", "Line %", "Functions", "Branches"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, fs := range doc.Files {
		table.Append(summaryRow(fs.Source, fs))
	}

	table.SetFooter(summaryRow(fmt.Sprintf("Total Files %d", len(doc.Files)), doc.Total))
	table.Render()

	return tableBuffer.String()
}

func summaryRow(label string, fs fileSummary) []string {
	return []string{
		label,
		fmt.Sprintf("%d/%d", fs.LinesHit, fs.LinesFound),
		formatPercent(fs.LinesHit, fs.LinesFound),
		fmt.Sprintf("%d/%d", fs.FunctionsHit, fs.FunctionsFound),
		fmt.Sprintf("%d/%d", fs.BranchesHit, fs.BranchesFound),
	}
}

func renderSummaryYAML(doc summaryDocument) (string, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}

	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}

	return buf.String(), nil
}

func formatPercent(hit, found int) string {
	if found == 0 {
		return "-"
	}

	return fmt.Sprintf("%.1f%%", float64(hit)*100/float64(found))
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
