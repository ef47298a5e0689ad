package controller

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

func sampleCoverage() *m.Coverage {
	cov := m.NewCoverage()

	a := m.NewSourceFileCoverage("src/a.cc")
	a.AddLine(m.LineCoverage{Line: 1, Hits: 1})
	a.AddLine(m.LineCoverage{Line: 2, Hits: 0})
	a.AddFunction(m.FunctionCoverage{Name: "f", Line: 1, Hits: 1})
	a.AddBranch(m.BranchCoverage{Line: 1, Block: "0", Branch: "0", Evaluated: true, Hits: 2})
	cov.Add(a)

	b := m.NewSourceFileCoverage("src/b.cc")
	b.AddLine(m.LineCoverage{Line: 4, Hits: 3})
	cov.Add(b)

	return cov
}

func newTestUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func TestSimpleUI_DisplaySummaryTable(t *testing.T) {
	ui, buf := newTestUI()

	err := ui.DisplaySummary(context.Background(), sampleCoverage(), FormatTable)
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{"Source", "src/a.cc", "src/b.cc", "1/2", "50.0%", "1/1", "Total Files 2", "2/3"} {
		assert.Contains(t, out, want)
	}
}

func TestSimpleUI_DisplaySummaryEmptyCoverage(t *testing.T) {
	ui, buf := newTestUI()

	err := ui.DisplaySummary(context.Background(), m.NewCoverage(), FormatTable)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Total Files 0")
}

func TestSimpleUI_DisplaySummaryYAML(t *testing.T) {
	ui, buf := newTestUI()

	err := ui.DisplaySummary(context.Background(), sampleCoverage(), FormatYAML)
	require.NoError(t, err)

	var doc summaryDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Files, 2)
	assert.Equal(t, "src/a.cc", doc.Files[0].Source)
	assert.Equal(t, 2, doc.Files[0].LinesFound)
	assert.Equal(t, 1, doc.Files[0].BranchesHit)
	assert.Equal(t, 3, doc.Total.LinesFound)
	assert.Equal(t, 2, doc.Total.LinesHit)
}

func TestSimpleUI_DisplaySummaryUnknownFormat(t *testing.T) {
	ui, _ := newTestUI()

	err := ui.DisplaySummary(context.Background(), sampleCoverage(), SummaryFormat("html"))
	require.Error(t, err)
}

func TestSimpleUI_DisplaySummaryCancelledContext(t *testing.T) {
	ui, buf := newTestUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ui.DisplaySummary(ctx, sampleCoverage(), FormatTable)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestParseSummaryFormat(t *testing.T) {
	tests := []struct {
		value   string
		want    SummaryFormat
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"yaml", FormatYAML, false},
		{"json", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseSummaryFormat(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
