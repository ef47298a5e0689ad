package domain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"covmerge.dev/pkg/covmerge/internal/adapter"
	"covmerge.dev/pkg/covmerge/internal/adapter/mocks"
	m "covmerge.dev/pkg/covmerge/internal/model"
)

func TestIngestor_MergesTracefilesAndGcov(t *testing.T) {
	fs := mocks.NewMockSourceFSAdapter(t)
	fs.On("Open", m.Path("one.dat")).Return(io.NopCloser(strings.NewReader(tracefile("a.cc", 2))), nil)
	fs.On("Open", m.Path("two.dat")).Return(io.NopCloser(strings.NewReader(tracefile("a.cc", 3))), nil)
	fs.On("Open", m.Path("b.gcov")).Return(io.NopCloser(strings.NewReader("version:9.0\nfile:b.cc\nlcount:7,1\n")), nil)

	ing := NewIngestor(fs, adapter.DefaultParsers(), discardLogger())

	coverage, err := ing.Ingest(context.Background(), []m.RawCoverageFile{
		{Path: "b.gcov", Format: m.FormatGcov},
		{Path: "one.dat", Format: m.FormatTracefile},
		{Path: "default.profdata", Format: m.FormatProfdata},
		{Path: "two.dat", Format: m.FormatTracefile},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.cc", "b.cc"}, coverage.Sources())

	a, ok := coverage.Get("a.cc")
	require.True(t, ok)
	assert.Equal(t, int64(5), a.Lines[1].Hits)

	b, ok := coverage.Get("b.cc")
	require.True(t, ok)
	assert.Equal(t, int64(1), b.Lines[7].Hits)
}

func TestIngestor_EmptyInput(t *testing.T) {
	ing := NewIngestor(mocks.NewMockSourceFSAdapter(t), adapter.DefaultParsers(), discardLogger())

	coverage, err := ing.Ingest(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, coverage.IsEmpty())
}

func TestIngestor_ParseErrorAborts(t *testing.T) {
	fs := mocks.NewMockSourceFSAdapter(t)
	fs.On("Open", m.Path("bad.dat")).Return(io.NopCloser(strings.NewReader("SF:a.cc\nDA:x,1\nend_of_record\n")), nil)

	ing := NewIngestor(fs, adapter.DefaultParsers(), discardLogger())

	_, err := ing.Ingest(context.Background(), []m.RawCoverageFile{
		{Path: "bad.dat", Format: m.FormatTracefile},
		{Path: "never.dat", Format: m.FormatTracefile},
	})
	require.Error(t, err)
	assert.Equal(t, KindParse, KindOf(err))

	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, m.Path("bad.dat"), domainErr.Path)
}

func TestIngestor_OpenError(t *testing.T) {
	fs := mocks.NewMockSourceFSAdapter(t)
	fs.On("Open", m.Path("gone.dat")).Return(nil, errors.New("no such file"))

	ing := NewIngestor(fs, adapter.DefaultParsers(), discardLogger())

	_, err := ing.Ingest(context.Background(), []m.RawCoverageFile{{Path: "gone.dat", Format: m.FormatTracefile}})
	assert.Equal(t, KindParse, KindOf(err))
}

func TestIngestor_UsesRegisteredParser(t *testing.T) {
	fs := mocks.NewMockSourceFSAdapter(t)
	fs.On("Open", m.Path("a.dat")).Return(io.NopCloser(strings.NewReader("")), nil)

	record := m.NewSourceFileCoverage("a.cc")
	record.AddLine(m.LineCoverage{Line: 1, Hits: 1})

	parser := mocks.NewMockCoverageParser(t)
	parser.On("Parse", mock.Anything).Return([]*m.SourceFileCoverage{record}, nil)

	ing := NewIngestor(fs, map[m.Format]adapter.CoverageParser{m.FormatTracefile: parser}, discardLogger())

	coverage, err := ing.Ingest(context.Background(), []m.RawCoverageFile{{Path: "a.dat", Format: m.FormatTracefile}})
	require.NoError(t, err)
	assert.Equal(t, 1, coverage.Len())
}

func TestIngestor_MissingParser(t *testing.T) {
	ing := NewIngestor(mocks.NewMockSourceFSAdapter(t), map[m.Format]adapter.CoverageParser{}, discardLogger())

	_, err := ing.Ingest(context.Background(), []m.RawCoverageFile{{Path: "a.gcov", Format: m.FormatGcov}})
	assert.Equal(t, KindParse, KindOf(err))
}

func TestIngestor_SkipsProfdata(t *testing.T) {
	var logs bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ing := NewIngestor(mocks.NewMockSourceFSAdapter(t), adapter.DefaultParsers(), logger)

	coverage, err := ing.Ingest(context.Background(), []m.RawCoverageFile{
		{Path: "a/default.profdata", Format: m.FormatProfdata},
		{Path: "b/default.profdata", Format: m.FormatProfdata},
	})
	require.NoError(t, err)
	assert.True(t, coverage.IsEmpty())
	assert.Contains(t, logs.String(), "Skipping files that are not parsed")
	assert.Contains(t, logs.String(), "count=2")
}
