// Package controller provides output adapters for displaying coverage results.
package controller

import (
	"context"
	"fmt"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

// SummaryFormat selects how DisplaySummary renders coverage.
type SummaryFormat string

// Available SummaryFormat values.
const (
	FormatTable SummaryFormat = "table"
	FormatYAML  SummaryFormat = "yaml"
)

// ParseSummaryFormat validates a user supplied format name.
func ParseSummaryFormat(value string) (SummaryFormat, error) {
	switch SummaryFormat(value) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	}

	return "", fmt.Errorf("unknown summary format %q (want %s or %s)", value, FormatTable, FormatYAML)
}

// UI defines the interface for displaying coverage to a person.
// Implementations can use different output methods (table, yaml, ...).
type UI interface {
	DisplaySummary(ctx context.Context, coverage *m.Coverage, format SummaryFormat) error
}
