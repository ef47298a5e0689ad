package domain

import (
	"errors"
	"fmt"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

// ErrorKind classifies the fatal conditions of a run.
type ErrorKind int

// Available ErrorKind values.
const (
	KindUnknown ErrorKind = iota
	KindConfig
	KindParse
	KindNoCoverage
	KindMultipleProfdata
	KindPassthrough
	KindOutput
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindParse:
		return "parse"
	case KindNoCoverage:
		return "no_coverage"
	case KindMultipleProfdata:
		return "multiple_profdata"
	case KindPassthrough:
		return "passthrough"
	case KindOutput:
		return "output"
	case KindUnknown:
	}

	return "unknown"
}

// Sentinel errors wrapped by Error.
var (
	ErrNoOutput         = errors.New("an output file must be specified")
	ErrNoInput          = errors.New("at least one of coverage dir or reports file must be specified")
	ErrBothInputs       = errors.New("only one of coverage dir or reports file may be specified")
	ErrNoCoverage       = errors.New("there was no coverage found")
	ErrMultipleProfdata = errors.New("only one profdata file per run is supported")
)

// Error is a fatal condition of a run. Path names the file involved, if any.
type Error struct {
	Kind ErrorKind
	Path m.Path
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, path m.Path, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}
