// Package adapter contains the parsers, printers and filesystem adapters used by covmerge.
package adapter

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	m "covmerge.dev/pkg/covmerge/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when discovering and reading coverage artifacts. It hides direct
// `os` access so the workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Walk traverses the provided root path recursively.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// Open opens a file for reading. Callers must close it.
	Open(path m.Path) (io.ReadCloser, error)

	// ReadLines returns the lines of a text file without line terminators.
	ReadLines(path m.Path) ([]string, error)

	// WriteFile writes content to a file, creating parent directories.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// CopyFile copies src to dst byte for byte, creating parent directories.
	CopyFile(src, dst m.Path) error
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter implements SourceFSAdapter on the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over every file and directory under root.
func (a *LocalSourceFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// Open opens the file at path for reading.
func (a *LocalSourceFSAdapter) Open(path m.Path) (io.ReadCloser, error) {
	// #nosec G304 - coverage artifacts are user-provided by design
	return os.Open(string(path))
}

// ReadLines loads a text file line by line.
func (a *LocalSourceFSAdapter) ReadLines(path m.Path) ([]string, error) {
	f, err := a.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() { _ = f.Close() }()

	var lines []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// CopyFile copies a single file. A failed copy leaves no file at dst.
func (a *LocalSourceFSAdapter) CopyFile(src, dst m.Path) error {
	// #nosec G304 - src is a discovered coverage artifact
	sourceFile, err := os.Open(string(src))
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(string(dst)), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is the configured output path
	destFile, err := os.Create(string(dst))
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		_ = os.Remove(string(dst))

		return err
	}

	if err := destFile.Close(); err != nil {
		_ = os.Remove(string(dst))
		return err
	}

	return nil
}
