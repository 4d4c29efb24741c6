// Package resource loads externally supplied mapping fragments (raw
// property mappings, dynamic templates, runtime fields) referenced by
// entity definitions.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound marks a fragment reference that does not resolve to a
// resource. Callers distinguish it from genuine read failures with
// errors.Is.
var ErrNotFound = errors.New("resource not found")

// Loader reads the text of an externally referenced fragment.
type Loader interface {
	ReadText(path string) (string, error)
}

// Dir is a Loader serving fragment files relative to a root directory.
type Dir string

// ReadText reads the fragment at path under the directory root.
func (d Dir) ReadText(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(string(d), filepath.FromSlash(path)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}

		return "", fmt.Errorf("reading fragment %s: %w", path, err)
	}

	return string(data), nil
}

// FS adapts an fs.FS to a Loader; handy for tests and embedded fragments.
func FS(fsys fs.FS) Loader {
	return fsLoader{fsys: fsys}
}

type fsLoader struct {
	fsys fs.FS
}

func (l fsLoader) ReadText(path string) (string, error) {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}

		return "", fmt.Errorf("reading fragment %s: %w", path, err)
	}

	return string(data), nil
}
