package oil

import (
	"fmt"
	"io/fs"
)

// fsLoader serves fragments from an fs.FS.
type fsLoader struct {
	fsys fs.FS
}

// NewFSLoader returns a Loader reading fragments from fsys. Paths follow
// fs.FS conventions: slash-separated, relative, no leading "./".
func NewFSLoader(fsys fs.FS) Loader {
	return &fsLoader{fsys: fsys}
}

// Load implements Loader.
func (l *fsLoader) Load(path string) (string, error) {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MapLoader serves fragments from an in-memory map, keyed by normalized
// path. Useful in tests and tooling.
type MapLoader map[string]string

// Load implements Loader.
func (m MapLoader) Load(path string) (string, error) {
	source, ok := m[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return source, nil
}
