package audio

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader fetches clip bytes by file name. The production loader reads from
// the sounds directory; tests inject fakes to exercise the retry protocol.
type Loader interface {
	Load(file string) ([]byte, error)
}

// FileLoader reads clips from a directory on disk
type FileLoader struct {
	dir string
}

// NewFileLoader creates a loader rooted at the given directory
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{dir: dir}
}

func (l *FileLoader) Load(file string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, file))
	if err != nil {
		return nil, fmt.Errorf("failed to read clip %s: %w", file, err)
	}
	return data, nil
}
