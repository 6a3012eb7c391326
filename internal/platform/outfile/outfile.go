// Package outfile writes report files to the output directory and an
// optional mirror directory.
package outfile

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Writer writes named files under a primary directory and, when set, a mirror.
type Writer struct {
	Dir       string
	MirrorDir string
}

// Write stores data under Dir and returns the primary path. A mirror failure
// is returned as mirrorErr without failing the write.
func (w Writer) Write(name string, data []byte) (path string, mirrorErr error, err error) {
	path = filepath.Join(w.Dir, name)
	if err := WriteFile(path, data); err != nil {
		return "", nil, err
	}

	if w.MirrorDir != "" {
		mirrorErr = WriteFile(filepath.Join(w.MirrorDir, name), data)
	}

	return path, mirrorErr, nil
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil { //nolint:gosec // reports are meant to be world-readable
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
