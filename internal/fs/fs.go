// Package fs provides filesystem adapters that implement library service interfaces.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// OSWriter implements library.FileWriter. Files are written to a temporary
// sibling and renamed into place, so readers never see a partial library.
type OSWriter struct{}

// WriteFileImpl writes content to path atomically, creating parent directories as needed.
func (OSWriter) WriteFileImpl(_ context.Context, path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// WriteFile delegates to WriteFileImpl.
func (w OSWriter) WriteFile(ctx context.Context, path string, content []byte) error {
	return w.WriteFileImpl(ctx, path, content)
}

// OSContentReader implements library.ContentReader using os.ReadFile.
type OSContentReader struct{}

// ReadFileImpl reads the full content of the file at path.
func (OSContentReader) ReadFileImpl(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadFile delegates to ReadFileImpl.
func (cr OSContentReader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return cr.ReadFileImpl(ctx, path)
}
