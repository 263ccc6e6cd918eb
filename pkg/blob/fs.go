package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"logvault/pkg/logger"
)

// fsStore keeps archive objects as plain files under a root directory.
// Useful for local runs and tests; content type is ignored.
type fsStore struct {
	root string
}

func newFSStore(root string) (*fsStore, error) {
	if root == "" {
		return nil, fmt.Errorf("fs blob backend requires a root directory")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	logger.Info("blob_fs_ready", "root", root)
	return &fsStore{root: root}, nil
}

func (f *fsStore) path(key string) string {
	return filepath.Join(f.root, filepath.FromSlash(key))
}

func (f *fsStore) ReadIfExists(_ context.Context, key string) (string, bool, error) {
	b, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return string(b), true, nil
}

func (f *fsStore) WriteFull(_ context.Context, key, text, _ string) error {
	p := f.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("failed to create blob directory for %s: %w", key, err)
	}
	// write to a temp file then rename so readers never see partial content
	tmp, err := os.CreateTemp(filepath.Dir(p), ".blob-*")
	if err != nil {
		return fmt.Errorf("failed to create temp blob for %s: %w", key, err)
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close blob %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize blob %s: %w", key, err)
	}
	return nil
}
