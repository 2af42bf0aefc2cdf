package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/util"
)

// ArchiveStorage keeps compressed intention log archives under the data dir.
type ArchiveStorage struct {
	baseDir string
}

func NewArchiveStorage() (*ArchiveStorage, error) {
	baseDir, err := util.GetXDGDataDir()
	if err != nil {
		return nil, err
	}
	return NewArchiveStorageAt(filepath.Join(baseDir, "archive"))
}

// NewArchiveStorageAt stores archives in dir.
func NewArchiveStorageAt(dir string) (*ArchiveStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &ArchiveStorage{baseDir: dir}, nil
}

// Store writes logs to name.jsonl.zst and returns the path.
func (s *ArchiveStorage) Store(ctx context.Context, name string, logs []domain.IntentionLog) (string, error) {
	destPath := s.getPath(name)

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() { _ = dest.Close() }()

	if err := WriteJSONL(dest, logs, true); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if err := dest.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive: %w", err)
	}
	return destPath, nil
}

func (s *ArchiveStorage) Get(ctx context.Context, name string) ([]domain.IntentionLog, error) {
	file, err := os.Open(s.getPath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	defer func() { _ = file.Close() }()

	logs, err := ReadJSONL(file, true)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return logs, nil
}

func (s *ArchiveStorage) Delete(ctx context.Context, name string) error {
	if err := os.Remove(s.getPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete archive: %w", err)
	}
	return nil
}

func (s *ArchiveStorage) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(s.getPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *ArchiveStorage) getPath(name string) string {
	return filepath.Join(s.baseDir, name+".jsonl.zst")
}
