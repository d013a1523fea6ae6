package provisioner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// FileStore keeps worker scripts in a cache directory and addresses them
// with file:// URLs. Entries survive restarts, so Lookup can serve a copy
// from an earlier process when the network is unavailable.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to cache empty worker script")
	}

	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute cache path: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(absDir, ".worker-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write worker script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close worker script: %w", err)
	}

	target := filepath.Join(absDir, s.name(key))
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to store worker script: %w", err)
	}

	return "file://" + target, nil
}

func (s *FileStore) Lookup(key string) (string, bool) {
	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", false
	}
	target := filepath.Join(absDir, s.name(key))
	info, err := os.Stat(target)
	if err != nil || info.Size() == 0 {
		return "", false
	}
	return "file://" + target, true
}

func (s *FileStore) name(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8]) + "-" + path.Base(key)
}
