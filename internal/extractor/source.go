package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Source is a named byte source such as an uploaded file.
type Source interface {
	Name() string
	Size() int64
	LastModified() time.Time
	Bytes(ctx context.Context) ([]byte, error)
}

// BytesSource is a Source backed by an in-memory buffer.
type BytesSource struct {
	name     string
	data     []byte
	modified time.Time
}

func NewBytesSource(name string, data []byte, modified time.Time) *BytesSource {
	return &BytesSource{name: name, data: data, modified: modified}
}

func (s *BytesSource) Name() string            { return s.name }
func (s *BytesSource) Size() int64             { return int64(len(s.data)) }
func (s *BytesSource) LastModified() time.Time { return s.modified }

func (s *BytesSource) Bytes(ctx context.Context) ([]byte, error) {
	return s.data, ctx.Err()
}

// FileSource reads a file from disk.
type FileSource struct {
	path string
	info os.FileInfo
}

func NewFileSource(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &FileSource{path: path, info: info}, nil
}

func (s *FileSource) Name() string            { return filepath.Base(s.path) }
func (s *FileSource) Size() int64             { return s.info.Size() }
func (s *FileSource) LastModified() time.Time { return s.info.ModTime() }

func (s *FileSource) Bytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(s.path)
}
