package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage stores blobs on the local filesystem under a root directory.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %v", err)
	}
	return &LocalStorage{root: root}, nil
}

func (l *LocalStorage) path(key string) string {
	// Keys are flat ids; Base strips any path separators smuggled in.
	return filepath.Join(l.root, filepath.Base(key))
}

func (l *LocalStorage) Upload(reader io.Reader, key string) error {
	f, err := os.Create(l.path(key))
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to write file: %v", err)
	}
	return nil
}

func (l *LocalStorage) UploadBytes(data []byte, key string) error {
	if err := os.WriteFile(l.path(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %v", err)
	}
	return nil
}

func (l *LocalStorage) Download(key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %v", err)
	}
	return f, nil
}

func (l *LocalStorage) Delete(key string) error {
	if err := os.Remove(l.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func (l *LocalStorage) PublicURL(key string) string {
	return "/api/v1/resources/" + key + "/file"
}
