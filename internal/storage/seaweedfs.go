package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/url"

	"lms-resource-center/internal/config"

	"github.com/linxGnu/goseaweedfs"
)

// SeaweedFSStorage implements the Storage interface against a SeaweedFS
// filer.
type SeaweedFSStorage struct {
	client    *goseaweedfs.Filer
	publicURL string
}

func NewSeaweedFSStorage(cfg config.SeaweedFSConfig, serverPort string) (*SeaweedFSStorage, error) {
	client, err := goseaweedfs.NewFiler(cfg.MasterURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create SeaweedFS client: %v", err)
	}

	return &SeaweedFSStorage{
		client:    client,
		publicURL: fmt.Sprintf("http://localhost:%s", serverPort),
	}, nil
}

func (s *SeaweedFSStorage) Upload(reader io.Reader, key string) error {
	// The filer client does not stream; buffer the whole blob.
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read file: %v", err)
	}
	return s.UploadBytes(data, key)
}

func (s *SeaweedFSStorage) UploadBytes(data []byte, key string) error {
	if _, err := s.client.Upload(bytes.NewReader(data), int64(len(data)), key, "default", ""); err != nil {
		return fmt.Errorf("failed to upload to SeaweedFS: %v", err)
	}
	return nil
}

func (s *SeaweedFSStorage) Download(key string) (io.ReadCloser, error) {
	data, _, err := s.client.Get(key, url.Values{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download file from SeaweedFS: %v", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *SeaweedFSStorage) Delete(key string) error {
	if err := s.client.Delete(key, url.Values{}); err != nil {
		return fmt.Errorf("failed to delete file from SeaweedFS: %v", err)
	}
	return nil
}

func (s *SeaweedFSStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}
