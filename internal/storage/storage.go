package storage

import (
	"fmt"
	"io"

	"lms-resource-center/internal/config"
)

// Provider identifies a storage backend.
type Provider string

const (
	Local     Provider = "local"
	S3        Provider = "s3"
	SeaweedFS Provider = "seaweedfs"
)

// Storage abstracts blob storage for resource files. Keys are opaque ids
// assigned by the caller (resource id plus extension).
type Storage interface {
	Upload(reader io.Reader, key string) error
	UploadBytes(data []byte, key string) error
	Download(key string) (io.ReadCloser, error)
	Delete(key string) error
	PublicURL(key string) string
}

// New creates the storage backend selected by configuration.
func New(cfg *config.Config) (Storage, error) {
	switch Provider(cfg.Storage.Provider) {
	case Local:
		return NewLocalStorage(cfg.Storage.Path)
	case S3:
		return NewS3Storage(cfg.Storage.S3)
	case SeaweedFS:
		return NewSeaweedFSStorage(cfg.Storage.SeaweedFS, cfg.Server.Port)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}
