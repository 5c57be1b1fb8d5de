package filestorage

import (
	"context"
	"fmt"

	"github.com/imsoft/cursumi/internal/modules/filestorage/domain"
	"github.com/imsoft/cursumi/internal/modules/filestorage/infrastructure/s3"
	"github.com/imsoft/cursumi/internal/shared/infrastructure/config"
)

// Module represents the FileStorage module
type Module struct {
	storage domain.ObjectStorage
}

// NewModule creates and initializes the FileStorage module
func NewModule(ctx context.Context, cfg config.StorageConfig) (*Module, error) {
	storage, err := s3.NewS3Storage(ctx, s3.S3Config{
		BucketName:     cfg.BucketName,
		Region:         cfg.Region,
		Endpoint:       cfg.Endpoint,
		PublicEndpoint: cfg.PublicEndpoint,
		AccessKey:      cfg.AccessKey,
		SecretKey:      cfg.SecretKey,
		UseSSL:         cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	return &Module{storage: storage}, nil
}

// Storage returns the object storage used by the download module
func (m *Module) Storage() domain.ObjectStorage {
	return m.storage
}
