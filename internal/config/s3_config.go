package config

import (
	"context"
	"fmt"

	"github.com/evolucion-dental/api-catalogo/internal/config_lib"
)

func S3ConfigService(ctx context.Context, cfg S3Config) (*UploadService, error) {
	if cfg.Region == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("faltan variables de entorno: S3_REGION y/o S3_BUCKET")
	}

	s3Client, uploader, publicBase, err := config_lib.NewS3Client(
		ctx, cfg.Endpoint, cfg.Region, cfg.Bucket, cfg.AccessKey, cfg.SecretKey, cfg.PublicBase,
	)
	if err != nil {
		return nil, fmt.Errorf("error creando cliente S3: %w", err)
	}

	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = DefaultMaxUploadMB
	}

	return &UploadService{
		S3Client:    s3Client,
		Uploader:    uploader,
		Bucket:      cfg.Bucket,
		PublicBase:  publicBase,
		MaxUploadMB: maxMB,
	}, nil
}
