package config_lib

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client crea el cliente S3. Con endpoint propio (p.ej. el gateway S3 de Supabase Storage) se usa
// path-style y, si vienen, credenciales estáticas; sin endpoint se usa la cadena de credenciales de AWS.
func NewS3Client(ctx context.Context, endpoint, region, bucket, accessKey, secretKey, publicBase string) (*s3.Client, *manager.Uploader, string, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, nil, "", fmt.Errorf("no se pudo cargar config AWS: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	uploader := manager.NewUploader(s3Client)

	return s3Client, uploader, PublicBase(endpoint, region, bucket, publicBase), nil
}

// PublicBase devuelve la URL pública bajo la cual se sirven los objetos del bucket, sin barra final.
func PublicBase(endpoint, region, bucket, explicit string) string {
	if explicit != "" {
		return strings.TrimRight(explicit, "/")
	}
	endpoint = strings.TrimRight(endpoint, "/")
	switch {
	case strings.HasSuffix(endpoint, "/storage/v1/s3"):
		return strings.TrimSuffix(endpoint, "/s3") + "/object/public/" + bucket
	case endpoint != "":
		return endpoint + "/" + bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
}
