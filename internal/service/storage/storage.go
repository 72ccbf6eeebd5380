package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/evolucion-dental/api-catalogo/internal/config"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const GeneralPrefix = "general"

// ObjectStore es el bucket de catálogos visto desde los servicios.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	// ObjectPath deriva la clave del objeto a partir de su URL pública.
	ObjectPath(publicURL string) (string, bool)
}

type S3Store struct {
	client     *s3.Client
	uploader   *manager.Uploader
	bucket     string
	publicBase string
	log        *logger.Logger
}

func NewS3Store(up *config.UploadService, log *logger.Logger) *S3Store {
	return &S3Store{
		client:     up.S3Client,
		uploader:   up.Uploader,
		bucket:     up.Bucket,
		publicBase: strings.TrimRight(up.PublicBase, "/"),
		log:        logger.OrNop(log).With("component", "storage", "bucket", up.Bucket),
	}
}

func (s *S3Store) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logAPIError(s.log, "error subiendo objeto", key, err)
		return "", errors.Wrapf(err, "subiendo %s", key)
	}
	return s.publicBase + "/" + key, nil
}

func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logAPIError(s.log, "error eliminando objeto", key, err)
		return errors.Wrapf(err, "eliminando %s", key)
	}
	return nil
}

func (s *S3Store) ObjectPath(publicURL string) (string, bool) {
	return ObjectPathFromURL(publicURL, s.bucket)
}

func logAPIError(log *logger.Logger, msg, key string, err error) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		log.Warn(msg, "key", key, "code", apiErr.ErrorCode(), "detail", apiErr.ErrorMessage())
		return
	}
	log.Warn(msg, "key", key, "error", err)
}

// ObjectPathFromURL decodifica la URL y devuelve lo que sigue a "/<bucket>/", sin query string.
func ObjectPathFromURL(publicURL, bucket string) (string, bool) {
	decoded, err := url.PathUnescape(publicURL)
	if err != nil {
		decoded = publicURL
	}
	if i := strings.IndexAny(decoded, "?#"); i >= 0 {
		decoded = decoded[:i]
	}
	marker := "/" + bucket + "/"
	i := strings.Index(decoded, marker)
	if i < 0 {
		return "", false
	}
	key := decoded[i+len(marker):]
	if key == "" {
		return "", false
	}
	return key, true
}

// BuildObjectKey arma "<prefix>/<base>-<uuid><ext>".
func BuildObjectKey(filename, prefix string) string {
	filename = SanitizeFilename(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if base == "" {
		base = "file"
	}
	key := fmt.Sprintf("%s-%s%s", base, uuid.New().String(), ext)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

// SanitizeFilename deja sólo caracteres ASCII seguros para claves de Storage.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "file"
	}
	return out
}

// DetectContentType prefiere el tipo declarado salvo que sea genérico.
func DetectContentType(head []byte, declared string) string {
	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	if declared != "" && declared != "application/octet-stream" {
		return strings.ToLower(declared)
	}
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	return strings.Split(ct, ";")[0]
}

// ReadAllLimit lee hasta max bytes y falla si el cuerpo es más grande.
func ReadAllLimit(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, errors.Wrap(err, "leyendo archivo")
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}

var ErrTooLarge = errors.New("archivo demasiado grande")
