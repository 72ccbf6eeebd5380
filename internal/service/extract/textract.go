package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/aws/smithy-go"
	"github.com/evolucion-dental/api-catalogo/internal/config"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/evolucion-dental/api-catalogo/internal/service/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type textractAPI interface {
	StartDocumentTextDetection(ctx context.Context, in *textract.StartDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.StartDocumentTextDetectionOutput, error)
	GetDocumentTextDetection(ctx context.Context, in *textract.GetDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.GetDocumentTextDetectionOutput, error)
}

type stager interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// TextractOCR sube el PDF a un bucket de AWS, corre la detección de texto asíncrona y espera el resultado.
type TextractOCR struct {
	client   textractAPI
	staging  stager
	bucket   string
	maxPages int
	interval time.Duration
	maxWait  time.Duration
	log      *logger.Logger
}

func NewTextractOCR(ctx context.Context, cfg config.ExtractConfig, log *logger.Logger) (*TextractOCR, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.TextractRegion))
	if err != nil {
		return nil, fmt.Errorf("no se pudo cargar config AWS: %w", err)
	}
	s3Client := s3.NewFromConfig(awsCfg)
	staging := storage.NewS3Store(&config.UploadService{
		S3Client: s3Client,
		Uploader: manager.NewUploader(s3Client),
		Bucket:   cfg.TextractBucket,
	}, log)

	return &TextractOCR{
		client:   textract.NewFromConfig(awsCfg),
		staging:  staging,
		bucket:   cfg.TextractBucket,
		maxPages: cfg.MaxPages,
		interval: 2 * time.Second,
		maxWait:  2 * time.Minute,
		log:      logger.OrNop(log).With("component", "textract"),
	}, nil
}

func (s *TextractOCR) DetectText(ctx context.Context, data []byte, filename string) (string, error) {
	key := "textract/" + uuid.New().String() + ".pdf"
	if _, err := s.staging.Upload(ctx, key, data, "application/pdf"); err != nil {
		return "", err
	}
	defer func() {
		if err := s.staging.Remove(context.WithoutCancel(ctx), key); err != nil {
			s.log.Warn("no se pudo limpiar objeto temporal", "key", key, "error", err)
		}
	}()

	resp, err := s.client.StartDocumentTextDetection(ctx, &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: &types.S3Object{
				Bucket: aws.String(s.bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			s.log.Error("textract rechazó el documento", "file", filename, "code", apiErr.ErrorCode())
		}
		return "", errors.Wrap(err, "iniciando detección de texto")
	}
	jobID := aws.ToString(resp.JobId)
	s.log.Debug("job de textract iniciado", "job", jobID, "file", filename)

	ctx, cancel := context.WithTimeout(ctx, s.maxWait)
	defer cancel()

	for {
		result, err := s.client.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
			JobId: aws.String(jobID),
		})
		if err != nil {
			return "", errors.Wrap(err, "obteniendo resultado")
		}

		switch result.JobStatus {
		case types.JobStatusSucceeded, types.JobStatusPartialSuccess:
			blocks := append([]types.Block(nil), result.Blocks...)
			for next := result.NextToken; next != nil; {
				page, err := s.client.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
					JobId:     aws.String(jobID),
					NextToken: next,
				})
				if err != nil {
					return "", errors.Wrap(err, "error en paginación")
				}
				blocks = append(blocks, page.Blocks...)
				next = page.NextToken
			}
			return linesText(blocks, s.maxPages), nil
		case types.JobStatusFailed:
			return "", fmt.Errorf("la detección de texto falló: %s", aws.ToString(result.StatusMessage))
		}

		select {
		case <-ctx.Done():
			return "", errors.Wrap(ctx.Err(), "esperando a textract")
		case <-time.After(s.interval):
		}
	}
}

// linesText junta los bloques LINE de las primeras maxPages páginas, una línea por página.
func linesText(blocks []types.Block, maxPages int) string {
	byPage := make(map[int][]string)
	for _, b := range blocks {
		if b.BlockType != types.BlockTypeLine || b.Text == nil {
			continue
		}
		page := 1
		if b.Page != nil {
			page = int(*b.Page)
		}
		if maxPages > 0 && page > maxPages {
			continue
		}
		byPage[page] = append(byPage[page], *b.Text)
	}

	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, collapseWhitespace(strings.Join(byPage[p], " ")))
	}
	return strings.Join(out, "\n")
}
