package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evolucion-dental/api-catalogo/internal/apperr"
	"github.com/evolucion-dental/api-catalogo/internal/dto"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/evolucion-dental/api-catalogo/internal/models"
	"github.com/evolucion-dental/api-catalogo/internal/service/eventservice"
	"github.com/evolucion-dental/api-catalogo/internal/service/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultMaxUploadBytes = 25 << 20

// TextExtractor obtiene el texto de un PDF (acotado a las primeras páginas).
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

type AttachmentService interface {
	Upload(ctx context.Context, in dto.AttachmentUpload) (*models.Attachment, error)
	List(ctx context.Context, f dto.AttachmentFilter) (*dto.Page[models.Attachment], error)
	Delete(ctx context.Context, id uuid.UUID) error
	// URLs devuelve las URLs publicadas; el formateador las usa para validar links.
	URLs(ctx context.Context) ([]string, error)
}

type attachmentService struct {
	db        *gorm.DB
	store     storage.ObjectStore
	extractor TextExtractor
	events    eventservice.EventPublisher
	maxBytes  int64
	log       *logger.Logger
}

func NewAttachmentService(db *gorm.DB, store storage.ObjectStore, extractor TextExtractor, events eventservice.EventPublisher, maxBytes int64, log *logger.Logger) AttachmentService {
	if events == nil {
		events = eventservice.NoopPublisher{}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &attachmentService{
		db:        db,
		store:     store,
		extractor: extractor,
		events:    events,
		maxBytes:  maxBytes,
		log:       logger.OrNop(log).With("component", "attachments"),
	}
}

func (s *attachmentService) Upload(ctx context.Context, in dto.AttachmentUpload) (*models.Attachment, error) {
	if in.File == nil {
		return nil, apperr.Invalid("el archivo es obligatorio")
	}
	if in.FileSize > s.maxBytes {
		return nil, apperr.Invalid("el archivo supera el máximo de %d MB", s.maxBytes>>20)
	}

	prefix := storage.GeneralPrefix
	if in.ProductID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", *in.ProductID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("verificando producto: %w", err)
		}
		if count == 0 {
			return nil, apperr.NotFound("producto")
		}
		prefix = in.ProductID.String()
	}

	data, err := storage.ReadAllLimit(in.File, s.maxBytes)
	if errors.Is(err, storage.ErrTooLarge) {
		return nil, apperr.Invalid("el archivo supera el máximo de %d MB", s.maxBytes>>20)
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperr.Invalid("el archivo está vacío")
	}

	contentType := storage.DetectContentType(data, in.ContentType)
	tipo, ok := attachmentType(contentType)
	if !ok {
		return nil, apperr.Invalid("tipo de archivo no permitido: %s (sólo PDF o imágenes)", contentType)
	}

	name := strings.TrimSpace(in.FileName)
	if name == "" {
		name = "archivo"
	}
	key := storage.BuildObjectKey(name, prefix)

	publicURL, err := s.store.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("subiendo archivo: %w", err)
	}

	a := &models.Attachment{
		ProductoID:    in.ProductID,
		NombreArchivo: name,
		URL:           publicURL,
		Tipo:          tipo,
	}

	if tipo == models.AttachmentPDF && s.extractor != nil {
		text, err := s.extractor.Extract(ctx, data, name)
		if err != nil {
			s.log.Warn("no se pudo extraer texto del PDF", "file", name, "error", err)
		} else if text != "" {
			a.TextoExtraido = &text
		}
	}

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		if rmErr := s.store.Remove(ctx, key); rmErr != nil {
			s.log.Warn("objeto huérfano tras fallar el registro", "key", key, "error", rmErr)
		}
		return nil, fmt.Errorf("registrando archivo: %w", err)
	}

	s.notify(ctx, eventservice.TopicAttachmentSaved, a)
	return a, nil
}

func (s *attachmentService) List(ctx context.Context, f dto.AttachmentFilter) (*dto.Page[models.Attachment], error) {
	page, size := normalizePage(f.Page, f.Size)

	q := s.db.WithContext(ctx).Model(&models.Attachment{})
	if f.ProductID != nil {
		q = q.Where("producto_id = ?", *f.ProductID)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		q = q.Where("LOWER(nombre_archivo) LIKE ?", likePattern(term))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("contando archivos: %w", err)
	}

	var rows []models.Attachment
	err := q.Select("id", "producto_id", "nombre_archivo", "url", "tipo", "created_at").
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listando archivos: %w", err)
	}

	out := dto.NewPage(rows, total, page, size)
	return &out, nil
}

// Delete quita el objeto del bucket y después la fila. Si el bucket falla la fila se borra igual,
// así el agente deja de ofrecer el archivo.
func (s *attachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	var a models.Attachment
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("archivo")
	}
	if err != nil {
		return fmt.Errorf("leyendo archivo: %w", err)
	}

	if key, ok := s.store.ObjectPath(a.URL); ok {
		if err := s.store.Remove(ctx, key); err != nil {
			s.log.Warn("no se pudo eliminar el objeto, se borra el registro igual", "key", key, "error", err)
		}
	} else {
		s.log.Warn("url fuera del bucket, sólo se borra el registro", "attachment", id, "url", a.URL)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Attachment{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("eliminando archivo: %w", err)
	}
	s.notify(ctx, eventservice.TopicAttachmentDeleted, &a)
	return nil
}

func (s *attachmentService) URLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := s.db.WithContext(ctx).Model(&models.Attachment{}).
		Where("url IS NOT NULL AND url <> ''").
		Pluck("url", &urls).Error
	if err != nil {
		return nil, fmt.Errorf("leyendo urls de archivos: %w", err)
	}
	return urls, nil
}

func (s *attachmentService) notify(ctx context.Context, topic string, a *models.Attachment) {
	err := s.events.PublishAttachment(ctx, topic, eventservice.AttachmentEvent{
		AttachmentID: a.ID,
		ProductID:    a.ProductoID,
		URL:          a.URL,
		Tipo:         string(a.Tipo),
	})
	if err != nil {
		s.log.Warn("no se pudo publicar evento de archivo", "topic", topic, "attachment", a.ID, "error", err)
	}
}

func attachmentType(contentType string) (models.AttachmentType, bool) {
	switch {
	case contentType == "application/pdf":
		return models.AttachmentPDF, true
	case strings.HasPrefix(contentType, "image/"):
		return models.AttachmentImage, true
	default:
		return "", false
	}
}
