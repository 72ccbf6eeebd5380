package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
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

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ProductService interface {
	List(ctx context.Context, f dto.ProductFilter) (*dto.Page[models.Product], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, in dto.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, in dto.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Catalog devuelve todos los productos con sus archivos publicados.
	Catalog(ctx context.Context) ([]models.Product, error)
}

type productService struct {
	db     *gorm.DB
	store  storage.ObjectStore
	events eventservice.EventPublisher
	log    *logger.Logger
}

func NewProductService(db *gorm.DB, store storage.ObjectStore, events eventservice.EventPublisher, log *logger.Logger) ProductService {
	if events == nil {
		events = eventservice.NoopPublisher{}
	}
	return &productService{db: db, store: store, events: events, log: logger.OrNop(log).With("component", "products")}
}

func (s *productService) List(ctx context.Context, f dto.ProductFilter) (*dto.Page[models.Product], error) {
	page, size := normalizePage(f.Page, f.Size)

	q := s.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		c, ok := models.ParseCategory(f.Category)
		if !ok {
			return nil, apperr.Invalid("categoría inválida: %s", f.Category)
		}
		q = q.Where("categoria = ?", c)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		q = q.Where("LOWER(nombre) LIKE ?", likePattern(term))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("contando productos: %w", err)
	}

	var rows []models.Product
	err := q.Order("nombre ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listando productos: %w", err)
	}

	out := dto.NewPage(rows, total, page, size)
	return &out, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Preload("Archivos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("producto")
	}
	if err != nil {
		return nil, fmt.Errorf("leyendo producto: %w", err)
	}
	return &p, nil
}

func (s *productService) Create(ctx context.Context, in dto.ProductInput) (*models.Product, error) {
	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("creando producto: %w", err)
	}
	s.notify(ctx, eventservice.TopicProductSaved, p)
	return p, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, in dto.ProductInput) (*models.Product, error) {
	next, err := productFromInput(in)
	if err != nil {
		return nil, err
	}

	var current models.Product
	err = s.db.WithContext(ctx).First(&current, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("producto")
	}
	if err != nil {
		return nil, fmt.Errorf("leyendo producto: %w", err)
	}

	current.Nombre = next.Nombre
	current.Categoria = next.Categoria
	current.Precio = next.Precio
	current.Stock = next.Stock
	current.DescripcionTecnica = next.DescripcionTecnica

	err = s.db.WithContext(ctx).Model(&current).
		Select("nombre", "categoria", "precio", "stock", "descripcion_tecnica").
		Updates(&current).Error
	if err != nil {
		return nil, fmt.Errorf("actualizando producto: %w", err)
	}
	s.notify(ctx, eventservice.TopicProductSaved, &current)
	return &current, nil
}

// Delete borra en secuencia objetos, filas de archivos y el producto. No hay rollback: un objeto que no se
// pudo eliminar queda registrado en el log y el borrado continúa.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("producto")
	}
	if err != nil {
		return fmt.Errorf("leyendo producto: %w", err)
	}

	var files []models.Attachment
	if err := s.db.WithContext(ctx).Where("producto_id = ?", id).Find(&files).Error; err != nil {
		return fmt.Errorf("listando archivos del producto: %w", err)
	}

	for _, f := range files {
		key, ok := s.store.ObjectPath(f.URL)
		if !ok {
			s.log.Warn("url de archivo fuera del bucket, no se elimina el objeto", "attachment", f.ID, "url", f.URL)
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			s.log.Warn("no se pudo eliminar el objeto del producto", "product", id, "key", key, "error", err)
		}
	}

	if err := s.db.WithContext(ctx).Where("producto_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
		return fmt.Errorf("eliminando archivos del producto: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("eliminando producto: %w", err)
	}

	s.notify(ctx, eventservice.TopicProductDeleted, &p)
	return nil
}

func (s *productService) Catalog(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := s.db.WithContext(ctx).
		Preload("Archivos", func(db *gorm.DB) *gorm.DB {
			return db.Where("url IS NOT NULL AND url <> ''").Order("created_at ASC")
		}).
		Order("nombre ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("leyendo catálogo: %w", err)
	}
	return out, nil
}

func (s *productService) notify(ctx context.Context, topic string, p *models.Product) {
	err := s.events.PublishProduct(ctx, topic, eventservice.ProductEvent{
		ProductID: p.ID,
		Nombre:    p.Nombre,
		Categoria: string(p.Categoria),
	})
	if err != nil {
		s.log.Warn("no se pudo publicar evento de producto", "topic", topic, "product", p.ID, "error", err)
	}
}

func productFromInput(in dto.ProductInput) (*models.Product, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, apperr.Invalid("el nombre del producto es obligatorio")
	}
	cat, ok := models.ParseCategory(in.Categoria)
	if !ok {
		return nil, apperr.Invalid("categoría inválida: %q (sillon, escaner o equipamiento)", in.Categoria)
	}
	if in.Precio != nil && (math.IsNaN(*in.Precio) || math.IsInf(*in.Precio, 0) || *in.Precio < 0) {
		return nil, apperr.Invalid("el precio no puede ser negativo")
	}
	if in.Stock < 0 {
		return nil, apperr.Invalid("el stock no puede ser negativo")
	}
	return &models.Product{
		Nombre:             nombre,
		Categoria:          cat,
		Precio:             in.Precio,
		Stock:              in.Stock,
		DescripcionTecnica: strings.TrimSpace(in.DescripcionTecnica),
	}, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func likePattern(term string) string {
	r := strings.NewReplacer("%", "", "_", "")
	return "%" + strings.ToLower(r.Replace(term)) + "%"
}
