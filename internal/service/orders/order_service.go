package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evolucion-dental/api-catalogo/internal/apperr"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/evolucion-dental/api-catalogo/internal/models"
	"github.com/evolucion-dental/api-catalogo/internal/service/eventservice"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService interface {
	List(ctx context.Context) ([]models.Order, error)
	Active(ctx context.Context) ([]models.Order, error)
	Create(ctx context.Context, contenido string) (*models.Order, error)
	Update(ctx context.Context, id uuid.UUID, contenido string) (*models.Order, error)
	Toggle(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	db     *gorm.DB
	events eventservice.EventPublisher
	log    *logger.Logger
}

func NewOrderService(db *gorm.DB, events eventservice.EventPublisher, log *logger.Logger) OrderService {
	if events == nil {
		events = eventservice.NoopPublisher{}
	}
	return &orderService{db: db, events: events, log: logger.OrNop(log).With("component", "orders")}
}

func (s *orderService) List(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listando órdenes: %w", err)
	}
	return out, nil
}

func (s *orderService) Active(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := s.db.WithContext(ctx).
		Where("activa = ?", true).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listando órdenes activas: %w", err)
	}
	return out, nil
}

func (s *orderService) Create(ctx context.Context, contenido string) (*models.Order, error) {
	contenido = strings.TrimSpace(contenido)
	if contenido == "" {
		return nil, apperr.Invalid("el contenido de la orden es obligatorio")
	}
	o := models.Order{Contenido: contenido, Activa: true}
	if err := s.db.WithContext(ctx).Create(&o).Error; err != nil {
		return nil, fmt.Errorf("creando orden: %w", err)
	}
	s.notify(ctx, o.ID, "created")
	return &o, nil
}

func (s *orderService) Update(ctx context.Context, id uuid.UUID, contenido string) (*models.Order, error) {
	contenido = strings.TrimSpace(contenido)
	if contenido == "" {
		return nil, apperr.Invalid("el contenido de la orden es obligatorio")
	}
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Contenido = contenido
	if err := s.db.WithContext(ctx).Model(o).Update("contenido", o.Contenido).Error; err != nil {
		return nil, fmt.Errorf("actualizando orden: %w", err)
	}
	s.notify(ctx, o.ID, "updated")
	return o, nil
}

func (s *orderService) Toggle(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Activa = !o.Activa
	if err := s.db.WithContext(ctx).Model(o).Update("activa", o.Activa).Error; err != nil {
		return nil, fmt.Errorf("cambiando estado de la orden: %w", err)
	}
	s.notify(ctx, o.ID, "toggled")
	return o, nil
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("eliminando orden: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("orden")
	}
	s.notify(ctx, id, "deleted")
	return nil
}

func (s *orderService) get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("orden")
	}
	if err != nil {
		return nil, fmt.Errorf("leyendo orden: %w", err)
	}
	return &o, nil
}

func (s *orderService) notify(ctx context.Context, id uuid.UUID, action string) {
	var active int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("activa = ?", true).Count(&active).Error; err != nil {
		s.log.Warn("no se pudo contar órdenes activas", "error", err)
	}
	err := s.events.PublishOrders(ctx, eventservice.OrdersEvent{
		OrderID:      id,
		Action:       action,
		ActiveOrders: int(active),
	})
	if err != nil {
		s.log.Warn("no se pudo publicar evento de órdenes", "order", id, "error", err)
	}
}
