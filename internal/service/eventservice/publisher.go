package eventservice

import (
	"context"
	"time"

	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/google/uuid"
	"github.com/wagslane/go-rabbitmq"
)

type EventPublisher interface {
	PublishProduct(ctx context.Context, topic string, e ProductEvent) error
	PublishAttachment(ctx context.Context, topic string, e AttachmentEvent) error
	PublishOrders(ctx context.Context, e OrdersEvent) error
}

type MQPublisher struct {
	pub      *rabbitmq.Publisher
	exchange string
	log      *logger.Logger
}

func NewMQPublisher(pub *rabbitmq.Publisher, exchange string, log *logger.Logger) *MQPublisher {
	if exchange == "" {
		exchange = ExchangeName
	}
	return &MQPublisher{pub: pub, exchange: exchange, log: logger.OrNop(log).With("component", "events")}
}

func (p *MQPublisher) PublishProduct(ctx context.Context, topic string, e ProductEvent) error {
	stamp(&e.BaseEvent, topic)
	return p.publishJSON(ctx, topic, e, headersFor(e.BaseEvent))
}

func (p *MQPublisher) PublishAttachment(ctx context.Context, topic string, e AttachmentEvent) error {
	stamp(&e.BaseEvent, topic)
	return p.publishJSON(ctx, topic, e, headersFor(e.BaseEvent))
}

func (p *MQPublisher) PublishOrders(ctx context.Context, e OrdersEvent) error {
	stamp(&e.BaseEvent, TopicOrdersChanged)
	return p.publishJSON(ctx, TopicOrdersChanged, e, headersFor(e.BaseEvent))
}

// NoopPublisher se usa cuando no hay broker configurado.
type NoopPublisher struct{}

func (NoopPublisher) PublishProduct(context.Context, string, ProductEvent) error       { return nil }
func (NoopPublisher) PublishAttachment(context.Context, string, AttachmentEvent) error { return nil }
func (NoopPublisher) PublishOrders(context.Context, OrdersEvent) error                 { return nil }

func stamp(e *BaseEvent, eventType string) {
	if e.EventID == "" {
		e.EventID = uuid.New().String()
	}
	if e.EventType == "" {
		e.EventType = eventType
	}
	if e.Version == "" {
		e.Version = "1"
	}
	if e.Source == "" {
		e.Source = Source
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
}

func headersFor(e BaseEvent) rabbitmq.Table {
	return rabbitmq.Table{
		"type":          e.EventType,
		"version":       e.Version,
		"correlationId": e.CorrelationID,
	}
}
