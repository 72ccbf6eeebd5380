package eventservice

import (
	"time"

	"github.com/google/uuid"
)

type BaseEvent struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	OccurredAt    time.Time         `json:"occurred_at"`
	Version       string            `json:"version"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Source        string            `json:"source,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
}

// ---- Catálogo ----
type ProductEvent struct {
	BaseEvent
	ProductID uuid.UUID `json:"product_id"`
	Nombre    string    `json:"nombre,omitempty"`
	Categoria string    `json:"categoria,omitempty"`
}

type AttachmentEvent struct {
	BaseEvent
	AttachmentID uuid.UUID  `json:"attachment_id"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	URL          string     `json:"url"`
	Tipo         string     `json:"tipo"`
}

// ---- Agente ----
type OrdersEvent struct {
	BaseEvent
	OrderID      uuid.UUID `json:"order_id"`
	Action       string    `json:"action"`
	ActiveOrders int       `json:"active_orders"`
}
