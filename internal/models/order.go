package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order es una orden operativa diaria; sólo las activas entran al prompt del agente.
type Order struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Contenido string    `gorm:"column:contenido;type:text;not null" json:"contenido"`
	Activa    bool      `gorm:"column:activa;not null" json:"activa"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "ordenes_diarias" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
