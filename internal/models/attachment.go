package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentType string

const (
	AttachmentPDF   AttachmentType = "pdf"
	AttachmentImage AttachmentType = "imagen"
)

// Attachment es un archivo del bucket de catálogos. ProductoID es nil para subidas de galería sin producto.
type Attachment struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductoID    *uuid.UUID     `gorm:"column:producto_id;type:uuid" json:"producto_id"`
	NombreArchivo string         `gorm:"column:nombre_archivo;type:varchar(255);not null" json:"nombre_archivo"`
	URL           string         `gorm:"column:url;type:text;not null" json:"url"`
	Tipo          AttachmentType `gorm:"column:tipo;type:varchar(20);not null" json:"tipo"`
	TextoExtraido *string        `gorm:"column:texto_extraido;type:text" json:"texto_extraido,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Attachment) TableName() string { return "catalogos_archivos" }

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
