package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryChair     Category = "sillon"
	CategoryScanner   Category = "escaner"
	CategoryEquipment Category = "equipamiento"
)

var categoryAliases = map[string]Category{
	"sillon":       CategoryChair,
	"sillón":       CategoryChair,
	"chair":        CategoryChair,
	"escaner":      CategoryScanner,
	"escáner":      CategoryScanner,
	"scanner":      CategoryScanner,
	"equipamiento": CategoryEquipment,
	"equipment":    CategoryEquipment,
}

// ParseCategory normaliza el valor recibido (español o inglés) al valor persistido.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

type Product struct {
	ID                 uuid.UUID    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Nombre             string       `gorm:"column:nombre;type:varchar(255);not null" json:"nombre"`
	Categoria          Category     `gorm:"column:categoria;type:varchar(50);not null" json:"categoria"`
	Precio             *float64     `gorm:"column:precio" json:"precio"`
	Stock              int          `gorm:"column:stock;not null" json:"stock"`
	DescripcionTecnica string       `gorm:"column:descripcion_tecnica;type:text" json:"descripcion_tecnica"`
	CreatedAt          time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Archivos           []Attachment `gorm:"foreignKey:ProductoID" json:"archivos,omitempty"`
}

func (Product) TableName() string {
	return "productos"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
