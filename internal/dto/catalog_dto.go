package dto

import (
	"io"

	"github.com/google/uuid"
)

type ProductInput struct {
	Nombre             string   `json:"nombre"`
	Categoria          string   `json:"categoria"`
	Precio             *float64 `json:"precio"`
	Stock              int      `json:"stock"`
	DescripcionTecnica string   `json:"descripcion_tecnica"`
}

type ProductFilter struct {
	Category string
	Query    string
	Page     int
	Size     int
}

type AttachmentUpload struct {
	File        io.Reader
	FileName    string
	FileSize    int64
	ContentType string
	ProductID   *uuid.UUID
}

type AttachmentFilter struct {
	ProductID *uuid.UUID
	Query     string
	Page      int
	Size      int
}
