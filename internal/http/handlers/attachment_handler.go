package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/evolucion-dental/api-catalogo/internal/dto"
	"github.com/evolucion-dental/api-catalogo/internal/service/catalog"
	"github.com/google/uuid"
)

const uploadTimeout = 3 * time.Minute

type AttachmentHandler struct {
	Service catalog.AttachmentService
	// MaxUploadBytes limita el cuerpo multipart; 0 usa el máximo del servicio.
	MaxUploadBytes int64
}

func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = catalog.DefaultMaxUploadBytes
	}
	// margen para los encabezados multipart; el tamaño real del archivo lo valida el servicio
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		badRequest(w, "Error al procesar el formulario: el archivo supera el máximo permitido o está mal formado")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "El campo 'file' es obligatorio")
		return
	}
	defer file.Close()

	in := dto.AttachmentUpload{
		File:        file,
		FileName:    fileHeader.Filename,
		FileSize:    fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	if raw := strings.TrimSpace(r.FormValue("product_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "product_id inválido")
			return
		}
		in.ProductID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), uploadTimeout)
	defer cancel()

	a, err := h.Service.Upload(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)
	q := r.URL.Query()
	f := dto.AttachmentFilter{Query: q.Get("q"), Page: page, Size: size}
	if raw := q.Get("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "product_id inválido")
			return
		}
		f.ProductID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	attachments, err := h.Service.List(ctx, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attachments)
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.Service.Delete(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
