package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/evolucion-dental/api-catalogo/internal/apperr"
	"github.com/evolucion-dental/api-catalogo/internal/dto"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError traduce los errores de servicio a status HTTP. Los 500 no exponen el detalle.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "error interno"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		badRequest(w, "JSON inválido")
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "UUID inválido")
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(r *http.Request) (page, size int) {
	q := r.URL.Query()

	// PAGE
	pageStr := q.Get("page")
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	} else {
		page = 1
	}

	// SIZE
	sizeStr := q.Get("size")
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
		size = s
	} else {
		size = 10
	}

	return
}
