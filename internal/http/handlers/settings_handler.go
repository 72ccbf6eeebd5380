package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/evolucion-dental/api-catalogo/internal/dto"
	"github.com/evolucion-dental/api-catalogo/internal/service/settings"
	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	Service settings.SettingsService
	Status  *settings.Status
}

func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	all, err := h.Service.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	value, err := h.Service.Get(ctx, key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SettingDto{Key: key, Value: value})
}

func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var in dto.SettingInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Service.Set(ctx, key, in.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SettingDto{Key: key, Value: in.Value})
}

func (h *SettingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Service.Delete(ctx, chi.URLParam(r, "key")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) AgentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, dto.AgentStatusDto{Enabled: h.Status.Enabled(ctx)})
}

func (h *SettingsHandler) SetAgentStatus(w http.ResponseWriter, r *http.Request) {
	var in dto.AgentStatusDto
	if !decodeJSON(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Status.SetEnabled(ctx, in.Enabled); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}
