package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/evolucion-dental/api-catalogo/internal/dto"
	"github.com/evolucion-dental/api-catalogo/internal/service/chat"
)

type ChatHandler struct {
	Service chat.ChatService
}

func (h *ChatHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var in dto.ChatRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	reply, err := h.Service.Reply(r.Context(), in.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ChatResponse{Reply: reply})
}

func (h *ChatHandler) Intent(w http.ResponseWriter, r *http.Request) {
	var in dto.ChatRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	intent, err := h.Service.Intent(r.Context(), in.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.IntentResponse{Intent: intent})
}

func (h *ChatHandler) Prompt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Service.Preview(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
