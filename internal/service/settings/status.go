package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/evolucion-dental/api-catalogo/internal/apperr"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/evolucion-dental/api-catalogo/internal/models"
)

// Status es el interruptor global del agente, compartido por el armado del prompt y la API.
// Sin valor guardado (o ilegible) el agente se considera activo.
type Status struct {
	settings SettingsService
	log      *logger.Logger
}

func NewStatus(settings SettingsService, log *logger.Logger) *Status {
	return &Status{settings: settings, log: logger.OrNop(log)}
}

func (s *Status) Enabled(ctx context.Context) bool {
	raw, err := s.settings.Get(ctx, models.SettingAgentActive)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("no se pudo leer el estado del agente, se asume activo", "error", err)
		}
		return true
	}
	enabled, ok := parseBool(raw)
	if !ok {
		s.log.Warn("valor inválido para agente_activo, se asume activo", "value", string(raw))
		return true
	}
	return enabled
}

func (s *Status) SetEnabled(ctx context.Context, enabled bool) error {
	return s.settings.Set(ctx, models.SettingAgentActive, json.RawMessage(strconv.FormatBool(enabled)))
}

// parseBool acepta un booleano JSON o su versión como string ("true").
func parseBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if v, err := strconv.ParseBool(strings.TrimSpace(str)); err == nil {
			return v, true
		}
	}
	return false, false
}
