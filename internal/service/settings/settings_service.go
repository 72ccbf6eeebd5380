package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/evolucion-dental/api-catalogo/internal/apperr"
	"github.com/evolucion-dental/api-catalogo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsService interface {
	List(ctx context.Context) (map[string]json.RawMessage, error)
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
}

type settingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) SettingsService {
	return &settingsService{db: db}
}

func (s *settingsService) List(ctx context.Context) (map[string]json.RawMessage, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Order("setting_key ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listando configuraciones: %w", err)
	}
	out := make(map[string]json.RawMessage, len(rows))
	for _, r := range rows {
		out[r.SettingKey] = json.RawMessage(r.SettingValue)
	}
	return out, nil
}

func (s *settingsService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var row models.Setting
	err := s.db.WithContext(ctx).Where("setting_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("configuración " + key)
	}
	if err != nil {
		return nil, fmt.Errorf("leyendo configuración %s: %w", key, err)
	}
	return json.RawMessage(row.SettingValue), nil
}

// Set hace upsert por setting_key. value debe ser JSON válido.
func (s *settingsService) Set(ctx context.Context, key string, value json.RawMessage) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return apperr.Invalid("la clave es obligatoria")
	}
	if len(value) == 0 || !json.Valid(value) {
		return apperr.Invalid("el valor de %s debe ser JSON válido", key)
	}

	row := models.Setting{SettingKey: key, SettingValue: string(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("guardando configuración %s: %w", key, err)
	}
	return nil
}

func (s *settingsService) Delete(ctx context.Context, key string) error {
	res := s.db.WithContext(ctx).Where("setting_key = ?", key).Delete(&models.Setting{})
	if res.Error != nil {
		return fmt.Errorf("eliminando configuración %s: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("configuración " + key)
	}
	return nil
}
