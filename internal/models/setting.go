package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const SettingAgentActive = "agente_activo"

// Setting guarda valores JSON serializados por clave.
type Setting struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"-"`
	SettingKey   string    `gorm:"column:setting_key;type:varchar(100);uniqueIndex;not null" json:"setting_key"`
	SettingValue string    `gorm:"column:setting_value;type:text;not null" json:"setting_value"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string { return "agent_settings" }

func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// All lista los modelos persistidos; los tests los usan con AutoMigrate.
func All() []interface{} {
	return []interface{}{&Product{}, &Attachment{}, &Order{}, &Setting{}}
}
