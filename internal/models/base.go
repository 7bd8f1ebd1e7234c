package models

import (
	"time"

	"welth/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// All returns every persisted model in foreign-key order. Used by tests to
// build a schema with AutoMigrate; production schemas come from migrations/.
func All() []any {
	return []any{
		&User{},
		&Account{},
		&Transaction{},
		&Budget{},
		&AuditLog{},
	}
}
