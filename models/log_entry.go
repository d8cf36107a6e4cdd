package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LogEntry is one client-side log line shipped to /api/logs
type LogEntry struct {
	ID        uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Level     string         `json:"level" db:"level" gorm:"type:text;not null"`
	Message   string         `json:"message" db:"message" gorm:"type:text;not null"`
	Details   datatypes.JSON `json:"details,omitempty" db:"details"`
	Source    *string        `json:"source,omitempty" db:"source" gorm:"type:text"`
	URL       *string        `json:"url,omitempty" db:"url" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`
}

func (LogEntry) TableName() string {
	return "logs"
}

func (e *LogEntry) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}
