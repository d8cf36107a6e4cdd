package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceArea is a city (optionally narrowed to a ZIP) the contractor covers
type ServiceArea struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	City      string    `json:"city" db:"city" gorm:"type:text;not null;index"`
	County    *string   `json:"county,omitempty" db:"county" gorm:"type:text"`
	State     string    `json:"state" db:"state" gorm:"type:text;not null;index"`
	Zip       *string   `json:"zip,omitempty" db:"zip" gorm:"type:text;index"`
	Available *bool     `json:"available,omitempty" db:"available" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`
}

func (ServiceArea) TableName() string {
	return "service_areas"
}

func (s *ServiceArea) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	if s.Available == nil {
		available := true
		s.Available = &available
	}
	return nil
}

type ServiceAreaUpdate struct {
	City      *string `json:"city,omitempty"`
	County    *string `json:"county,omitempty"`
	State     *string `json:"state,omitempty"`
	Zip       *string `json:"zip,omitempty"`
	Available *bool   `json:"available,omitempty"`
}

func (u ServiceAreaUpdate) Columns() map[string]any {
	cols := map[string]any{}
	setString(cols, "city", u.City)
	setString(cols, "county", u.County)
	setString(cols, "state", u.State)
	setString(cols, "zip", u.Zip)
	if u.Available != nil {
		cols["available"] = *u.Available
	}
	return cols
}
