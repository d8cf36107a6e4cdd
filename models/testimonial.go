package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Testimonial is a customer review; only approved ones are public
type Testimonial struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	CustomerName string     `json:"customer_name" db:"customer_name" gorm:"type:text;not null"`
	Location     *string    `json:"location,omitempty" db:"location" gorm:"type:text"`
	Testimonial  string     `json:"testimonial" db:"testimonial" gorm:"type:text;not null"`
	Rating       *int       `json:"rating,omitempty" db:"rating" gorm:"type:integer"`
	Services     StringList `json:"services,omitempty" db:"services"`
	Approved     *bool      `json:"approved,omitempty" db:"approved" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}

func (t *Testimonial) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	if t.Approved == nil {
		approved := false
		t.Approved = &approved
	}
	return nil
}

type TestimonialUpdate struct {
	CustomerName *string     `json:"customer_name,omitempty"`
	Location     *string     `json:"location,omitempty"`
	Testimonial  *string     `json:"testimonial,omitempty"`
	Rating       *int        `json:"rating,omitempty"`
	Services     *StringList `json:"services,omitempty"`
	Approved     *bool       `json:"approved,omitempty"`
}

func (u TestimonialUpdate) Columns() map[string]any {
	cols := map[string]any{}
	setString(cols, "customer_name", u.CustomerName)
	setString(cols, "location", u.Location)
	setString(cols, "testimonial", u.Testimonial)
	if u.Rating != nil {
		cols["rating"] = *u.Rating
	}
	if u.Services != nil {
		cols["services"] = *u.Services
	}
	if u.Approved != nil {
		cols["approved"] = *u.Approved
	}
	return cols
}
