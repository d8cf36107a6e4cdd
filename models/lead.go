package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQuoted    = "quoted"
	LeadStatusWon       = "won"
	LeadStatusLost      = "lost"
)

// ValidLeadStatus reports whether status is one of the LeadStatus values.
func ValidLeadStatus(status string) bool {
	switch status {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQuoted, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

// Lead is a prospective customer captured by the free estimate form
type Lead struct {
	ID        uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	FirstName string     `json:"first_name" db:"first_name" gorm:"type:text;not null"`
	LastName  string     `json:"last_name" db:"last_name" gorm:"type:text;not null"`
	Email     string     `json:"email" db:"email" gorm:"type:text;not null"`
	Phone     *string    `json:"phone,omitempty" db:"phone" gorm:"type:text"`
	Address   *string    `json:"address,omitempty" db:"address" gorm:"type:text"`
	City      *string    `json:"city,omitempty" db:"city" gorm:"type:text"`
	State     *string    `json:"state,omitempty" db:"state" gorm:"type:text"`
	Zip       *string    `json:"zip,omitempty" db:"zip" gorm:"type:text"`
	Message   *string    `json:"message,omitempty" db:"message" gorm:"type:text"`
	Services  StringList `json:"services,omitempty" db:"services"`
	Source    *string    `json:"source,omitempty" db:"source" gorm:"type:text"`
	Status    string     `json:"status" db:"status" gorm:"type:text;index"`
	CreatedAt time.Time  `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime;index"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (Lead) TableName() string {
	return "leads"
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
	return nil
}

// LeadUpdate is a partial update; nil fields are left untouched.
type LeadUpdate struct {
	FirstName *string     `json:"first_name,omitempty"`
	LastName  *string     `json:"last_name,omitempty"`
	Email     *string     `json:"email,omitempty"`
	Phone     *string     `json:"phone,omitempty"`
	Address   *string     `json:"address,omitempty"`
	City      *string     `json:"city,omitempty"`
	State     *string     `json:"state,omitempty"`
	Zip       *string     `json:"zip,omitempty"`
	Message   *string     `json:"message,omitempty"`
	Services  *StringList `json:"services,omitempty"`
	Source    *string     `json:"source,omitempty"`
	Status    *string     `json:"status,omitempty"`
}

// Columns returns the column → value map of the fields that are set.
func (u LeadUpdate) Columns() map[string]any {
	cols := map[string]any{}
	setString(cols, "first_name", u.FirstName)
	setString(cols, "last_name", u.LastName)
	setString(cols, "email", u.Email)
	setString(cols, "phone", u.Phone)
	setString(cols, "address", u.Address)
	setString(cols, "city", u.City)
	setString(cols, "state", u.State)
	setString(cols, "zip", u.Zip)
	setString(cols, "message", u.Message)
	setString(cols, "source", u.Source)
	setString(cols, "status", u.Status)
	if u.Services != nil {
		cols["services"] = *u.Services
	}
	return cols
}

func setString(cols map[string]any, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}
