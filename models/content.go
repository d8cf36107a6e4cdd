package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content holds the copy and section data of one site page
type Content struct {
	ID              uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	PageSlug        string         `json:"page_slug" db:"page_slug" gorm:"type:text;not null;uniqueIndex"`
	Title           string         `json:"title" db:"title" gorm:"type:text;not null"`
	MetaDescription *string        `json:"meta_description,omitempty" db:"meta_description" gorm:"type:text"`
	Content         datatypes.JSON `json:"content,omitempty" db:"content"`
	Sections        datatypes.JSON `json:"sections,omitempty" db:"sections"`
	Images          datatypes.JSON `json:"images,omitempty" db:"images"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (Content) TableName() string {
	return "content"
}

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

type ContentUpdate struct {
	PageSlug        *string         `json:"page_slug,omitempty"`
	Title           *string         `json:"title,omitempty"`
	MetaDescription *string         `json:"meta_description,omitempty"`
	Content         *datatypes.JSON `json:"content,omitempty"`
	Sections        *datatypes.JSON `json:"sections,omitempty"`
	Images          *datatypes.JSON `json:"images,omitempty"`
}

func (u ContentUpdate) Columns() map[string]any {
	cols := map[string]any{}
	setString(cols, "page_slug", u.PageSlug)
	setString(cols, "title", u.Title)
	setString(cols, "meta_description", u.MetaDescription)
	setJSON(cols, "content", u.Content)
	setJSON(cols, "sections", u.Sections)
	setJSON(cols, "images", u.Images)
	return cols
}

func setJSON(cols map[string]any, column string, v *datatypes.JSON) {
	if v != nil {
		cols[column] = *v
	}
}
