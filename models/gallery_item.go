package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GalleryItem is a finished installation shown in the project gallery
type GalleryItem struct {
	ID          uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	ProjectType string         `json:"project_type" db:"project_type" gorm:"type:text;not null;index"`
	Location    *string        `json:"location,omitempty" db:"location" gorm:"type:text"`
	Description *string        `json:"description,omitempty" db:"description" gorm:"type:text"`
	Images      datatypes.JSON `json:"images" db:"images" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`
}

func (GalleryItem) TableName() string {
	return "gallery"
}

func (g *GalleryItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&g.ID)
	if len(g.Images) == 0 {
		g.Images = datatypes.JSON("[]")
	}
	return nil
}

type GalleryItemUpdate struct {
	ProjectType *string         `json:"project_type,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Description *string         `json:"description,omitempty"`
	Images      *datatypes.JSON `json:"images,omitempty"`
}

func (u GalleryItemUpdate) Columns() map[string]any {
	cols := map[string]any{}
	setString(cols, "project_type", u.ProjectType)
	setString(cols, "location", u.Location)
	setString(cols, "description", u.Description)
	setJSON(cols, "images", u.Images)
	return cols
}
