package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a window, door or siding line shown in the catalog
type Product struct {
	ID             uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Name           string         `json:"name" db:"name" gorm:"type:text;not null"`
	Slug           string         `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Category       string         `json:"category" db:"category" gorm:"type:text;not null;index"`
	Subcategory    *string        `json:"subcategory,omitempty" db:"subcategory" gorm:"type:text"`
	Description    *string        `json:"description,omitempty" db:"description" gorm:"type:text"`
	Features       datatypes.JSON `json:"features,omitempty" db:"features"`
	Specifications datatypes.JSON `json:"specifications,omitempty" db:"specifications"`
	Images         datatypes.JSON `json:"images,omitempty" db:"images"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// ImageURLs lists the image URLs in Images. Entries may be plain URL strings
// or objects with a "url" field; other entries are skipped.
func (p Product) ImageURLs() []string {
	entries, err := p.imageEntries()
	if err != nil {
		return nil
	}
	var urls []string
	for _, raw := range entries {
		if u := entryURL(raw); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// WithImage returns Images with url appended. Existing entries are kept as
// stored and a url already present is not added again. Images holding
// anything other than a JSON array is an error.
func (p Product) WithImage(url string) (datatypes.JSON, error) {
	entries, err := p.imageEntries()
	if err != nil {
		return nil, err
	}
	for _, raw := range entries {
		if entryURL(raw) == url {
			return p.Images, nil
		}
	}

	encoded, err := json.Marshal(url)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(append(entries, encoded))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ValidateImages reports whether Images can take appended URLs.
func (p Product) ValidateImages() error {
	_, err := p.imageEntries()
	return err
}

func (p Product) imageEntries() ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(p.Images)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("product %s images are not a JSON array: %w", p.Slug, err)
	}
	return entries, nil
}

func entryURL(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.URL
	}
	return ""
}

type ProductUpdate struct {
	Name           *string         `json:"name,omitempty"`
	Slug           *string         `json:"slug,omitempty"`
	Category       *string         `json:"category,omitempty"`
	Subcategory    *string         `json:"subcategory,omitempty"`
	Description    *string         `json:"description,omitempty"`
	Features       *datatypes.JSON `json:"features,omitempty"`
	Specifications *datatypes.JSON `json:"specifications,omitempty"`
	Images         *datatypes.JSON `json:"images,omitempty"`
}

func (u ProductUpdate) Columns() map[string]any {
	cols := map[string]any{}
	setString(cols, "name", u.Name)
	setString(cols, "slug", u.Slug)
	setString(cols, "category", u.Category)
	setString(cols, "subcategory", u.Subcategory)
	setString(cols, "description", u.Description)
	setJSON(cols, "features", u.Features)
	setJSON(cols, "specifications", u.Specifications)
	setJSON(cols, "images", u.Images)
	return cols
}
