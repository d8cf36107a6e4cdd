package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/models"
)

type GalleryRepo struct {
	db *gorm.DB
}

func NewGalleryRepo(db *gorm.DB) *GalleryRepo {
	return &GalleryRepo{db}
}

// FindAll returns gallery items newest first, optionally for one project type
func (r *GalleryRepo) FindAll(ctx context.Context, projectType string) ([]*models.GalleryItem, error) {
	q := r.db.Order("created_at DESC")
	if projectType != "" {
		q = q.Where("project_type = ?", projectType)
	}
	return findAll[models.GalleryItem](ctx, q, "gallery item")
}

func (r *GalleryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	return findByID[models.GalleryItem](ctx, r.db, "gallery item", id)
}

func (r *GalleryRepo) Create(ctx context.Context, item *models.GalleryItem) (*models.GalleryItem, error) {
	return create(ctx, r.db, "gallery item", item)
}

func (r *GalleryRepo) Update(ctx context.Context, id uuid.UUID, patch models.GalleryItemUpdate) (*models.GalleryItem, error) {
	return updateColumns[models.GalleryItem](ctx, r.db, "gallery item", id, patch.Columns())
}

func (r *GalleryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.GalleryItem](ctx, r.db, "gallery item", id)
}
