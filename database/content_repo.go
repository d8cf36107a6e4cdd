package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/models"
)

type ContentRepo struct {
	db *gorm.DB
}

func NewContentRepo(db *gorm.DB) *ContentRepo {
	return &ContentRepo{db}
}

// FindBySlug returns the content of one page
func (r *ContentRepo) FindBySlug(ctx context.Context, pageSlug string) (*models.Content, error) {
	return findOneWhere[models.Content](ctx, r.db, "content", "page_slug = ?", pageSlug)
}

// FindAll returns every page ordered by slug
func (r *ContentRepo) FindAll(ctx context.Context) ([]*models.Content, error) {
	return findAll[models.Content](ctx, r.db.Order("page_slug"), "content")
}

func (r *ContentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	return findByID[models.Content](ctx, r.db, "content", id)
}

func (r *ContentRepo) Create(ctx context.Context, content *models.Content) (*models.Content, error) {
	return create(ctx, r.db, "content", content)
}

func (r *ContentRepo) Update(ctx context.Context, id uuid.UUID, patch models.ContentUpdate) (*models.Content, error) {
	return updateColumns[models.Content](ctx, r.db, "content", id, patch.Columns())
}

func (r *ContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Content](ctx, r.db, "content", id)
}
