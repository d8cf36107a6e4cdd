package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/models"
)

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db}
}

// FindAll returns products ordered by name, optionally limited to one category
func (r *ProductRepo) FindAll(ctx context.Context, category string) ([]*models.Product, error) {
	q := r.db.Order("name")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	return findAll[models.Product](ctx, q, "product")
}

func (r *ProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return findOneWhere[models.Product](ctx, r.db, "product", "slug = ?", slug)
}

func (r *ProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return findByID[models.Product](ctx, r.db, "product", id)
}

func (r *ProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	return create(ctx, r.db, "product", product)
}

func (r *ProductRepo) Update(ctx context.Context, id uuid.UUID, patch models.ProductUpdate) (*models.Product, error) {
	return updateColumns[models.Product](ctx, r.db, "product", id, patch.Columns())
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Product](ctx, r.db, "product", id)
}
