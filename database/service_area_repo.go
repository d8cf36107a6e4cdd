package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/models"
)

type ServiceAreaRepo struct {
	db *gorm.DB
}

func NewServiceAreaRepo(db *gorm.DB) *ServiceAreaRepo {
	return &ServiceAreaRepo{db}
}

// FindAll returns every service area ordered by city
func (r *ServiceAreaRepo) FindAll(ctx context.Context) ([]*models.ServiceArea, error) {
	return findAll[models.ServiceArea](ctx, r.db.Order("city"), "service area")
}

// FindByState returns the service areas of one state ordered by city
func (r *ServiceAreaRepo) FindByState(ctx context.Context, state string) ([]*models.ServiceArea, error) {
	return findAll[models.ServiceArea](ctx, r.db.Where("state = ?", state).Order("city"), "service area")
}

// FindByZip returns the service areas covering zip
func (r *ServiceAreaRepo) FindByZip(ctx context.Context, zip string) ([]*models.ServiceArea, error) {
	return findAll[models.ServiceArea](ctx, r.db.Where("zip = ?", zip).Order("city"), "service area")
}

// IsServiceable reports whether an available service area matches city and
// state, and zip when one is given.
func (r *ServiceAreaRepo) IsServiceable(ctx context.Context, city, state, zip string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.ServiceArea{}).
		Where("city = ? AND state = ? AND available = ?", city, state, true)
	if zip != "" {
		q = q.Where("zip = ?", zip)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, errs.NewDatabaseError("check", "service area", err)
	}
	return count > 0, nil
}

func (r *ServiceAreaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceArea, error) {
	return findByID[models.ServiceArea](ctx, r.db, "service area", id)
}

func (r *ServiceAreaRepo) Create(ctx context.Context, area *models.ServiceArea) (*models.ServiceArea, error) {
	return create(ctx, r.db, "service area", area)
}

func (r *ServiceAreaRepo) Update(ctx context.Context, id uuid.UUID, patch models.ServiceAreaUpdate) (*models.ServiceArea, error) {
	return updateColumns[models.ServiceArea](ctx, r.db, "service area", id, patch.Columns())
}

func (r *ServiceAreaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.ServiceArea](ctx, r.db, "service area", id)
}
