package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/models"
)

type TestimonialRepo struct {
	db *gorm.DB
}

func NewTestimonialRepo(db *gorm.DB) *TestimonialRepo {
	return &TestimonialRepo{db}
}

// FindApproved returns approved testimonials newest first
func (r *TestimonialRepo) FindApproved(ctx context.Context) ([]*models.Testimonial, error) {
	return findAll[models.Testimonial](ctx, r.approved(), "testimonial")
}

// FindAll returns every testimonial newest first, approved or not
func (r *TestimonialRepo) FindAll(ctx context.Context) ([]*models.Testimonial, error) {
	return findAll[models.Testimonial](ctx, r.db.Order("created_at DESC"), "testimonial")
}

// FindByService returns approved testimonials whose services include service
func (r *TestimonialRepo) FindByService(ctx context.Context, service string) ([]*models.Testimonial, error) {
	if r.db.Dialector.Name() == "postgres" {
		return findAll[models.Testimonial](ctx, r.approved().Where("services @> ARRAY[?]::text[]", service), "testimonial")
	}

	// No array operators outside Postgres; filter the approved set instead.
	approved, err := r.FindApproved(ctx)
	if err != nil {
		return nil, err
	}
	matched := []*models.Testimonial{}
	for _, t := range approved {
		if t.Services.Contains(service) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (r *TestimonialRepo) approved() *gorm.DB {
	return r.db.Where("approved = ?", true).Order("created_at DESC")
}

func (r *TestimonialRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	return findByID[models.Testimonial](ctx, r.db, "testimonial", id)
}

func (r *TestimonialRepo) Create(ctx context.Context, testimonial *models.Testimonial) (*models.Testimonial, error) {
	return create(ctx, r.db, "testimonial", testimonial)
}

func (r *TestimonialRepo) Update(ctx context.Context, id uuid.UUID, patch models.TestimonialUpdate) (*models.Testimonial, error) {
	return updateColumns[models.Testimonial](ctx, r.db, "testimonial", id, patch.Columns())
}

func (r *TestimonialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Testimonial](ctx, r.db, "testimonial", id)
}
