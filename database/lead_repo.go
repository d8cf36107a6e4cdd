package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/models"
)

type LeadRepo struct {
	db *gorm.DB
}

func NewLeadRepo(db *gorm.DB) *LeadRepo {
	return &LeadRepo{db}
}

// Create inserts a lead and returns it with its generated id and timestamps
func (r *LeadRepo) Create(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	return create(ctx, r.db, "lead", lead)
}

// FindAll returns leads newest first, filtered by exact status when status is not empty
func (r *LeadRepo) FindAll(ctx context.Context, status string) ([]*models.Lead, error) {
	q := r.db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return findAll[models.Lead](ctx, q, "lead")
}

// FindByID returns the lead with id, or an errs.ErrNotFound error
func (r *LeadRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return findByID[models.Lead](ctx, r.db, "lead", id)
}

// Update applies the set fields of patch and returns the updated lead
func (r *LeadRepo) Update(ctx context.Context, id uuid.UUID, patch models.LeadUpdate) (*models.Lead, error) {
	return updateColumns[models.Lead](ctx, r.db, "lead", id, patch.Columns())
}

// Delete removes a lead; deleting a missing lead is an errs.ErrNotFound error
func (r *LeadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Lead](ctx, r.db, "lead", id)
}
