package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/models"
)

type LogRepo struct {
	db *gorm.DB
}

func NewLogRepo(db *gorm.DB) *LogRepo {
	return &LogRepo{db}
}

// AddBatch stores client log entries in one insert
func (r *LogRepo) AddBatch(ctx context.Context, entries []*models.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return errs.NewDatabaseError("store", "log entries", err)
	}
	return nil
}

// Recent returns the newest entries, optionally at one level
func (r *LogRepo) Recent(ctx context.Context, level string, limit int) ([]*models.LogEntry, error) {
	q := r.db.Order("created_at DESC").Limit(limit)
	if level != "" {
		q = q.Where("level = ?", level)
	}
	return findAll[models.LogEntry](ctx, q, "log entry")
}
