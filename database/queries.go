package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/contractor-site-backend/errs"
)

// The helpers below hold the round trips every table repo shares. Each
// returns an *errs.ApiErr classified by errs.NewDatabaseError.

func findByID[T any](ctx context.Context, db *gorm.DB, entity string, id uuid.UUID) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", entity, err)
	}
	return &row, nil
}

func findOneWhere[T any](ctx context.Context, db *gorm.DB, entity, query string, args ...any) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		return nil, errs.NewDatabaseError("find", entity, err)
	}
	return &row, nil
}

func create[T any](ctx context.Context, db *gorm.DB, entity string, row *T) (*T, error) {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, errs.NewDatabaseError("create", entity, err)
	}
	return row, nil
}

// updateColumns applies cols to the row with id and reloads it from the
// primary, since a replica may not have seen the write yet.
func updateColumns[T any](ctx context.Context, db *gorm.DB, entity string, id uuid.UUID, cols map[string]any) (*T, error) {
	if len(cols) > 0 {
		res := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, errs.NewDatabaseError("update", entity, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, errs.NewNotFound(entity)
		}
	}
	return findByID[T](ctx, db.Clauses(dbresolver.Write), entity, id)
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, entity string, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return errs.NewDatabaseError("delete", entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(entity)
	}
	return nil
}

func findAll[T any](ctx context.Context, q *gorm.DB, entity string) ([]*T, error) {
	rows := []*T{}
	if err := q.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, errs.NewDatabaseError("find", entity+"s", err)
	}
	return rows, nil
}
