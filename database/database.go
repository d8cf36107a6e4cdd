package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/models"
)

type Database struct {
	db              *gorm.DB
	leadRepo        *LeadRepo
	contentRepo     *ContentRepo
	productRepo     *ProductRepo
	galleryRepo     *GalleryRepo
	serviceAreaRepo *ServiceAreaRepo
	testimonialRepo *TestimonialRepo
	logRepo         *LogRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:              db,
		leadRepo:        NewLeadRepo(db),
		contentRepo:     NewContentRepo(db),
		productRepo:     NewProductRepo(db),
		galleryRepo:     NewGalleryRepo(db),
		serviceAreaRepo: NewServiceAreaRepo(db),
		testimonialRepo: NewTestimonialRepo(db),
		logRepo:         NewLogRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) LeadRepo() *LeadRepo {
	return d.leadRepo
}

func (d Database) Leads() Leads {
	return NewLeads(d.leadRepo)
}

func (d Database) ContentRepo() *ContentRepo {
	return d.contentRepo
}

func (d Database) ProductRepo() *ProductRepo {
	return d.productRepo
}

func (d Database) GalleryRepo() *GalleryRepo {
	return d.galleryRepo
}

func (d Database) ServiceAreaRepo() *ServiceAreaRepo {
	return d.serviceAreaRepo
}

func (d Database) TestimonialRepo() *TestimonialRepo {
	return d.testimonialRepo
}

func (d Database) LogRepo() *LogRepo {
	return d.logRepo
}

// Migrate creates or alters the site tables to match the models
func (d Database) Migrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return errs.NewDatabaseError("migrate", "schema", err)
	}
	return nil
}

// Ping checks that the database answers a trivial query
func (d Database) Ping(ctx context.Context) error {
	var result int
	if err := d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}
