package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/contractor-site-backend/models"
)

func newTestDatabase(t *testing.T) (Database, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	d := New(db)
	require.NoError(t, d.Migrate(context.Background()))
	return d, db
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestDatabase_Ping(t *testing.T) {
	d, _ := newTestDatabase(t)
	require.NoError(t, d.Ping(context.Background()))
}

func TestUpdate_ReloadsFromPrimary(t *testing.T) {
	d, db := newTestDatabase(t)
	ctx := context.Background()

	lead, err := d.LeadRepo().Create(ctx, &models.Lead{FirstName: "Jane", LastName: "Doe", Email: "jane@doe.com"})
	require.NoError(t, err)

	// the replica is an empty database, so any read routed to it fails
	require.NoError(t, db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{sqlite.Open(":memory:")},
	})))
	_, err = d.LeadRepo().FindByID(ctx, lead.ID)
	require.Error(t, err)

	updated, err := d.LeadRepo().Update(ctx, lead.ID, models.LeadUpdate{Status: strPtr(models.LeadStatusContacted)})
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusContacted, updated.Status)
	assert.Equal(t, "jane@doe.com", updated.Email)
}
