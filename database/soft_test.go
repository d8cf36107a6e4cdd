package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/contractor-site-backend/models"
)

func TestLeads_SoftFailures(t *testing.T) {
	d, db := newTestDatabase(t)
	ctx := context.Background()
	leads := d.Leads()

	created := leads.CreateLead(ctx, &models.Lead{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@doe.com",
		Zip:       strPtr("95814"),
	})
	require.NotNil(t, created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("get by missing id is nil", func(t *testing.T) {
		assert.Nil(t, leads.GetLeadByID(ctx, uuid.New()))
	})

	t.Run("get by id", func(t *testing.T) {
		got := leads.GetLeadByID(ctx, created.ID)
		require.NotNil(t, got)
		assert.Equal(t, "Jane", got.FirstName)
	})

	t.Run("update missing is nil", func(t *testing.T) {
		assert.Nil(t, leads.UpdateLead(ctx, uuid.New(), models.LeadUpdate{Status: strPtr("won")}))
	})

	t.Run("delete twice", func(t *testing.T) {
		assert.True(t, leads.DeleteLead(ctx, created.ID))
		assert.False(t, leads.DeleteLead(ctx, created.ID))
	})

	t.Run("database unreachable collapses to empty values", func(t *testing.T) {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		assert.Nil(t, leads.CreateLead(ctx, &models.Lead{FirstName: "Al", LastName: "Bo", Email: "a@b.co"}))
		list := leads.GetLeads(ctx, "")
		assert.NotNil(t, list)
		assert.Empty(t, list)
		assert.Nil(t, leads.GetLeadByID(ctx, uuid.New()))
		assert.False(t, leads.DeleteLead(ctx, uuid.New()))
	})
}
