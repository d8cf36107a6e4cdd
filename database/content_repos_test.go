package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/models"
)

func TestContentRepo(t *testing.T) {
	d, _ := newTestDatabase(t)
	ctx := context.Background()
	repo := d.ContentRepo()

	for _, slug := range []string{"windows", "doors", "about"} {
		_, err := repo.Create(ctx, &models.Content{
			PageSlug: slug,
			Title:    slug + " page",
			Sections: datatypes.JSON(`[{"type":"hero"}]`),
		})
		require.NoError(t, err)
	}

	page, err := repo.FindBySlug(ctx, "doors")
	require.NoError(t, err)
	assert.Equal(t, "doors page", page.Title)
	assert.JSONEq(t, `[{"type":"hero"}]`, string(page.Sections))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "about", all[0].PageSlug)
	assert.Equal(t, "windows", all[2].PageSlug)

	_, err = repo.FindBySlug(ctx, "siding")
	assert.True(t, errs.IsNotFound(err))

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.Content{PageSlug: "doors", Title: "again"})
		require.Error(t, err)
		assert.Equal(t, errs.KindRejected, errs.KindOf(err))
		assert.ErrorIs(t, err, errs.ErrAlreadyExists)
	})

	updated, err := repo.Update(ctx, page.ID, models.ContentUpdate{Title: strPtr("Entry Doors")})
	require.NoError(t, err)
	assert.Equal(t, "Entry Doors", updated.Title)
	assert.Equal(t, "doors", updated.PageSlug)

	require.NoError(t, repo.Delete(ctx, page.ID))
	assert.True(t, errs.IsNotFound(repo.Delete(ctx, page.ID)))
}

func TestProductRepo(t *testing.T) {
	d, _ := newTestDatabase(t)
	ctx := context.Background()
	repo := d.ProductRepo()

	seed := []models.Product{
		{Name: "Picture Window", Slug: "picture-window", Category: "windows"},
		{Name: "Casement Window", Slug: "casement", Category: "windows"},
		{Name: "Entry Door", Slug: "entry-door", Category: "doors"},
	}
	for i := range seed {
		_, err := repo.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	windows, err := repo.FindAll(ctx, "windows")
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, "Casement Window", windows[0].Name)
	assert.Equal(t, "Picture Window", windows[1].Name)

	all, err := repo.FindAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	door, err := repo.FindBySlug(ctx, "entry-door")
	require.NoError(t, err)
	assert.Equal(t, "doors", door.Category)

	images, err := door.WithImage("https://cdn.example.com/door.png")
	require.NoError(t, err)
	updated, err := repo.Update(ctx, door.ID, models.ProductUpdate{Images: &images})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/door.png"}, updated.ImageURLs())
}

func TestGalleryRepo(t *testing.T) {
	d, _ := newTestDatabase(t)
	ctx := context.Background()
	repo := d.GalleryRepo()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, &models.GalleryItem{ProjectType: "windows", CreatedAt: base})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.GalleryItem{ProjectType: "siding", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	latest, err := repo.Create(ctx, &models.GalleryItem{ProjectType: "windows", Location: strPtr("Sacramento, CA"), CreatedAt: base.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(latest.Images))

	windows, err := repo.FindAll(ctx, "windows")
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, latest.ID, windows[0].ID)

	got, err := repo.FindByID(ctx, latest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sacramento, CA", *got.Location)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errs.IsNotFound(err))

	// no columns set: nothing to update, the row comes back unchanged
	same, err := repo.Update(ctx, latest.ID, models.GalleryItemUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "windows", same.ProjectType)
}

func TestServiceAreaRepo(t *testing.T) {
	d, _ := newTestDatabase(t)
	ctx := context.Background()
	repo := d.ServiceAreaRepo()

	seed := []models.ServiceArea{
		{City: "Sacramento", State: "CA", Zip: strPtr("95814")},
		{City: "Folsom", State: "CA", Zip: strPtr("95630")},
		{City: "Reno", State: "NV", Available: boolPtr(false)},
	}
	for i := range seed {
		_, err := repo.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	ca, err := repo.FindByState(ctx, "CA")
	require.NoError(t, err)
	require.Len(t, ca, 2)
	assert.Equal(t, "Folsom", ca[0].City)

	byZip, err := repo.FindByZip(ctx, "95814")
	require.NoError(t, err)
	require.Len(t, byZip, 1)
	assert.Equal(t, "Sacramento", byZip[0].City)

	tests := []struct {
		name              string
		city, state, zip  string
		expectServiceable bool
	}{
		{"city and state", "Sacramento", "CA", "", true},
		{"matching zip", "Sacramento", "CA", "95814", true},
		{"other zip", "Sacramento", "CA", "95630", false},
		{"unavailable area", "Reno", "NV", "", false},
		{"unknown city", "Fresno", "CA", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := repo.IsServiceable(ctx, tt.city, tt.state, tt.zip)
			require.NoError(t, err)
			assert.Equal(t, tt.expectServiceable, ok)
		})
	}

	reno := seed[2]
	_, err = repo.Update(ctx, reno.ID, models.ServiceAreaUpdate{Available: boolPtr(true)})
	require.NoError(t, err)
	ok, err := repo.IsServiceable(ctx, "Reno", "NV", "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTestimonialRepo(t *testing.T) {
	d, _ := newTestDatabase(t)
	ctx := context.Background()
	repo := d.TestimonialRepo()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seed := []models.Testimonial{
		{CustomerName: "Ann", Testimonial: "Great windows", Services: models.StringList{"windows"}, Approved: boolPtr(true), CreatedAt: base},
		{CustomerName: "Ben", Testimonial: "New door", Services: models.StringList{"doors", "windows"}, Approved: boolPtr(true), CreatedAt: base.Add(time.Hour)},
		{CustomerName: "Cat", Testimonial: "Pending", Services: models.StringList{"windows"}, CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range seed {
		_, err := repo.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	approved, err := repo.FindApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 2)
	assert.Equal(t, "Ben", approved[0].CustomerName)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.False(t, *all[0].Approved)

	windows, err := repo.FindByService(ctx, "windows")
	require.NoError(t, err)
	require.Len(t, windows, 2)

	doors, err := repo.FindByService(ctx, "doors")
	require.NoError(t, err)
	require.Len(t, doors, 1)
	assert.Equal(t, "Ben", doors[0].CustomerName)
}

func TestLogRepo(t *testing.T) {
	d, _ := newTestDatabase(t)
	ctx := context.Background()
	repo := d.LogRepo()

	require.NoError(t, repo.AddBatch(ctx, nil))
	require.NoError(t, repo.AddBatch(ctx, []*models.LogEntry{
		{Level: "info", Message: "page view", Source: strPtr("client")},
		{Level: "error", Message: "form failed", Details: datatypes.JSON(`{"field":"email"}`)},
	}))

	errorsOnly, err := repo.Recent(ctx, "error", 10)
	require.NoError(t, err)
	require.Len(t, errorsOnly, 1)
	assert.Equal(t, "form failed", errorsOnly[0].Message)
	assert.NotEqual(t, uuid.Nil, errorsOnly[0].ID)
}
