package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/errs"
)

const maxBodyBytes = 1 << 20

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, rt router) *routeHandlers {
	return &routeHandlers{
		healthHandler:      newHealthHandler(database, rt.startupTime),
		leadHandler:        newLeadHandler(database.LeadRepo(), rt.notifier),
		contentHandler:     newContentHandler(database.ContentRepo()),
		productHandler:     newProductHandler(database.ProductRepo()),
		galleryHandler:     newGalleryHandler(database.GalleryRepo()),
		serviceAreaHandler: newServiceAreaHandler(database.ServiceAreaRepo()),
		testimonialHandler: newTestimonialHandler(database.TestimonialRepo()),
		logHandler:         newLogHandler(database.LogRepo()),
		imageHandler:       newImageHandler(rt.images, rt.store, database.ProductRepo()),
	}
}

// decodeJSON reads a JSON body of at most maxBodyBytes into dst.
func decodeJSON(r *http.Request, payloadType string, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errs.NewBadRequestError("failed to read request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	return nil
}

func idParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError("id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError("id", "must be a UUID")
	}
	return id, nil
}
