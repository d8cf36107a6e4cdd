package api

import (
	"context"

	"github.com/rpupo63/contractor-site-backend/imagegen"
	"github.com/rpupo63/contractor-site-backend/models"
	"github.com/rpupo63/contractor-site-backend/storage"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler      healthHandler
	leadHandler        leadHandler
	contentHandler     contentHandler
	productHandler     productHandler
	galleryHandler     galleryHandler
	serviceAreaHandler serviceAreaHandler
	testimonialHandler testimonialHandler
	logHandler         logHandler
	imageHandler       imageHandler
}

type leadNotifier interface {
	NotifyNewLead(ctx context.Context, lead *models.Lead) error
}

type imageGenerator interface {
	Generate(ctx context.Context, prompt string, opts imagegen.Options) ([]imagegen.Image, error)
}

type imageStore interface {
	UploadImages(ctx context.Context, folder string, imgs []storage.Image) ([]storage.Uploaded, error)
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error       string            `json:"error" example:"lead not found"`
	Status      string            `json:"status" example:"error"`
	Field       string            `json:"field,omitempty" example:"email"`
	Details     string            `json:"details,omitempty" example:"Additional error details"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}
