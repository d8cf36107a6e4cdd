package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/models"
)

type testimonialHandler struct {
	responder       Responder
	logger          zerolog.Logger
	testimonialRepo *database.TestimonialRepo
}

func newTestimonialHandler(testimonialRepo *database.TestimonialRepo) testimonialHandler {
	logger := log.With().Str("handlerName", "testimonialHandler").Logger()

	return testimonialHandler{
		responder:       NewResponder(logger),
		logger:          logger,
		testimonialRepo: testimonialRepo,
	}
}

// listApproved returns approved testimonials, optionally for one service
// @Summary List testimonials
// @Tags Testimonials
// @Param service query string false "Service name"
// @Router /api/testimonials [get]
func (h testimonialHandler) listApproved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			testimonials []*models.Testimonial
			err          error
		)
		if service := r.URL.Query().Get("service"); service != "" {
			testimonials, err = h.testimonialRepo.FindByService(r.Context(), service)
		} else {
			testimonials, err = h.testimonialRepo.FindApproved(r.Context())
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "testimonials", err))
			return
		}
		h.responder.WriteJSON(w, testimonials)
	}
}

func (h testimonialHandler) listAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testimonials, err := h.testimonialRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "testimonials", err))
			return
		}
		h.responder.WriteJSON(w, testimonials)
	}
}

func (h testimonialHandler) createTestimonial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t models.Testimonial
		if err := decodeJSON(r, "testimonial", &t); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if strings.TrimSpace(t.CustomerName) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("customer_name"))
			return
		}
		if strings.TrimSpace(t.Testimonial) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("testimonial"))
			return
		}
		if t.Rating != nil && (*t.Rating < 1 || *t.Rating > 5) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("rating", "must be between 1 and 5"))
			return
		}

		created, err := h.testimonialRepo.Create(r.Context(), &t)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "testimonial", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

func (h testimonialHandler) updateTestimonial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var patch models.TestimonialUpdate
		if err := decodeJSON(r, "testimonial update", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 5) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("rating", "must be between 1 and 5"))
			return
		}
		updated, err := h.testimonialRepo.Update(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "testimonial", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func (h testimonialHandler) deleteTestimonial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.testimonialRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "testimonial", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
