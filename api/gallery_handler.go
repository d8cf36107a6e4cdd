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

type galleryHandler struct {
	responder   Responder
	logger      zerolog.Logger
	galleryRepo *database.GalleryRepo
}

func newGalleryHandler(galleryRepo *database.GalleryRepo) galleryHandler {
	logger := log.With().Str("handlerName", "galleryHandler").Logger()

	return galleryHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		galleryRepo: galleryRepo,
	}
}

// listGallery returns finished projects, newest first
// @Summary List gallery
// @Tags Gallery
// @Param project_type query string false "Project type"
// @Router /api/gallery [get]
func (h galleryHandler) listGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.galleryRepo.FindAll(r.Context(), r.URL.Query().Get("project_type"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "gallery", err))
			return
		}
		h.responder.WriteJSON(w, items)
	}
}

func (h galleryHandler) createGalleryItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item models.GalleryItem
		if err := decodeJSON(r, "gallery item", &item); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if strings.TrimSpace(item.ProjectType) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("project_type"))
			return
		}

		created, err := h.galleryRepo.Create(r.Context(), &item)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "gallery item", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

func (h galleryHandler) updateGalleryItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var patch models.GalleryItemUpdate
		if err := decodeJSON(r, "gallery item update", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		updated, err := h.galleryRepo.Update(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "gallery item", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func (h galleryHandler) deleteGalleryItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.galleryRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "gallery item", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
