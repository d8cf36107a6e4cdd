package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/models"
)

type contentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contentRepo *database.ContentRepo
}

func newContentHandler(contentRepo *database.ContentRepo) contentHandler {
	logger := log.With().Str("handlerName", "contentHandler").Logger()

	return contentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		contentRepo: contentRepo,
	}
}

// getContent returns the CMS content of one page
// @Summary Get page content
// @Tags Content
// @Param slug path string true "Page slug"
// @Router /api/content/{slug} [get]
func (h contentHandler) getContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		content, err := h.contentRepo.FindBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "content", err))
			return
		}
		h.responder.WriteJSON(w, content)
	}
}

func (h contentHandler) listContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := h.contentRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "content", err))
			return
		}
		h.responder.WriteJSON(w, content)
	}
}

func (h contentHandler) createContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var content models.Content
		if err := decodeJSON(r, "content", &content); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if strings.TrimSpace(content.PageSlug) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("page_slug"))
			return
		}
		if strings.TrimSpace(content.Title) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		created, err := h.contentRepo.Create(r.Context(), &content)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "content", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

func (h contentHandler) updateContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var patch models.ContentUpdate
		if err := decodeJSON(r, "content update", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		updated, err := h.contentRepo.Update(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "content", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func (h contentHandler) deleteContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.contentRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "content", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
