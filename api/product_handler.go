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

type productHandler struct {
	responder   Responder
	logger      zerolog.Logger
	productRepo *database.ProductRepo
}

func newProductHandler(productRepo *database.ProductRepo) productHandler {
	logger := log.With().Str("handlerName", "productHandler").Logger()

	return productHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		productRepo: productRepo,
	}
}

// listProducts returns the catalog, optionally narrowed to one category
// @Summary List products
// @Tags Products
// @Param category query string false "Product category"
// @Router /api/products [get]
func (h productHandler) listProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := h.productRepo.FindAll(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "products", err))
			return
		}
		h.responder.WriteJSON(w, products)
	}
}

func (h productHandler) getProductBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := h.productRepo.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "product", err))
			return
		}
		h.responder.WriteJSON(w, product)
	}
}

func (h productHandler) createProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var product models.Product
		if err := decodeJSON(r, "product", &product); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		required := []struct{ field, value string }{
			{"name", product.Name},
			{"slug", product.Slug},
			{"category", product.Category},
		}
		for _, f := range required {
			if strings.TrimSpace(f.value) == "" {
				h.responder.WriteError(w, errs.NewMissingRequiredFieldError(f.field))
				return
			}
		}

		created, err := h.productRepo.Create(r.Context(), &product)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "product", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

func (h productHandler) updateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var patch models.ProductUpdate
		if err := decodeJSON(r, "product update", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		updated, err := h.productRepo.Update(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "product", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func (h productHandler) deleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.productRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "product", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
