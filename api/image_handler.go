package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/imagegen"
	"github.com/rpupo63/contractor-site-backend/models"
	"github.com/rpupo63/contractor-site-backend/storage"
)

type imageHandler struct {
	responder   Responder
	logger      zerolog.Logger
	generator   imageGenerator
	store       imageStore
	productRepo *database.ProductRepo
}

func newImageHandler(generator imageGenerator, store imageStore, productRepo *database.ProductRepo) imageHandler {
	logger := log.With().Str("handlerName", "imageHandler").Logger()

	return imageHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		generator:   generator,
		store:       store,
		productRepo: productRepo,
	}
}

type generateImageRequest struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Samples        int    `json:"samples,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Folder         string `json:"folder,omitempty"`
	// ProductSlug builds the prompt from a product and attaches the
	// uploaded images to it.
	ProductSlug string `json:"product_slug,omitempty"`
}

type generatedImage struct {
	imagegen.Image
	URL  string `json:"uri"`
	Path string `json:"path,omitempty"`
}

// generateImages creates images from a prompt and stores them
// @Summary Generate images
// @Tags Admin
// @Accept json
// @Produce json
// @Router /admin/api/images/generate [post]
func (h imageHandler) generateImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.generator == nil {
			h.responder.WriteError(w, errs.NewServiceUnreachableError("image generation", fmt.Errorf("not configured")))
			return
		}

		var req generateImageRequest
		if err := decodeJSON(r, "image generation", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var product *models.Product
		if req.ProductSlug != "" {
			p, err := h.productRepo.FindBySlug(r.Context(), req.ProductSlug)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "product", err))
				return
			}
			if err := p.ValidateImages(); err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("images", err.Error()))
				return
			}
			product = p
			if strings.TrimSpace(req.Prompt) == "" {
				req.Prompt = imagegen.ProductPrompt(p.Name, deref(p.Description), p.Category)
			}
			if req.Folder == "" {
				req.Folder = "products/" + p.Slug
			}
		}
		if strings.TrimSpace(req.Prompt) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("prompt"))
			return
		}

		images, err := h.generator.Generate(r.Context(), req.Prompt, imagegen.Options{
			Model:          req.Model,
			Samples:        req.Samples,
			Width:          req.Width,
			Height:         req.Height,
			NegativePrompt: req.NegativePrompt,
		})
		if err != nil {
			if h.responder.CheckContextTimeout(w, r) {
				return
			}
			if errs.IsContentPolicyError(err) {
				h.logger.Warn().Str("prompt", req.Prompt).Msg("Image prompt rejected by content policy")
			}
			h.responder.WriteError(w, err)
			return
		}

		out, err := h.persist(r, req.Folder, images)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if product != nil && h.store != nil {
			if err := h.attach(r, product, out); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		h.logger.Info().
			Int("count", len(out)).
			Str("admin", ctxGetAdminSubject(r.Context())).
			Msg("Generated images")
		h.responder.WriteJSON(w, map[string]any{"success": true, "data": out})
	}
}

// persist uploads images when a store is configured and falls back to
// inline data URIs otherwise.
func (h imageHandler) persist(r *http.Request, folder string, images []imagegen.Image) ([]generatedImage, error) {
	out := make([]generatedImage, len(images))
	if h.store == nil {
		for i, img := range images {
			out[i] = generatedImage{Image: img, URL: img.DataURI()}
		}
		return out, nil
	}

	if folder == "" {
		folder = "generated"
	}
	files := make([]storage.Image, len(images))
	for i, img := range images {
		files[i] = storage.Image{Name: img.ID + storage.ExtensionFor(img.MimeType), Data: img.Data, MimeType: img.MimeType}
	}
	uploaded, err := h.store.UploadImages(r.Context(), folder, files)
	if err != nil {
		return nil, err
	}
	for i, img := range images {
		out[i] = generatedImage{Image: img, URL: uploaded[i].URL, Path: uploaded[i].Path}
	}
	return out, nil
}

func (h imageHandler) attach(r *http.Request, product *models.Product, images []generatedImage) error {
	p := *product
	for _, img := range images {
		next, err := p.WithImage(img.URL)
		if err != nil {
			return errs.NewInternalErrorWithCause("failed to encode product images", err)
		}
		p.Images = next
	}
	_, err := h.productRepo.Update(r.Context(), p.ID, models.ProductUpdate{Images: &p.Images})
	if err != nil {
		return wrapDatabaseError("update", "product", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
